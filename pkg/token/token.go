package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// KeySize 是HMAC密钥的字节数
const KeySize = 32

// TokenPayload 定义了需要被签名的数据结构。
// 表单令牌绑定到浏览器ID和表单名称，防止跨站提交。
type TokenPayload struct {
	BrowserID string `json:"b"`
	Form      string `json:"f"`
}

// Signer 持有进程启动时生成的密钥，重启后旧令牌全部失效
type Signer struct {
	secretKey []byte
}

// NewSigner 生成一个密码学安全的32字节随机密钥。
func NewSigner() (*Signer, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("无法生成安全的密钥: %w", err)
	}
	return &Signer{secretKey: key}, nil
}

// NewSignerWithKey 使用给定密钥创建 Signer
func NewSignerWithKey(key []byte) (*Signer, error) {
	if len(key) < KeySize {
		return nil, fmt.Errorf("密钥长度至少为 %d 字节", KeySize)
	}
	return &Signer{secretKey: append([]byte(nil), key...)}, nil
}

func (s *Signer) sign(payload TokenPayload) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.New("无法序列化Token payload")
	}
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write(payloadBytes)
	return mac.Sum(nil), nil
}

// Generate 为一个给定的TokenPayload生成一个HMAC签名。
// 它返回的是签名的Base64编码字符串。
func (s *Signer) Generate(payload TokenPayload) (string, error) {
	signature, err := s.sign(payload)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(signature), nil
}

// Validate 验证一个给定的payload和签名是否匹配。
func (s *Signer) Validate(payload TokenPayload, signatureB64 string) bool {
	if payload.BrowserID == "" || signatureB64 == "" {
		return false
	}
	expectedSignature, err := s.sign(payload)
	if err != nil {
		return false
	}
	actualSignature, err := base64.RawURLEncoding.DecodeString(signatureB64)
	if err != nil {
		return false
	}
	// 时间恒定的比较
	return hmac.Equal(expectedSignature, actualSignature)
}
