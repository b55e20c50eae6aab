package user

import (
	"fmt"

	"github.com/google/uuid"
)

// NewBrowserID 生成一个新的浏览器标识 (UUID v7)。
// 它只写入cookie，不做持久化。
func NewBrowserID() (string, error) {
	newUUID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("无法生成UUID v7: %w", err)
	}
	return newUUID.String(), nil
}

// IsValidUUID 检查cookie中的值是否为合法的UUID
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
