package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Result 是TMDB搜索接口返回的单个候选电影
type Result struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

// Year 从 release_date (YYYY-MM-DD) 中取出年份，缺失或格式错误时返回 0
func (r Result) Year() int {
	if len(r.ReleaseDate) < 4 {
		return 0
	}
	var year int
	if _, err := fmt.Sscanf(r.ReleaseDate[:4], "%d", &year); err != nil {
		return 0
	}
	return year
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Searcher 按关键字搜索电影
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// UpstreamError 表示TMDB返回了非成功的HTTP状态码
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("tmdb returned status %d: %s", e.StatusCode, e.Body)
}

// Client 对 /search/movie 发起一次同步GET请求，不做重试
type Client struct {
	searchURL  string
	apiKeyEnv  string
	httpClient *http.Client
}

// NewClient 创建搜索客户端。timeout 为 0 表示不设置超时。
func NewClient(searchURL, apiKeyEnv string, timeout time.Duration) *Client {
	return &Client{
		searchURL:  searchURL,
		apiKeyEnv:  apiKeyEnv,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	u, err := url.Parse(c.searchURL)
	if err != nil {
		return nil, fmt.Errorf("无效的搜索地址: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	// API密钥在每次请求时从环境变量读取
	q.Set("api_key", os.Getenv(c.apiKeyEnv))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return parsed.Results, nil
}
