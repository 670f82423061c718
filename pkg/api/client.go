// Package api 提供了访问后端 REST API 的客户端。
// 所有响应都使用 {success, data, message} 信封，success 不为 true 一律按失败处理。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"arch-market-go/internal/model"
)

var (
	// ErrUnauthorized 表示凭证缺失、无效或已过期（HTTP 401）。
	// 调用方收到该错误后必须清除本地会话并重新认证。
	ErrUnauthorized = errors.New("未授权或凭证已过期")
	// ErrForbidden 表示凭证有效但角色无权访问（HTTP 403）。
	ErrForbidden = errors.New("无权访问该资源")
)

// Client 是后端 API 的 HTTP 客户端。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建一个新的 API 客户端。
// baseURL 形如 http://localhost:5000/api，末尾斜杠会被去除。
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope 对应后端统一的响应信封。
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do 执行一次请求并把信封中的 data 解码到 out。
// token 非空时附带 Bearer 授权头；out 为 nil 时丢弃 data。
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		if env.Message == "" {
			return fmt.Errorf("request failed with status %s", resp.Status)
		}
		return errors.New(env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// LoginResult 是登录与注册成功后的返回载体。
type LoginResult struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         model.Identity `json:"user"`
}

// Login 使用邮箱和密码换取 token 对与用户身份。
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register 注册一个新用户并直接返回签发的 token 对。
func (c *Client) Register(ctx context.Context, fullName, email, password, role string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
		"role":     role,
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me 使用凭证解析当前身份。会话守卫依赖此调用。
func (c *Client) Me(ctx context.Context, token string) (*model.Identity, error) {
	var identity model.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Logout 通知后端将当前 token 作废。
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// Refresh 用 refresh token 换取新的 token 对。
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", "", body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// TokenPair 是刷新接口返回的 token 组合。
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
