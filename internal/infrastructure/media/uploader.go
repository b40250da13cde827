// Package media 实现图床出站适配器:multipart上传HTTP客户端,熔断器保护。
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/xiebiao/edubook/internal/infrastructure/config"
	"github.com/xiebiao/edubook/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
	"github.com/xiebiao/edubook/pkg/metrics"
)

// HostClient 图床HTTP客户端
// 设计说明：
// 1. 实现domain/media.Uploader端口
// 2. multipart/form-data上传,Basic鉴权(api_key:api_secret)
// 3. 熔断器保护:图床宕机时建课/建书接口立即返回友好错误
type HostClient struct {
	httpClient *http.Client
	apiBase    string
	apiKey     string
	apiSecret  string
	breaker    *circuitbreaker.CircuitBreaker
}

// NewHostClient 创建图床客户端
func NewHostClient(cfg *config.Config) *HostClient {
	cb := circuitbreaker.NewCircuitBreaker("media-host", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		if metrics.CircuitBreakerState != nil {
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		}
	})

	return &HostClient{
		// 图片上传比普通API慢,超时放宽
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiBase:    cfg.Media.APIBase,
		apiKey:     cfg.Media.APIKey,
		apiSecret:  cfg.Media.APISecret,
		breaker:    cb,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload 上传图片,返回可公开访问的URL
func (c *HostClient) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", apperrors.Wrap(err, "构造上传表单失败")
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", apperrors.Wrap(err, "读取图片内容失败")
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.Wrap(err, "构造上传表单失败")
	}

	var result uploadResponse

	cbErr := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.apiBase+"/v1/images", &buf)
		if err != nil {
			return fmt.Errorf("构造请求失败: %w", err)
		}
		req.SetBasicAuth(c.apiKey, c.apiSecret)
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("请求图床失败: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("图床返回错误 %d: %s", resp.StatusCode, string(b))
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("解析图床响应失败: %w", err)
		}
		return nil
	})

	if cbErr != nil {
		if cbErr == circuitbreaker.ErrOpenState {
			return "", apperrors.ErrMediaError
		}
		return "", &apperrors.AppError{
			Code:    apperrors.ErrCodeMediaError,
			Message: "图片上传失败",
			Err:     cbErr,
		}
	}

	return result.URL, nil
}

// Delete 删除图床上的图片
// 以URL最后一段为图片ID。尽力而为:删除失败只留下孤儿图片,不影响业务数据。
func (c *HostClient) Delete(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" {
		return apperrors.Wrap(err, "无效的图片URL")
	}
	imageID := path.Base(parsed.Path)

	return c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
			c.apiBase+"/v1/images/"+imageID, nil)
		if err != nil {
			return fmt.Errorf("构造请求失败: %w", err)
		}
		req.SetBasicAuth(c.apiKey, c.apiSecret)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("请求图床失败: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("图床返回错误 %d: %s", resp.StatusCode, string(b))
		}
		return nil
	})
}
