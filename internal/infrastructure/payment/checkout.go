// Package payment 实现支付域的出站适配器:托管支付网关的HTTP客户端
// 和Webhook签名校验。网关调用由熔断器保护,下游宕机时快速失败。
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xiebiao/edubook/internal/domain/payment"
	"github.com/xiebiao/edubook/internal/infrastructure/config"
	"github.com/xiebiao/edubook/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
	"github.com/xiebiao/edubook/pkg/metrics"
)

// CheckoutClient 托管支付网关HTTP客户端
// 设计说明：
// 1. 实现domain/payment.CheckoutProvider端口
// 2. Bearer Token鉴权,JSON请求体
// 3. 所有出站调用包在熔断器里,连续失败后快速返回ErrProviderUnavailable
type CheckoutClient struct {
	httpClient *http.Client
	apiBase    string
	apiKey     string
	breaker    *circuitbreaker.CircuitBreaker
}

// NewCheckoutClient 创建支付网关客户端
func NewCheckoutClient(cfg *config.Config) *CheckoutClient {
	cb := circuitbreaker.NewCircuitBreaker("payment-gateway", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		if metrics.CircuitBreakerState != nil {
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		}
	})

	return &CheckoutClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiBase:    cfg.Payment.APIBase,
		apiKey:     cfg.Payment.APIKey,
		breaker:    cb,
	}
}

// 网关的会话创建请求/响应结构
type sessionLineItem struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"` // 单位:分
	Quantity  int    `json:"quantity"`
}

type createSessionRequest struct {
	LineItems  []sessionLineItem `json:"line_items"`
	Mode       string            `json:"mode"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type createSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateSession 创建托管支付会话
// Metadata会被网关原样放进后续的Webhook事件,是回查本地记录的唯一线索
func (c *CheckoutClient) CreateSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	items := make([]sessionLineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, sessionLineItem{
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	body, err := json.Marshal(createSessionRequest{
		LineItems:  items,
		Mode:       "payment",
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "序列化会话请求失败")
	}

	var result createSessionResponse

	cbErr := c.breaker.Execute(func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.apiBase+"/v1/checkout/sessions", bytes.NewBuffer(body))
		if err != nil {
			return fmt.Errorf("构造请求失败: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("请求支付网关失败: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("支付网关返回错误 %d: %s", resp.StatusCode, string(b))
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("解析网关响应失败: %w", err)
		}
		return nil
	})

	if cbErr != nil {
		recordSessionResult("failure")
		if cbErr == circuitbreaker.ErrOpenState {
			return nil, payment.ErrProviderUnavailable
		}
		return nil, &apperrors.AppError{
			Code:    apperrors.ErrCodePaymentError,
			Message: "创建支付会话失败",
			Err:     cbErr,
		}
	}

	recordSessionResult("success")
	return &payment.CheckoutSession{
		SessionID: result.ID,
		URL:       result.URL,
	}, nil
}

func recordSessionResult(result string) {
	if metrics.CheckoutSessionsTotal != nil {
		metrics.IncCounterVec(metrics.CheckoutSessionsTotal, map[string]string{"result": result})
	}
}

// ExpireSession 使会话提前失效
// 用于下单补偿:本地订单已标记失败时,让网关侧的支付页也不可用。
// 尽力而为,失败只影响体验不影响一致性(会话最终会自然过期)。
func (c *CheckoutClient) ExpireSession(ctx context.Context, sessionID string) error {
	return c.breaker.Execute(func() error {
		url := fmt.Sprintf("%s/v1/checkout/sessions/%s/expire", c.apiBase, sessionID)

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
		if err != nil {
			return fmt.Errorf("构造请求失败: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("请求支付网关失败: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("支付网关返回错误 %d: %s", resp.StatusCode, string(b))
		}
		return nil
	})
}
