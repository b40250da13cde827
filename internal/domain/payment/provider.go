// Package payment 定义支付域的端口:托管支付会话的创建与Webhook事件的去重账本。
// 具体的网关HTTP客户端和签名校验在infrastructure/payment实现。
package payment

import (
	"context"
)

// LineItem 支付会话的商品行,镜像订单明细
type LineItem struct {
	Name      string // 商品名(书名/课程名快照)
	UnitPrice int64  // 单价(分)
	Quantity  int
}

// CheckoutRequest 创建托管支付会话的请求
// Metadata会原样出现在Webhook事件里,用于回查本地订单/购买记录
type CheckoutRequest struct {
	Items      []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutSession 网关返回的托管支付会话
type CheckoutSession struct {
	SessionID string // 网关侧会话标识
	URL       string // 托管支付页跳转地址
}

// CheckoutProvider 托管支付会话端口
// 由infrastructure层的网关HTTP客户端实现(外层包熔断器)
type CheckoutProvider interface {
	// CreateSession 创建托管支付会话
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// ExpireSession 使会话提前失效(下单补偿时尽力而为)
	ExpireSession(ctx context.Context, sessionID string) error
}
