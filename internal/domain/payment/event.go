package payment

import (
	"context"
	"time"
)

// Webhook事件类型(网关侧命名,原样落库便于对账)
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// WebhookEvent 已处理的Webhook事件(去重账本)
// Webhook投递是at-least-once,以网关事件ID为唯一键记账,
// 重复投递的事件在入账时撞唯一索引,识别后直接ack不再处理。
type WebhookEvent struct {
	ID          uint
	EventID     string // 网关事件ID(唯一索引)
	EventType   string
	ProcessedAt time.Time
}

// EventLedger Webhook事件去重账本接口
type EventLedger interface {
	// Record 记录事件,事件ID已存在时返回ErrDuplicateEvent
	// 必须与业务副作用在同一事务中执行,保证"记账+处理"原子
	Record(ctx context.Context, eventID, eventType string) error

	// Seen 事件是否已处理过
	Seen(ctx context.Context, eventID string) (bool, error)
}
