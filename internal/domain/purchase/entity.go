package purchase

import (
	"time"
)

// Status 购买记录状态,与订单同款状态机:pending是唯一非终态
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal 是否终态
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Purchase 课程购买记录(聚合根)
// 生命周期与图书订单一致:创建时pending,由支付回调驱动到终态。
// 区别在于成功回调的副作用是报名(学生进课程)而不是库存扣减。
type Purchase struct {
	ID                uint
	PurchaseID        string // 业务标识(uuid),嵌入支付会话metadata
	UserID            string // 购买人用户ID(外部身份标识)
	CourseID          string // 课程业务标识
	Amount            int64  // 实付金额(分,折后价快照)
	Status            Status
	CheckoutSessionID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewPurchase 创建新购买记录(工厂方法)
func NewPurchase(purchaseID, userID, courseID string, amount int64) *Purchase {
	now := time.Now()
	return &Purchase{
		PurchaseID: purchaseID,
		UserID:     userID,
		CourseID:   courseID,
		Amount:     amount,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
func (p *Purchase) CanTransitionTo(target Status) bool {
	if p.Status != StatusPending {
		return false
	}
	return target == StatusCompleted || target == StatusFailed
}

// TransitionTo 状态转换
func (p *Purchase) TransitionTo(target Status) error {
	if !p.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	p.Status = target
	p.UpdatedAt = time.Now()
	return nil
}

// Complete 购买成功(支付成功回调)
func (p *Purchase) Complete() error {
	return p.TransitionTo(StatusCompleted)
}

// Fail 购买失败
func (p *Purchase) Fail() error {
	return p.TransitionTo(StatusFailed)
}

// AttachCheckoutSession 绑定托管支付会话
func (p *Purchase) AttachCheckoutSession(sessionID string) {
	p.CheckoutSessionID = sessionID
	p.UpdatedAt = time.Now()
}
