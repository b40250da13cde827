package order

import (
	"time"
)

// Status 订单状态
// 设计说明:
// 1. 使用string类型,与支付回调语义一一对应,日志和API里直接可读
// 2. 状态只能由Webhook驱动流转,pending是唯一非终态
type Status string

const (
	StatusPending   Status = "pending"   // 待支付(已预占库存)
	StatusCompleted Status = "completed" // 已完成(支付成功,库存已扣减)
	StatusFailed    Status = "failed"    // 已失败(会话过期/支付失败,预占已释放)
)

// IsTerminal 是否终态
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Order 订单实体(聚合根)
// 设计说明:
// 1. Order是聚合根,OrderItem是子实体
// 2. UserID是外部身份服务的用户标识(字符串),不是本地自增ID
// 3. TotalAmount冗余存储,创建后连同Items不可变(历史价格快照,防改价)
// 4. CheckoutSessionID关联第三方托管支付会话,Webhook按metadata回查订单
type Order struct {
	ID                uint
	OrderNo           string // 订单号(业务主键,全局唯一)
	UserID            string // 买家用户ID(外部身份标识)
	UserName          string // 下单时的用户名快照
	TotalAmount       int64  // 订单总金额(分),冗余字段
	Status            Status // 订单状态
	CheckoutSessionID string // 托管支付会话ID
	Items             []OrderItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItem 订单明细项
// 设计说明:
// 1. 不是独立聚合根,必须通过Order访问
// 2. BookName/UnitPrice记录"下单时"的快照,图书改名改价不影响历史订单
type OrderItem struct {
	ID        uint
	OrderID   uint
	BookID    uint
	BookName  string // 下单时的书名快照
	Quantity  int    // 购买数量
	UnitPrice int64  // 下单时的单价(分)
}

// NewOrder 创建新订单(工厂方法)
// 初始状态为pending,订单号由外部生成传入
func NewOrder(orderNo, userID, userName string, items []OrderItem, totalAmount int64) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrInvalidOrderItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	now := time.Now()
	return &Order{
		OrderNo:     orderNo,
		UserID:      userID,
		UserName:    userName,
		TotalAmount: totalAmount,
		Status:      StatusPending,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanTransitionTo 检查是否可以转换到目标状态
// 状态机: pending→completed / pending→failed,终态不再流转
// Webhook重复投递时,终态订单的转换请求直接拒绝,保证扣减只发生一次
func (o *Order) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:   {StatusCompleted, StatusFailed},
		StatusCompleted: {},
		StatusFailed:    {},
	}

	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Complete 完成订单(支付成功回调)
func (o *Order) Complete() error {
	return o.TransitionTo(StatusCompleted)
}

// Fail 订单失败(会话过期/支付失败/下单补偿)
func (o *Order) Fail() error {
	return o.TransitionTo(StatusFailed)
}

// AttachCheckoutSession 绑定托管支付会话
func (o *Order) AttachCheckoutSession(sessionID string) {
	o.CheckoutSessionID = sessionID
	o.UpdatedAt = time.Now()
}

// CalculateTotal 根据明细计算订单总金额
// 用于创建订单时校验前端传递的totalAmount
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID string) bool {
	return o.UserID == userID
}
