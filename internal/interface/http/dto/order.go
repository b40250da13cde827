package dto

// CreateOrderRequest HTTP下单请求
// userId/userName来自外部身份服务的前端会话,total用于金额一致性校验
type CreateOrderRequest struct {
	UserID   string                   `json:"userId" binding:"required,max=64"`
	UserName string                   `json:"userName" binding:"required,max=100"`
	Items    []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Total    int64                    `json:"totalAmount" binding:"omitempty,min=1"` // 分
}

// CreateOrderItemRequest 订单明细项
type CreateOrderItemRequest struct {
	BookID   uint `json:"bookId" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=999"`
}

// CreateOrderResponse HTTP下单响应
// 前端拿session_url跳转托管支付页
type CreateOrderResponse struct {
	OrderID    uint   `json:"order_id" example:"1"`
	OrderNo    string `json:"order_no" example:"ORD1699248000123456"`
	Total      int64  `json:"total" example:"11800"`
	Status     string `json:"status" example:"pending"`
	SessionURL string `json:"session_url" example:"https://pay.example.com/c/cs_123"`
	CreatedAt  string `json:"created_at" example:"2024-11-06 10:30:00"`
}
