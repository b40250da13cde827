package order

import (
	"context"

	"github.com/xiebiao/edubook/internal/domain/order"
)

// ListOrdersUseCase 订单列表用例(管理端)
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单列表用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// OrderView 订单视图DTO
type OrderView struct {
	OrderID   uint            `json:"order_id"`
	OrderNo   string          `json:"order_no"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name"`
	Total     int64           `json:"total"`
	Status    string          `json:"status"`
	Items     []OrderItemView `json:"items"`
	CreatedAt string          `json:"created_at"`
}

// OrderItemView 订单明细视图
type OrderItemView struct {
	BookID    uint   `json:"book_id"`
	BookName  string `json:"book_name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Execute 查询订单列表
// filter: all全部 / daily当日(本地零点起) / weekly近7天,按创建时间倒序
func (uc *ListOrdersUseCase) Execute(ctx context.Context, filter order.ListFilter) ([]OrderView, error) {
	switch filter {
	case order.FilterAll, order.FilterDaily, order.FilterWeekly:
	default:
		filter = order.FilterAll
	}

	orders, err := uc.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		items := make([]OrderItemView, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, OrderItemView{
				BookID:    item.BookID,
				BookName:  item.BookName,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		views = append(views, OrderView{
			OrderID:   o.ID,
			OrderNo:   o.OrderNo,
			UserID:    o.UserID,
			UserName:  o.UserName,
			Total:     o.TotalAmount,
			Status:    string(o.Status),
			Items:     items,
			CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return views, nil
}
