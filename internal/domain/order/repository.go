package order

import (
	"context"
	"time"
)

// ListFilter 订单列表过滤条件
type ListFilter string

const (
	FilterAll    ListFilter = "all"    // 全部订单
	FilterDaily  ListFilter = "daily"  // 当日订单(本地零点起)
	FilterWeekly ListFilter = "weekly" // 近7天订单
)

// Since 过滤条件对应的起始时间,全部订单返回零值
func (f ListFilter) Since(now time.Time) time.Time {
	switch f {
	case FilterDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case FilterWeekly:
		return now.AddDate(0, 0, -7)
	default:
		return time.Time{}
	}
}

// Repository 订单仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 订单和明细必须在同一事务中创建(通过context传递事务)
type Repository interface {
	// Create 创建订单(包含订单明细)
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// Update 更新订单(主要用于状态更新和会话ID回填)
	Update(ctx context.Context, order *Order) error

	// List 按过滤条件查询订单列表,按创建时间倒序
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
}
