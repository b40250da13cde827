package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 库存操作全部走原子条件UPDATE,不做读-改-写
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// Reserve 预占库存(原子操作,下单时调用)
	// 单条条件UPDATE: reserved_stock += quantity,
	// 仅当 available_stock - reserved_stock >= quantity 时生效,
	// 否则返回ErrInsufficientStock。并发下单时只有一方能成功。
	Reserve(ctx context.Context, id uint, quantity int) error

	// ReleaseReservation 释放预占(会话过期/下单补偿时调用)
	// reserved_stock -= quantity,SQL层防止减至负数
	ReleaseReservation(ctx context.Context, id uint, quantity int) error

	// CommitFulfillment 履约扣减(支付成功回调时调用)
	// available_stock -= quantity 且 reserved_stock -= quantity,
	// 两个计数器都在SQL层防止减至负数
	CommitFulfillment(ctx context.Context, id uint, quantity int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索书名、作者)
}
