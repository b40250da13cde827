package purchase

import (
	"context"
)

// Repository 购买记录仓储接口
type Repository interface {
	// Create 创建购买记录
	Create(ctx context.Context, purchase *Purchase) error

	// FindByPurchaseID 根据业务标识查找购买记录
	FindByPurchaseID(ctx context.Context, purchaseID string) (*Purchase, error)

	// Update 更新购买记录(状态、会话ID)
	Update(ctx context.Context, purchase *Purchase) error

	// ListCompletedByCourseIDs 查询指定课程的全部已完成购买
	// 仪表盘聚合的输入,按创建时间倒序
	ListCompletedByCourseIDs(ctx context.Context, courseIDs []string) ([]*Purchase, error)

	// DeleteByCourseID 删除课程的全部购买记录(课程删除时级联)
	DeleteByCourseID(ctx context.Context, courseID string) error
}
