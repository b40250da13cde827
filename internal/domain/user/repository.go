package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建用户
	Create(ctx context.Context, user *User) error

	// FindByUserID 根据外部身份标识查找用户
	// 如果不存在,返回errors.ErrUserNotFound
	FindByUserID(ctx context.Context, userID string) (*User, error)

	// FindByUserIDs 批量查找用户(讲师端学生列表用)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]*User, error)

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error

	// Delete 删除用户(身份服务user.deleted事件)
	Delete(ctx context.Context, userID string) error
}
