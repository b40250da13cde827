package course

import (
	"context"
)

// Repository 课程仓储接口
type Repository interface {
	// Create 创建课程
	Create(ctx context.Context, course *Course) error

	// FindByCourseID 根据业务标识查找课程
	FindByCourseID(ctx context.Context, courseID string) (*Course, error)

	// ListByEducator 查询讲师的全部课程
	ListByEducator(ctx context.Context, educatorID string) ([]*Course, error)

	// List 查询全部课程(客户端目录页)
	List(ctx context.Context) ([]*Course, error)

	// Update 更新课程(含报名学生、评分)
	Update(ctx context.Context, course *Course) error

	// Delete 删除课程
	Delete(ctx context.Context, courseID string) error
}
