package learning

import (
	"context"
)

// EnrollmentRepository 选课记录仓储接口
type EnrollmentRepository interface {
	// Create 创建选课记录
	Create(ctx context.Context, enrollment *Enrollment) error

	// FindByEnrollmentID 根据业务标识查找选课记录
	FindByEnrollmentID(ctx context.Context, enrollmentID string) (*Enrollment, error)

	// FindByUserAndCourse 根据学生和课程查找选课记录
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*Enrollment, error)

	// ListByUser 查询学生的全部选课记录
	ListByUser(ctx context.Context, userID string) ([]*Enrollment, error)
}

// ProgressRepository 学习进度仓储接口
type ProgressRepository interface {
	// Upsert 按EnrollmentID做插入或更新
	// 同一选课记录只保留一条进度,重复提交覆盖旧值
	Upsert(ctx context.Context, progress *Progress) error

	// FindByEnrollmentID 根据选课记录查找进度
	FindByEnrollmentID(ctx context.Context, enrollmentID string) (*Progress, error)
}

// CertificateRepository 证书申请仓储接口
type CertificateRepository interface {
	// Create 创建证书申请
	Create(ctx context.Context, request *CertificateRequest) error

	// FindByRequestID 根据业务标识查找证书申请
	FindByRequestID(ctx context.Context, requestID string) (*CertificateRequest, error)

	// ListAll 查询全部证书申请,按提交时间倒序
	ListAll(ctx context.Context) ([]*CertificateRequest, error)

	// Update 更新证书申请(签发状态切换)
	Update(ctx context.Context, request *CertificateRequest) error

	// Delete 删除证书申请
	Delete(ctx context.Context, requestID string) error
}
