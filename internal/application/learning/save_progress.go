// Package learning 实现学习记录用例:进度保存与证书申请管理。
package learning

import (
	"context"

	"github.com/google/uuid"

	"github.com/xiebiao/edubook/internal/domain/learning"
)

// SaveProgressUseCase 保存学习进度用例
type SaveProgressUseCase struct {
	enrollmentRepo learning.EnrollmentRepository
	progressRepo   learning.ProgressRepository
}

// NewSaveProgressUseCase 创建保存进度用例
func NewSaveProgressUseCase(
	enrollmentRepo learning.EnrollmentRepository,
	progressRepo learning.ProgressRepository,
) *SaveProgressUseCase {
	return &SaveProgressUseCase{
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
	}
}

// SaveProgressRequest 保存进度请求DTO
type SaveProgressRequest struct {
	EnrollmentID       string
	LessonsCompleted   int
	ProgressPercentage int
}

// SaveProgressResponse 保存进度响应DTO
type SaveProgressResponse struct {
	ProgressID         string `json:"progress_id"`
	EnrollmentID       string `json:"enrollment_id"`
	LessonsCompleted   int    `json:"lessons_completed"`
	ProgressPercentage int    `json:"progress_percentage"`
	CurrentStatus      string `json:"current_status"`
}

// Execute 保存学习进度
// 按EnrollmentID做upsert:同一选课记录只有一条进度,重复提交覆盖旧值,
// 100%时状态自动流转为Completed
func (uc *SaveProgressUseCase) Execute(ctx context.Context, req SaveProgressRequest) (*SaveProgressResponse, error) {
	// 选课记录必须存在,防止给幽灵选课记进度
	if _, err := uc.enrollmentRepo.FindByEnrollmentID(ctx, req.EnrollmentID); err != nil {
		return nil, err
	}

	p, err := learning.NewProgress(uuid.NewString(), req.EnrollmentID,
		req.LessonsCompleted, req.ProgressPercentage)
	if err != nil {
		return nil, err
	}

	if err := uc.progressRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	return &SaveProgressResponse{
		ProgressID:         p.ProgressID,
		EnrollmentID:       p.EnrollmentID,
		LessonsCompleted:   p.LessonsCompleted,
		ProgressPercentage: p.ProgressPercentage,
		CurrentStatus:      string(p.CurrentStatus),
	}, nil
}
