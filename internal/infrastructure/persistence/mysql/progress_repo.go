package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/edubook/internal/domain/learning"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// progressRepository 学习进度仓储实现(MySQL)
type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository 创建学习进度仓储
func NewProgressRepository(db *gorm.DB) learning.ProgressRepository {
	return &progressRepository{db: db}
}

// Upsert 按EnrollmentID做插入或更新
// 使用MySQL的ON DUPLICATE KEY UPDATE,依赖enrollment_id唯一索引:
// INSERT ... ON DUPLICATE KEY UPDATE lessons_completed=..., ...
// 并发提交同一选课的进度时由数据库保证只有一条记录
func (r *progressRepository) Upsert(ctx context.Context, p *learning.Progress) error {
	model := &ProgressModel{
		ProgressID:         p.ProgressID,
		EnrollmentID:       p.EnrollmentID,
		LessonsCompleted:   p.LessonsCompleted,
		ProgressPercentage: p.ProgressPercentage,
		CurrentStatus:      string(p.CurrentStatus),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}

	err := getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "enrollment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"lessons_completed", "progress_percentage", "current_status", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "保存学习进度失败")
	}

	p.ID = model.ID
	return nil
}

// FindByEnrollmentID 根据选课记录查找进度
func (r *progressRepository) FindByEnrollmentID(ctx context.Context, enrollmentID string) (*learning.Progress, error) {
	var model ProgressModel
	err := getDB(ctx, r.db).Where("enrollment_id = ?", enrollmentID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, learning.ErrProgressNotFound
		}
		return nil, apperrors.Wrap(err, "查询学习进度失败")
	}

	return &learning.Progress{
		ID:                 model.ID,
		ProgressID:         model.ProgressID,
		EnrollmentID:       model.EnrollmentID,
		LessonsCompleted:   model.LessonsCompleted,
		ProgressPercentage: model.ProgressPercentage,
		CurrentStatus:      learning.ProgressStatus(model.CurrentStatus),
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}, nil
}
