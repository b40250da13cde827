package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/edubook/internal/domain/learning"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// enrollmentRepository 选课记录仓储实现(MySQL)
type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository 创建选课记录仓储
func NewEnrollmentRepository(db *gorm.DB) learning.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Create 创建选课记录
// (user_id, course_id)唯一索引:购买回调重复投递时撞索引,按幂等处理
func (r *enrollmentRepository) Create(ctx context.Context, e *learning.Enrollment) error {
	model := &EnrollmentModel{
		EnrollmentID:   e.EnrollmentID,
		UserID:         e.UserID,
		CourseID:       e.CourseID,
		EnrollmentDate: e.EnrollmentDate,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return nil // 已选过课,幂等
		}
		return apperrors.Wrap(err, "创建选课记录失败")
	}

	e.ID = model.ID
	return nil
}

// FindByEnrollmentID 根据业务标识查找选课记录
func (r *enrollmentRepository) FindByEnrollmentID(ctx context.Context, enrollmentID string) (*learning.Enrollment, error) {
	var model EnrollmentModel
	err := getDB(ctx, r.db).Where("enrollment_id = ?", enrollmentID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, learning.ErrEnrollmentNotFound
		}
		return nil, apperrors.Wrap(err, "查询选课记录失败")
	}

	return toEnrollmentEntity(&model), nil
}

// FindByUserAndCourse 根据学生和课程查找选课记录
func (r *enrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*learning.Enrollment, error) {
	var model EnrollmentModel
	err := getDB(ctx, r.db).Where("user_id = ? AND course_id = ?", userID, courseID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, learning.ErrEnrollmentNotFound
		}
		return nil, apperrors.Wrap(err, "查询选课记录失败")
	}

	return toEnrollmentEntity(&model), nil
}

// ListByUser 查询学生的全部选课记录
func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]*learning.Enrollment, error) {
	var models []EnrollmentModel
	err := getDB(ctx, r.db).Where("user_id = ?", userID).
		Order("enrollment_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询选课记录失败")
	}

	enrollments := make([]*learning.Enrollment, len(models))
	for i := range models {
		enrollments[i] = toEnrollmentEntity(&models[i])
	}
	return enrollments, nil
}

// toEnrollmentEntity GORM模型 → 领域实体
func toEnrollmentEntity(model *EnrollmentModel) *learning.Enrollment {
	return &learning.Enrollment{
		ID:             model.ID,
		EnrollmentID:   model.EnrollmentID,
		UserID:         model.UserID,
		CourseID:       model.CourseID,
		EnrollmentDate: model.EnrollmentDate,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
