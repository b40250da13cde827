package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/edubook/internal/domain/course"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// courseRepository 课程仓储实现(MySQL)
// EnrolledStudents/Ratings从关联表整取整存:
// 课程聚合不大(学生数在千级),全量diff比逐条同步简单可靠
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository 创建课程仓储
func NewCourseRepository(db *gorm.DB) course.Repository {
	return &courseRepository{db: db}
}

// Create 创建课程
func (r *courseRepository) Create(ctx context.Context, c *course.Course) error {
	model := &CourseModel{
		CourseID:     c.CourseID,
		Title:        c.Title,
		Description:  c.Description,
		Price:        c.Price,
		Discount:     c.Discount,
		ThumbnailURL: c.ThumbnailURL,
		EducatorID:   c.EducatorID,
		DurationDays: c.DurationDays,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建课程失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByCourseID 根据业务标识查找课程
func (r *courseRepository) FindByCourseID(ctx context.Context, courseID string) (*course.Course, error) {
	var model CourseModel
	err := getDB(ctx, r.db).Preload("Students").Preload("Ratings").
		Where("course_id = ?", courseID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, course.ErrCourseNotFound
		}
		return nil, apperrors.Wrap(err, "查询课程失败")
	}

	return toCourseEntity(&model), nil
}

// ListByEducator 查询讲师的全部课程
func (r *courseRepository) ListByEducator(ctx context.Context, educatorID string) ([]*course.Course, error) {
	var models []CourseModel
	err := getDB(ctx, r.db).Preload("Students").Preload("Ratings").
		Where("educator_id = ?", educatorID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询讲师课程失败")
	}

	courses := make([]*course.Course, len(models))
	for i := range models {
		courses[i] = toCourseEntity(&models[i])
	}
	return courses, nil
}

// List 查询全部课程
func (r *courseRepository) List(ctx context.Context) ([]*course.Course, error) {
	var models []CourseModel
	err := getDB(ctx, r.db).Preload("Students").Preload("Ratings").
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询课程列表失败")
	}

	courses := make([]*course.Course, len(models))
	for i := range models {
		courses[i] = toCourseEntity(&models[i])
	}
	return courses, nil
}

// Update 更新课程(基本字段 + 重建学生/评分关联)
// 报名学生的追加走(course_ref, user_id)唯一索引,重复插入按幂等处理
func (r *courseRepository) Update(ctx context.Context, c *course.Course) error {
	db := getDB(ctx, r.db)

	result := db.Model(&CourseModel{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"title":         c.Title,
		"description":   c.Description,
		"price":         c.Price,
		"discount":      c.Discount,
		"thumbnail_url": c.ThumbnailURL,
		"duration_days": c.DurationDays,
		"updated_at":    c.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新课程失败")
	}
	if result.RowsAffected == 0 {
		return course.ErrCourseNotFound
	}

	// 同步报名学生(只增不减:退课不在业务范围内)
	for _, userID := range c.EnrolledStudents {
		err := db.Create(&CourseStudentModel{CourseRef: c.ID, UserID: userID}).Error
		if err != nil && !isDuplicateError(err) {
			return apperrors.Wrap(err, "同步报名学生失败")
		}
	}

	// 同步评分(同一用户重复评分覆盖旧值)
	for _, rating := range c.Ratings {
		res := db.Model(&CourseRatingModel{}).
			Where("course_ref = ? AND user_id = ?", c.ID, rating.UserID).
			Update("rating", rating.Rating)
		if res.Error != nil {
			return apperrors.Wrap(res.Error, "同步课程评分失败")
		}
		if res.RowsAffected == 0 {
			err := db.Create(&CourseRatingModel{CourseRef: c.ID, UserID: rating.UserID, Rating: rating.Rating}).Error
			if err != nil && !isDuplicateError(err) {
				return apperrors.Wrap(err, "同步课程评分失败")
			}
		}
	}

	return nil
}

// Delete 删除课程(软删除课程本体,硬删关联表)
func (r *courseRepository) Delete(ctx context.Context, courseID string) error {
	db := getDB(ctx, r.db)

	var model CourseModel
	if err := db.Where("course_id = ?", courseID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return course.ErrCourseNotFound
		}
		return apperrors.Wrap(err, "查询课程失败")
	}

	if err := db.Where("course_ref = ?", model.ID).Delete(&CourseStudentModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除报名记录失败")
	}
	if err := db.Where("course_ref = ?", model.ID).Delete(&CourseRatingModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除课程评分失败")
	}
	if err := db.Delete(&CourseModel{}, model.ID).Error; err != nil {
		return apperrors.Wrap(err, "删除课程失败")
	}

	return nil
}

// toCourseEntity GORM模型 → 领域实体
func toCourseEntity(model *CourseModel) *course.Course {
	students := make([]string, len(model.Students))
	for i, s := range model.Students {
		students[i] = s.UserID
	}

	ratings := make([]course.Rating, len(model.Ratings))
	for i, r := range model.Ratings {
		ratings[i] = course.Rating{UserID: r.UserID, Rating: r.Rating}
	}

	return &course.Course{
		ID:               model.ID,
		CourseID:         model.CourseID,
		Title:            model.Title,
		Description:      model.Description,
		Price:            model.Price,
		Discount:         model.Discount,
		ThumbnailURL:     model.ThumbnailURL,
		EducatorID:       model.EducatorID,
		DurationDays:     model.DurationDays,
		EnrolledStudents: students,
		Ratings:          ratings,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}
