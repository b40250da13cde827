package course

import (
	"context"

	"github.com/xiebiao/edubook/internal/domain/course"
)

// ListCoursesUseCase 课程列表用例
type ListCoursesUseCase struct {
	courseRepo course.Repository
}

// NewListCoursesUseCase 创建课程列表用例
func NewListCoursesUseCase(courseRepo course.Repository) *ListCoursesUseCase {
	return &ListCoursesUseCase{courseRepo: courseRepo}
}

// CourseView 课程视图DTO
type CourseView struct {
	CourseID        string  `json:"course_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Price           int64   `json:"price"`
	Discount        int     `json:"discount"`
	DiscountedPrice int64   `json:"discounted_price"`
	ThumbnailURL    string  `json:"thumbnail_url"`
	EducatorID      string  `json:"educator_id"`
	DurationDays    int     `json:"duration_days"`
	EnrolledCount   int     `json:"enrolled_count"`
	AverageRating   float64 `json:"average_rating"`
}

func toCourseView(c *course.Course) CourseView {
	return CourseView{
		CourseID:        c.CourseID,
		Title:           c.Title,
		Description:     c.Description,
		Price:           c.Price,
		Discount:        c.Discount,
		DiscountedPrice: c.DiscountedPrice(),
		ThumbnailURL:    c.ThumbnailURL,
		EducatorID:      c.EducatorID,
		DurationDays:    c.DurationDays,
		EnrolledCount:   len(c.EnrolledStudents),
		AverageRating:   c.AverageRating(),
	}
}

// ListAll 查询全部课程(学生端目录页)
func (uc *ListCoursesUseCase) ListAll(ctx context.Context) ([]CourseView, error) {
	courses, err := uc.courseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, toCourseView(c))
	}
	return views, nil
}

// ListByEducator 查询讲师的全部课程(讲师端)
func (uc *ListCoursesUseCase) ListByEducator(ctx context.Context, educatorID string) ([]CourseView, error) {
	courses, err := uc.courseRepo.ListByEducator(ctx, educatorID)
	if err != nil {
		return nil, err
	}
	views := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, toCourseView(c))
	}
	return views, nil
}
