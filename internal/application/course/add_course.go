// Package course 实现讲师端课程管理与学生端课程购买用例。
package course

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/xiebiao/edubook/internal/domain/course"
	"github.com/xiebiao/edubook/internal/domain/media"
)

// AddCourseUseCase 新建课程用例(讲师端)
type AddCourseUseCase struct {
	courseRepo course.Repository
	uploader   media.Uploader
}

// NewAddCourseUseCase 创建新建课程用例
func NewAddCourseUseCase(courseRepo course.Repository, uploader media.Uploader) *AddCourseUseCase {
	return &AddCourseUseCase{courseRepo: courseRepo, uploader: uploader}
}

// AddCourseRequest 新建课程请求DTO
type AddCourseRequest struct {
	EducatorID        string
	Title             string
	Description       string
	Price             int64 // 原价(分)
	Discount          int   // 折扣百分比(0-100)
	DurationDays      int
	ThumbnailFilename string
	Thumbnail         io.Reader
}

// AddCourseResponse 新建课程响应DTO
type AddCourseResponse struct {
	CourseID     string `json:"course_id"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Execute 执行新建课程
func (uc *AddCourseUseCase) Execute(ctx context.Context, req AddCourseRequest) (*AddCourseResponse, error) {
	thumbnailURL := ""
	if req.Thumbnail != nil {
		url, err := uc.uploader.Upload(ctx, req.ThumbnailFilename, req.Thumbnail)
		if err != nil {
			return nil, err
		}
		thumbnailURL = url
	}

	c, err := course.NewCourse(uuid.NewString(), req.Title, req.Description,
		req.Price, req.Discount, thumbnailURL, req.EducatorID, req.DurationDays)
	if err != nil {
		return nil, err
	}

	if err := uc.courseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	return &AddCourseResponse{
		CourseID:     c.CourseID,
		ThumbnailURL: c.ThumbnailURL,
	}, nil
}
