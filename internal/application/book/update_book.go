package book

import (
	"context"
	"io"

	"github.com/xiebiao/edubook/internal/domain/book"
	"github.com/xiebiao/edubook/internal/domain/media"
)

// UpdateBookUseCase 更新图书用例
type UpdateBookUseCase struct {
	bookRepo book.Repository
	uploader media.Uploader
}

// NewUpdateBookUseCase 创建更新图书用例
func NewUpdateBookUseCase(bookRepo book.Repository, uploader media.Uploader) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookRepo: bookRepo, uploader: uploader}
}

// UpdateBookRequest 更新图书请求DTO
// 空字符串/负数表示不修改对应字段,Image非nil时替换封面
type UpdateBookRequest struct {
	BookID        uint
	Name          string
	Author        string
	Price         int64
	Stock         int // 负数表示不修改
	Notes         string
	ImageFilename string
	Image         io.Reader
}

// Execute 执行更新图书
// 新封面先上传,旧封面在落库成功后尽力删除(失败只留孤儿图片)
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) error {
	b, err := uc.bookRepo.FindByID(ctx, req.BookID)
	if err != nil {
		return err
	}

	if err := b.UpdateInfo(req.Name, req.Author, req.Notes, req.Price, req.Stock); err != nil {
		return err
	}

	oldImageURL := ""
	if req.Image != nil {
		url, err := uc.uploader.Upload(ctx, req.ImageFilename, req.Image)
		if err != nil {
			return err
		}
		oldImageURL = b.ImageURL
		b.ImageURL = url
	}

	if err := uc.bookRepo.Update(ctx, b); err != nil {
		return err
	}

	if oldImageURL != "" {
		_ = uc.uploader.Delete(ctx, oldImageURL)
	}
	return nil
}
