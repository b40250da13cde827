// Package book 实现图书目录管理用例(管理端CRUD)。
package book

import (
	"context"
	"io"

	"github.com/xiebiao/edubook/internal/domain/book"
	"github.com/xiebiao/edubook/internal/domain/media"
)

// CreateBookUseCase 新增图书用例
type CreateBookUseCase struct {
	bookRepo book.Repository
	uploader media.Uploader
}

// NewCreateBookUseCase 创建新增图书用例
func NewCreateBookUseCase(bookRepo book.Repository, uploader media.Uploader) *CreateBookUseCase {
	return &CreateBookUseCase{bookRepo: bookRepo, uploader: uploader}
}

// CreateBookRequest 新增图书请求DTO
// Image为nil时不上传封面(ImageURL留空)
type CreateBookRequest struct {
	Name          string
	Author        string
	Price         int64 // 单位:分
	Stock         int
	Notes         string
	ImageFilename string
	Image         io.Reader
}

// CreateBookResponse 新增图书响应DTO
type CreateBookResponse struct {
	BookID   uint   `json:"book_id"`
	ImageURL string `json:"image_url"`
}

// Execute 执行新增图书
// 封面先上传图床拿安全URL,再落库。上传失败直接返回错误,不落半条数据。
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*CreateBookResponse, error) {
	newBook := book.NewBook(req.Name, req.Author, req.Price, req.Stock, "", req.Notes)
	if err := newBook.Validate(); err != nil {
		return nil, err
	}

	if req.Image != nil {
		url, err := uc.uploader.Upload(ctx, req.ImageFilename, req.Image)
		if err != nil {
			return nil, err
		}
		newBook.ImageURL = url
	}

	if err := uc.bookRepo.Create(ctx, newBook); err != nil {
		return nil, err
	}

	return &CreateBookResponse{
		BookID:   newBook.ID,
		ImageURL: newBook.ImageURL,
	}, nil
}
