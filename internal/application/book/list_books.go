package book

import (
	"context"
	"fmt"

	"github.com/xiebiao/edubook/internal/domain/book"
)

// ListBooksUseCase 图书列表用例
type ListBooksUseCase struct {
	bookRepo book.Repository
}

// NewListBooksUseCase 创建图书列表用例
func NewListBooksUseCase(bookRepo book.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{bookRepo: bookRepo}
}

// ListBooksRequest 列表请求DTO
type ListBooksRequest struct {
	Page     int
	PageSize int
	Keyword  string // 搜索书名、作者
}

// BookView 图书视图DTO
// SellableStock是对外展示的可售余量(在架-预占),预占数不对外暴露
type BookView struct {
	BookID        uint   `json:"book_id"`
	Name          string `json:"name"`
	Author        string `json:"author"`
	Price         int64  `json:"price"`
	PriceYuan     string `json:"price_yuan"`
	SellableStock int    `json:"stock"`
	ImageURL      string `json:"image_url"`
	Notes         string `json:"notes"`
}

// ListBooksResponse 列表响应DTO
type ListBooksResponse struct {
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Books []BookView `json:"books"`
}

// Execute 分页查询图书列表
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	books, total, err := uc.bookRepo.List(ctx, book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
	})
	if err != nil {
		return nil, err
	}

	views := make([]BookView, 0, len(books))
	for _, b := range books {
		views = append(views, BookView{
			BookID:        b.ID,
			Name:          b.Name,
			Author:        b.Author,
			Price:         b.Price,
			PriceYuan:     formatPrice(b.Price),
			SellableStock: b.SellableStock(),
			ImageURL:      b.ImageURL,
			Notes:         b.Notes,
		})
	}

	return &ListBooksResponse{
		Total: total,
		Page:  req.Page,
		Books: views,
	}, nil
}

// GetBook 查询单本图书
func (uc *ListBooksUseCase) GetBook(ctx context.Context, id uint) (*BookView, error) {
	b, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookView{
		BookID:        b.ID,
		Name:          b.Name,
		Author:        b.Author,
		Price:         b.Price,
		PriceYuan:     formatPrice(b.Price),
		SellableStock: b.SellableStock(),
		ImageURL:      b.ImageURL,
		Notes:         b.Notes,
	}, nil
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	return fmt.Sprintf("%.2f", float64(priceFen)/100.0)
}
