package book

import (
	"context"

	"github.com/xiebiao/edubook/internal/domain/book"
	"github.com/xiebiao/edubook/internal/domain/media"
)

// DeleteBookUseCase 删除图书用例
type DeleteBookUseCase struct {
	bookRepo book.Repository
	uploader media.Uploader
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(bookRepo book.Repository, uploader media.Uploader) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookRepo: bookRepo, uploader: uploader}
}

// Execute 执行删除图书
// 软删除,历史订单的明细快照不受影响。封面尽力删除。
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	b, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.bookRepo.Delete(ctx, id); err != nil {
		return err
	}

	if b.ImageURL != "" {
		_ = uc.uploader.Delete(ctx, b.ImageURL)
	}
	return nil
}
