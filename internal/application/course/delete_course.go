package course

import (
	"context"

	"github.com/xiebiao/edubook/internal/domain/course"
	"github.com/xiebiao/edubook/internal/domain/media"
	"github.com/xiebiao/edubook/internal/domain/purchase"
)

// Transactor 事务边界抽象(mysql.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// DeleteCourseUseCase 删除课程用例(讲师端)
type DeleteCourseUseCase struct {
	courseRepo   course.Repository
	purchaseRepo purchase.Repository
	uploader     media.Uploader
	txManager    Transactor
}

// NewDeleteCourseUseCase 创建删除课程用例
func NewDeleteCourseUseCase(
	courseRepo course.Repository,
	purchaseRepo purchase.Repository,
	uploader media.Uploader,
	txManager Transactor,
) *DeleteCourseUseCase {
	return &DeleteCourseUseCase{
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
		uploader:     uploader,
		txManager:    txManager,
	}
}

// Execute 执行删除课程
// 只有课程的讲师本人能删。课程和购买记录在同一事务中删除,
// 缩略图在事务提交后尽力删除。
func (uc *DeleteCourseUseCase) Execute(ctx context.Context, educatorID, courseID string) error {
	c, err := uc.courseRepo.FindByCourseID(ctx, courseID)
	if err != nil {
		return err
	}
	if !c.IsOwnedBy(educatorID) {
		return course.ErrNotOwner
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.purchaseRepo.DeleteByCourseID(txCtx, courseID); err != nil {
			return err
		}
		return uc.courseRepo.Delete(txCtx, courseID)
	})
	if err != nil {
		return err
	}

	if c.ThumbnailURL != "" {
		_ = uc.uploader.Delete(ctx, c.ThumbnailURL)
	}
	return nil
}
