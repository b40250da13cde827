package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/edubook/internal/domain/purchase"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// purchaseRepository 课程购买记录仓储实现(MySQL)
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建购买记录仓储
func NewPurchaseRepository(db *gorm.DB) purchase.Repository {
	return &purchaseRepository{db: db}
}

// Create 创建购买记录
func (r *purchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	model := toPurchaseModel(p)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建购买记录失败")
	}

	p.ID = model.ID
	return nil
}

// FindByPurchaseID 根据业务标识查找购买记录
// Webhook按会话metadata里的purchaseId回查时走这里
func (r *purchaseRepository) FindByPurchaseID(ctx context.Context, purchaseID string) (*purchase.Purchase, error) {
	var model PurchaseModel
	err := getDB(ctx, r.db).Where("purchase_id = ?", purchaseID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, purchase.ErrPurchaseNotFound
		}
		return nil, apperrors.Wrap(err, "查询购买记录失败")
	}

	return toPurchaseEntity(&model), nil
}

// Update 更新购买记录(状态和会话ID)
func (r *purchaseRepository) Update(ctx context.Context, p *purchase.Purchase) error {
	result := getDB(ctx, r.db).Model(&PurchaseModel{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"status":              string(p.Status),
		"checkout_session_id": p.CheckoutSessionID,
		"updated_at":          p.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购买记录失败")
	}
	if result.RowsAffected == 0 {
		return purchase.ErrPurchaseNotFound
	}
	return nil
}

// ListCompletedByCourseIDs 查询指定课程的全部已完成购买
func (r *purchaseRepository) ListCompletedByCourseIDs(ctx context.Context, courseIDs []string) ([]*purchase.Purchase, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var models []PurchaseModel
	err := getDB(ctx, r.db).
		Where("course_id IN ?", courseIDs).
		Where("status = ?", string(purchase.StatusCompleted)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询已完成购买失败")
	}

	purchases := make([]*purchase.Purchase, len(models))
	for i := range models {
		purchases[i] = toPurchaseEntity(&models[i])
	}
	return purchases, nil
}

// DeleteByCourseID 删除课程的全部购买记录(课程删除时级联)
func (r *purchaseRepository) DeleteByCourseID(ctx context.Context, courseID string) error {
	err := getDB(ctx, r.db).Where("course_id = ?", courseID).Delete(&PurchaseModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "删除购买记录失败")
	}
	return nil
}

// toPurchaseModel 领域实体 → GORM模型
func toPurchaseModel(p *purchase.Purchase) *PurchaseModel {
	return &PurchaseModel{
		ID:                p.ID,
		PurchaseID:        p.PurchaseID,
		UserID:            p.UserID,
		CourseID:          p.CourseID,
		Amount:            p.Amount,
		Status:            string(p.Status),
		CheckoutSessionID: p.CheckoutSessionID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// toPurchaseEntity GORM模型 → 领域实体
func toPurchaseEntity(model *PurchaseModel) *purchase.Purchase {
	return &purchase.Purchase{
		ID:                model.ID,
		PurchaseID:        model.PurchaseID,
		UserID:            model.UserID,
		CourseID:          model.CourseID,
		Amount:            model.Amount,
		Status:            purchase.Status(model.Status),
		CheckoutSessionID: model.CheckoutSessionID,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
