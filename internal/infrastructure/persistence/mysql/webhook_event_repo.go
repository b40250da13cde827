package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/edubook/internal/domain/payment"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// webhookEventRepository Webhook事件去重账本实现(MySQL)
// 设计说明:
// 1. 唯一索引承载去重:INSERT撞索引即视为重复投递,不依赖先查后插
// 2. Record必须和业务副作用(扣库存、状态流转)在同一事务中调用,
//    业务失败时账本一并回滚,网关重试还能再处理
type webhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository 创建Webhook事件账本
func NewWebhookEventRepository(db *gorm.DB) payment.EventLedger {
	return &webhookEventRepository{db: db}
}

// Record 记录事件,事件ID已存在时返回ErrDuplicateEvent
func (r *webhookEventRepository) Record(ctx context.Context, eventID, eventType string) error {
	model := &WebhookEventModel{
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now(),
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return payment.ErrDuplicateEvent
		}
		return apperrors.Wrap(err, "记录Webhook事件失败")
	}
	return nil
}

// Seen 事件是否已处理过
func (r *webhookEventRepository) Seen(ctx context.Context, eventID string) (bool, error) {
	var model WebhookEventModel
	err := getDB(ctx, r.db).Where("event_id = ?", eventID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "查询Webhook事件失败")
	}
	return true, nil
}
