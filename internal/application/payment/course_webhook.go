package payment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/xiebiao/edubook/internal/domain/course"
	"github.com/xiebiao/edubook/internal/domain/learning"
	"github.com/xiebiao/edubook/internal/domain/payment"
	"github.com/xiebiao/edubook/internal/domain/purchase"
)

// CourseWebhookUseCase 课程购买支付回调用例
// 与订单回调同一套验签/去重/pending-only机制,终态副作用不同:
// 支付成功的副作用是报名(学生进课程+建选课记录)而不是库存扣减。
type CourseWebhookUseCase struct {
	verifier       SignatureVerifier
	ledger         payment.EventLedger
	purchaseRepo   purchase.Repository
	courseRepo     course.Repository
	enrollmentRepo learning.EnrollmentRepository
	txManager      Transactor
	publisher      EventPublisher // 可为nil(MQ未启用)
}

// NewCourseWebhookUseCase 创建课程购买回调用例
func NewCourseWebhookUseCase(
	verifier SignatureVerifier,
	ledger payment.EventLedger,
	purchaseRepo purchase.Repository,
	courseRepo course.Repository,
	enrollmentRepo learning.EnrollmentRepository,
	txManager Transactor,
	publisher EventPublisher,
) *CourseWebhookUseCase {
	return &CourseWebhookUseCase{
		verifier:       verifier,
		ledger:         ledger,
		purchaseRepo:   purchaseRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		txManager:      txManager,
		publisher:      publisher,
	}
}

// Execute 处理课程购买回调
func (uc *CourseWebhookUseCase) Execute(ctx context.Context, payload []byte, signature string) error {
	if err := uc.verifier.Verify(payload, signature); err != nil {
		recordWebhook("course", "unknown", "signature_invalid")
		return err
	}

	var event eventEnvelope
	if err := json.Unmarshal(payload, &event); err != nil {
		recordWebhook("course", "unknown", "malformed")
		return payment.ErrSignatureInvalid
	}

	switch event.Type {
	case payment.EventCheckoutCompleted, payment.EventCheckoutExpired:
	default:
		recordWebhook("course", event.Type, "ignored")
		return nil
	}

	var completed *purchase.Purchase

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.ledger.Record(txCtx, event.ID, event.Type); err != nil {
			return err
		}

		purchaseID := event.Data.Object.Metadata["purchaseId"]
		p, err := uc.purchaseRepo.FindByPurchaseID(txCtx, purchaseID)
		if err != nil {
			return err
		}

		if p.Status.IsTerminal() {
			return nil
		}

		switch event.Type {
		case payment.EventCheckoutCompleted:
			// 报名:学生进课程花名册+建选课记录
			c, err := uc.courseRepo.FindByCourseID(txCtx, p.CourseID)
			if err != nil {
				return err
			}
			if c.EnrollStudent(p.UserID) {
				if err := uc.courseRepo.Update(txCtx, c); err != nil {
					return err
				}
			}

			enrollment := learning.NewEnrollment(uuid.NewString(), p.UserID, p.CourseID)
			if err := uc.enrollmentRepo.Create(txCtx, enrollment); err != nil {
				return err
			}

			if err := p.Complete(); err != nil {
				return err
			}
			completed = p

		case payment.EventCheckoutExpired:
			if err := p.Fail(); err != nil {
				return err
			}
		}

		return uc.purchaseRepo.Update(txCtx, p)
	})

	if err != nil {
		if errors.Is(err, payment.ErrDuplicateEvent) {
			recordWebhook("course", event.Type, "duplicate")
			return nil
		}
		recordWebhook("course", event.Type, "failure")
		return err
	}

	recordWebhook("course", event.Type, "success")

	if completed != nil && uc.publisher != nil {
		_ = uc.publisher.Publish("purchase.completed", map[string]interface{}{
			"purchase_id": completed.PurchaseID,
			"user_id":     completed.UserID,
			"course_id":   completed.CourseID,
			"amount":      completed.Amount,
		})
	}

	return nil
}
