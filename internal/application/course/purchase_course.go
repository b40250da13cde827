package course

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/edubook/internal/domain/course"
	"github.com/xiebiao/edubook/internal/domain/payment"
	"github.com/xiebiao/edubook/internal/domain/purchase"
	"github.com/xiebiao/edubook/pkg/saga"
)

// PurchaseCourseUseCase 购买课程用例(学生端)
// 与图书下单同构:本地落pending购买记录 + 远程创建支付会话,
// 用Saga保证会话创建失败时购买记录不会停留在pending。
// 没有库存概念,补偿只需把购买记录置failed。
type PurchaseCourseUseCase struct {
	courseRepo   course.Repository
	purchaseRepo purchase.Repository
	checkout     payment.CheckoutProvider
	successURL   string
	cancelURL    string
	sagaTimeout  time.Duration
}

// NewPurchaseCourseUseCase 创建购买课程用例
func NewPurchaseCourseUseCase(
	courseRepo course.Repository,
	purchaseRepo purchase.Repository,
	checkout payment.CheckoutProvider,
	frontendBaseURL string,
) *PurchaseCourseUseCase {
	return &PurchaseCourseUseCase{
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
		checkout:     checkout,
		successURL:   frontendBaseURL + "/loading/my-enrollments",
		cancelURL:    frontendBaseURL + "/",
		sagaTimeout:  30 * time.Second,
	}
}

// PurchaseCourseResponse 购买课程响应DTO
type PurchaseCourseResponse struct {
	PurchaseID string `json:"purchase_id"`
	Amount     int64  `json:"amount"`
	SessionURL string `json:"session_url"`
}

// Execute 执行购买课程
// 金额取课程折后价快照,防止支付期间改价导致前后不一致
func (uc *PurchaseCourseUseCase) Execute(ctx context.Context, userID, courseID string) (*PurchaseCourseResponse, error) {
	c, err := uc.courseRepo.FindByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	p := purchase.NewPurchase(uuid.NewString(), userID, courseID, c.DiscountedPrice())

	var session *payment.CheckoutSession

	sg := saga.NewSaga(uc.sagaTimeout)

	sg.AddStep("落库购买记录",
		func(ctx context.Context) error {
			return uc.purchaseRepo.Create(ctx, p)
		},
		func(ctx context.Context) error {
			if err := p.Fail(); err != nil {
				return err
			}
			return uc.purchaseRepo.Update(ctx, p)
		},
	)

	sg.AddStep("创建支付会话",
		func(ctx context.Context) error {
			s, err := uc.checkout.CreateSession(ctx, payment.CheckoutRequest{
				Items: []payment.LineItem{{
					Name:      c.Title,
					UnitPrice: p.Amount,
					Quantity:  1,
				}},
				SuccessURL: uc.successURL,
				CancelURL:  uc.cancelURL,
				Metadata:   map[string]string{"purchaseId": p.PurchaseID},
			})
			if err != nil {
				return err
			}
			session = s

			p.AttachCheckoutSession(s.SessionID)
			return uc.purchaseRepo.Update(ctx, p)
		},
		nil,
	)

	if err := sg.Execute(ctx); err != nil {
		return nil, err
	}

	return &PurchaseCourseResponse{
		PurchaseID: p.PurchaseID,
		Amount:     p.Amount,
		SessionURL: session.URL,
	}, nil
}
