// Package payment 实现支付回调用例:图书订单与课程购买两条Webhook处理链。
// 回调是系统里唯一驱动订单/购买记录进入终态的入口。
package payment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/xiebiao/edubook/internal/domain/book"
	"github.com/xiebiao/edubook/internal/domain/order"
	"github.com/xiebiao/edubook/internal/domain/payment"
	"github.com/xiebiao/edubook/pkg/metrics"
)

// SignatureVerifier 签名校验抽象(infrastructure/payment.SignatureVerifier实现)
type SignatureVerifier interface {
	Verify(payload []byte, header string) error
}

// EventPublisher 事件发布抽象(pkg/mq.Publisher实现)
// 发布是尽力而为:MQ不可用不影响回调处理结果
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// Transactor 事务边界抽象(mysql.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// eventEnvelope 网关Webhook事件信封
// 两类事件共用:data.object是托管支付会话,metadata携带本地业务标识
type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// OrderWebhookUseCase 图书订单支付回调用例
//
// 处理顺序(顺序本身就是安全保证):
// 1. 验签——未验签前不读不写任何状态
// 2. 解析事件信封
// 3. 事务内:事件去重入账 + 订单状态流转 + 库存结转
//
// 幂等性由两层保证:
//   - 事件ID入账撞唯一索引 → 同一事件重复投递直接ack
//   - 订单pending-only状态机 → 不同事件打到同一订单也只结转一次
type OrderWebhookUseCase struct {
	verifier  SignatureVerifier
	ledger    payment.EventLedger
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager Transactor
	publisher EventPublisher // 可为nil(MQ未启用)
}

// NewOrderWebhookUseCase 创建订单回调用例
func NewOrderWebhookUseCase(
	verifier SignatureVerifier,
	ledger payment.EventLedger,
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager Transactor,
	publisher EventPublisher,
) *OrderWebhookUseCase {
	return &OrderWebhookUseCase{
		verifier:  verifier,
		ledger:    ledger,
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// Execute 处理订单支付回调
// payload是未经解析的原始请求体,signature是网关签名头
func (uc *OrderWebhookUseCase) Execute(ctx context.Context, payload []byte, signature string) error {
	if err := uc.verifier.Verify(payload, signature); err != nil {
		recordWebhook("order", "unknown", "signature_invalid")
		return err
	}

	var event eventEnvelope
	if err := json.Unmarshal(payload, &event); err != nil {
		recordWebhook("order", "unknown", "malformed")
		return payment.ErrSignatureInvalid
	}

	switch event.Type {
	case payment.EventCheckoutCompleted, payment.EventCheckoutExpired:
	default:
		// 未订阅的事件类型直接ack,不入账
		recordWebhook("order", event.Type, "ignored")
		return nil
	}

	var completedOrder *order.Order

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 去重入账必须与状态流转同事务:
		// 入账成功但流转失败时一起回滚,事件可以安全重投
		if err := uc.ledger.Record(txCtx, event.ID, event.Type); err != nil {
			return err
		}

		orderNo := event.Data.Object.Metadata["orderId"]
		o, err := uc.orderRepo.FindByOrderNo(txCtx, orderNo)
		if err != nil {
			return err
		}

		// 终态订单不再流转:另一个事件已经处理过这张订单
		if o.Status.IsTerminal() {
			return nil
		}

		switch event.Type {
		case payment.EventCheckoutCompleted:
			// 支付成功:履约扣减(在架和预占一起减),订单完成
			for _, item := range o.Items {
				if err := uc.bookRepo.CommitFulfillment(txCtx, item.BookID, item.Quantity); err != nil {
					return err
				}
			}
			if err := o.Complete(); err != nil {
				return err
			}
			completedOrder = o

		case payment.EventCheckoutExpired:
			// 会话过期:释放预占,在架库存不动,订单失败
			for _, item := range o.Items {
				if err := uc.bookRepo.ReleaseReservation(txCtx, item.BookID, item.Quantity); err != nil {
					return err
				}
			}
			if err := o.Fail(); err != nil {
				return err
			}
		}

		return uc.orderRepo.Update(txCtx, o)
	})

	if err != nil {
		// 重复投递不是错误,ack让网关停止重试
		if errors.Is(err, payment.ErrDuplicateEvent) {
			recordWebhook("order", event.Type, "duplicate")
			return nil
		}
		recordWebhook("order", event.Type, "failure")
		return err
	}

	recordWebhook("order", event.Type, "success")

	// 事务提交后再发MQ事件,失败只记日志不影响回调结果
	if completedOrder != nil && uc.publisher != nil {
		_ = uc.publisher.Publish("order.completed", map[string]interface{}{
			"order_no": completedOrder.OrderNo,
			"user_id":  completedOrder.UserID,
			"total":    completedOrder.TotalAmount,
		})
	}

	return nil
}

func recordWebhook(source, eventType, result string) {
	if metrics.WebhookEventsTotal != nil {
		metrics.IncCounterVec(metrics.WebhookEventsTotal, map[string]string{
			"source":     source,
			"event_type": eventType,
			"result":     result,
		})
	}
}
