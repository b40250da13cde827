package order

import (
	"context"
	"fmt"
	"time"

	"github.com/xiebiao/edubook/internal/domain/book"
	"github.com/xiebiao/edubook/internal/domain/order"
	"github.com/xiebiao/edubook/internal/domain/payment"
	"github.com/xiebiao/edubook/pkg/metrics"
	"github.com/xiebiao/edubook/pkg/saga"
)

// Transactor 事务边界抽象(mysql.TxManager实现)
// 定义在用例层便于测试时注入假事务
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateOrderUseCase 创建订单用例
// 设计说明:这是整个项目最核心的用例之一
// 涉及:事务处理、并发控制(库存预占)、Saga补偿
type CreateOrderUseCase struct {
	orderRepo   order.Repository
	bookRepo    book.Repository
	checkout    payment.CheckoutProvider
	txManager   Transactor
	successURL  string
	cancelURL   string
	sagaTimeout time.Duration
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	checkout payment.CheckoutProvider,
	txManager Transactor,
	frontendBaseURL string,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:   orderRepo,
		bookRepo:    bookRepo,
		checkout:    checkout,
		txManager:   txManager,
		successURL:  frontendBaseURL + "/payment/success",
		cancelURL:   frontendBaseURL + "/payment/cancel",
		sagaTimeout: 30 * time.Second,
	}
}

// CreateOrderRequest 下单请求DTO
type CreateOrderRequest struct {
	UserID      string            // 买家用户ID(外部身份标识)
	UserName    string            // 下单时的用户名快照
	Items       []CreateOrderItem // 订单明细
	TotalAmount int64             // 前端展示的总金额(分),用于校验
}

// CreateOrderItem 订单明细项
type CreateOrderItem struct {
	BookID   uint
	Quantity int
}

// CreateOrderResponse 下单响应DTO
type CreateOrderResponse struct {
	OrderID    uint   `json:"order_id"`
	OrderNo    string `json:"order_no"`
	Total      int64  `json:"total"`
	Status     string `json:"status"`
	SessionURL string `json:"session_url"` // 托管支付页跳转地址
	CreatedAt  string `json:"created_at"`
}

// Execute 执行下单用例
//
// 核心问题一:库存超卖
// 预占走单条条件UPDATE(available - reserved >= q时才生效),
// 并发下单时数据库保证只有一方成功,败者拿到库存不足错误且不落任何数据。
//
// 核心问题二:孤儿订单
// 订单落库(本地事务)和创建支付会话(远程调用)无法放进同一个事务,
// 会话创建失败时若不处理,订单会永远停在pending且预占永不释放。
// 用Saga把两步串起来:第二步失败时补偿第一步(释放预占+订单置failed)。
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, order.ErrInvalidOrderItems
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
	}

	start := time.Now()

	var (
		newOrder *order.Order
		session  *payment.CheckoutSession
		reserved []CreateOrderItem // 已预占成功的明细(补偿范围)
	)

	sg := saga.NewSaga(uc.sagaTimeout)

	// 步骤1:预占库存+落库订单(单个本地事务)
	sg.AddStep("预占库存并落库订单",
		func(ctx context.Context) error {
			return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
				var items []order.OrderItem
				var total int64

				for _, item := range req.Items {
					// 先读价格快照,再原子预占
					b, err := uc.bookRepo.FindByID(txCtx, item.BookID)
					if err != nil {
						return err
					}

					if err := uc.bookRepo.Reserve(txCtx, item.BookID, item.Quantity); err != nil {
						recordReservation("insufficient")
						return fmt.Errorf("图书《%s》预占库存失败: %w", b.Name, err)
					}
					reserved = append(reserved, item)
					recordReservation("success")

					items = append(items, order.OrderItem{
						BookID:    item.BookID,
						BookName:  b.Name,
						Quantity:  item.Quantity,
						UnitPrice: b.Price,
					})
					total += b.Price * int64(item.Quantity)
				}

				// 金额以数据库价格为准,前端传值仅做一致性校验(防改价)
				if req.TotalAmount > 0 && req.TotalAmount != total {
					return order.ErrInvalidTotalAmount
				}

				o, err := order.NewOrder(order.GenerateOrderNo(), req.UserID, req.UserName, items, total)
				if err != nil {
					return err
				}
				if err := uc.orderRepo.Create(txCtx, o); err != nil {
					return err
				}
				newOrder = o
				return nil
			})
		},
		// 补偿:释放预占+订单置failed
		// 事务内失败时已自动回滚,这里只处理"事务提交后、会话创建失败"的情况
		func(ctx context.Context) error {
			if newOrder == nil {
				return nil
			}
			if metrics.SagaCompensationsTotal != nil {
				metrics.SagaCompensationsTotal.Inc()
			}
			for _, item := range reserved {
				if err := uc.bookRepo.ReleaseReservation(ctx, item.BookID, item.Quantity); err != nil {
					return err
				}
			}
			if err := newOrder.Fail(); err != nil {
				return err
			}
			return uc.orderRepo.Update(ctx, newOrder)
		},
	)

	// 步骤2:创建托管支付会话并回填会话ID(最后一步,无需补偿)
	sg.AddStep("创建支付会话",
		func(ctx context.Context) error {
			lineItems := make([]payment.LineItem, 0, len(newOrder.Items))
			for _, item := range newOrder.Items {
				lineItems = append(lineItems, payment.LineItem{
					Name:      item.BookName,
					UnitPrice: item.UnitPrice,
					Quantity:  item.Quantity,
				})
			}

			s, err := uc.checkout.CreateSession(ctx, payment.CheckoutRequest{
				Items:      lineItems,
				SuccessURL: uc.successURL,
				CancelURL:  uc.cancelURL,
				// Webhook按metadata里的订单号回查本地订单
				Metadata: map[string]string{"orderId": newOrder.OrderNo},
			})
			if err != nil {
				return err
			}
			session = s

			newOrder.AttachCheckoutSession(s.SessionID)
			return uc.orderRepo.Update(ctx, newOrder)
		},
		nil,
	)

	if err := sg.Execute(ctx); err != nil {
		recordSaga("failure")
		if metrics.OrdersFailedTotal != nil {
			metrics.OrdersFailedTotal.Inc()
		}
		return nil, err
	}

	recordSaga("success")
	if metrics.OrdersCreatedTotal != nil {
		metrics.OrdersCreatedTotal.Inc()
		metrics.ObserveHistogram(metrics.OrderCreationDuration, time.Since(start).Seconds())
	}

	return &CreateOrderResponse{
		OrderID:    newOrder.ID,
		OrderNo:    newOrder.OrderNo,
		Total:      newOrder.TotalAmount,
		Status:     string(newOrder.Status),
		SessionURL: session.URL,
		CreatedAt:  newOrder.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

func recordReservation(result string) {
	if metrics.StockReservationsTotal != nil {
		metrics.IncCounterVec(metrics.StockReservationsTotal, map[string]string{"result": result})
	}
}

func recordSaga(result string) {
	if metrics.SagaExecutionsTotal != nil {
		metrics.IncCounterVec(metrics.SagaExecutionsTotal, map[string]string{"result": result})
	}
}
