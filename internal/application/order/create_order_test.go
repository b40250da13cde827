package order

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/xiebiao/edubook/internal/domain/book"
	"github.com/xiebiao/edubook/internal/domain/order"
	"github.com/xiebiao/edubook/internal/domain/payment"
)

// 测试说明:下单用例的核心保证
// 1. 预占失败时整个事务回滚,不留任何数据
// 2. 金额以数据库价格为准,前端传值不一致直接拒单
// 3. 支付会话创建失败时补偿:释放预占+订单置failed

// fakeBookRepo 内存图书仓储
type fakeBookRepo struct {
	books map[uint]*book.Book
}

func newFakeBookRepo(books ...*book.Book) *fakeBookRepo {
	repo := &fakeBookRepo{books: make(map[uint]*book.Book)}
	for _, b := range books {
		repo.books[b.ID] = b
	}
	return repo
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error { return nil }

func (r *fakeBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error { return nil }
func (r *fakeBookRepo) Delete(ctx context.Context, id uint) error      { return nil }

func (r *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) Reserve(ctx context.Context, id uint, quantity int) error {
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.AvailableStock-b.ReservedStock < quantity {
		return book.ErrInsufficientStock
	}
	b.ReservedStock += quantity
	return nil
}

func (r *fakeBookRepo) ReleaseReservation(ctx context.Context, id uint, quantity int) error {
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.ReservedStock -= quantity
	return nil
}

func (r *fakeBookRepo) CommitFulfillment(ctx context.Context, id uint, quantity int) error {
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.AvailableStock -= quantity
	b.ReservedStock -= quantity
	return nil
}

// fakeOrderRepo 内存订单仓储
type fakeOrderRepo struct {
	orders map[string]*order.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*order.Order), nextID: 1}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	o.ID = r.nextID
	r.nextID++
	r.orders[o.OrderNo] = o
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	o, ok := r.orders[orderNo]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *order.Order) error {
	r.orders[o.OrderNo] = o
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	result := make([]*order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		result = append(result, o)
	}
	return result, nil
}

// fakeTxManager 模拟事务边界:fn返回错误时恢复两个仓储的快照,
// 对应真实事务的回滚语义
type fakeTxManager struct {
	bookRepo  *fakeBookRepo
	orderRepo *fakeOrderRepo
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	bookSnapshot := make(map[uint]book.Book, len(m.bookRepo.books))
	for id, b := range m.bookRepo.books {
		bookSnapshot[id] = *b
	}
	orderSnapshot := make(map[string]order.Order, len(m.orderRepo.orders))
	for no, o := range m.orderRepo.orders {
		orderSnapshot[no] = *o
	}

	if err := fn(ctx); err != nil {
		for id := range m.bookRepo.books {
			if snap, ok := bookSnapshot[id]; ok {
				*m.bookRepo.books[id] = snap
			} else {
				delete(m.bookRepo.books, id)
			}
		}
		m.orderRepo.orders = make(map[string]*order.Order, len(orderSnapshot))
		for no, snap := range orderSnapshot {
			o := snap
			m.orderRepo.orders[no] = &o
		}
		return err
	}
	return nil
}

// fakeCheckout 模拟支付网关
type fakeCheckout struct {
	failCreate bool
	requests   []payment.CheckoutRequest
	expired    []string
}

func (c *fakeCheckout) CreateSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	c.requests = append(c.requests, req)
	if c.failCreate {
		return nil, payment.ErrProviderUnavailable
	}
	return &payment.CheckoutSession{
		SessionID: fmt.Sprintf("cs_test_%d", len(c.requests)),
		URL:       "https://pay.example.com/session",
	}, nil
}

func (c *fakeCheckout) ExpireSession(ctx context.Context, sessionID string) error {
	c.expired = append(c.expired, sessionID)
	return nil
}

func newTestUseCase(bookRepo *fakeBookRepo, checkout *fakeCheckout) (*CreateOrderUseCase, *fakeOrderRepo) {
	orderRepo := newFakeOrderRepo()
	tx := &fakeTxManager{bookRepo: bookRepo, orderRepo: orderRepo}
	uc := NewCreateOrderUseCase(orderRepo, bookRepo, checkout, tx, "http://localhost:5173")
	return uc, orderRepo
}

func testBook(id uint, name string, price int64, stock int) *book.Book {
	b := book.NewBook(name, "测试作者", price, stock, "", "")
	b.ID = id
	return b
}

func TestCreateOrderSuccess(t *testing.T) {
	bookRepo := newFakeBookRepo(
		testBook(1, "Go语言实战", 5900, 10),
		testBook(2, "领域驱动设计", 9900, 5),
	)
	checkout := &fakeCheckout{}
	uc, orderRepo := newTestUseCase(bookRepo, checkout)

	resp, err := uc.Execute(context.Background(), CreateOrderRequest{
		UserID:   "user_1001",
		UserName: "张三",
		Items: []CreateOrderItem{
			{BookID: 1, Quantity: 2},
			{BookID: 2, Quantity: 1},
		},
		TotalAmount: 2*5900 + 9900,
	})
	if err != nil {
		t.Fatalf("下单应该成功: %v", err)
	}

	if resp.Total != 21700 {
		t.Errorf("总金额应为21700, 实际%d", resp.Total)
	}
	if resp.Status != string(order.StatusPending) {
		t.Errorf("新订单应为pending, 实际%s", resp.Status)
	}
	if resp.SessionURL == "" {
		t.Error("响应应携带支付页跳转地址")
	}

	// 库存已预占,在架不动
	if bookRepo.books[1].ReservedStock != 2 || bookRepo.books[1].AvailableStock != 10 {
		t.Errorf("图书1预占异常: reserved=%d available=%d",
			bookRepo.books[1].ReservedStock, bookRepo.books[1].AvailableStock)
	}

	// 订单已落库且回填了会话ID
	o, err := orderRepo.FindByOrderNo(context.Background(), resp.OrderNo)
	if err != nil {
		t.Fatalf("订单应已落库: %v", err)
	}
	if o.CheckoutSessionID == "" {
		t.Error("订单应回填支付会话ID")
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	bookRepo := newFakeBookRepo(testBook(1, "Go语言实战", 5900, 1))
	checkout := &fakeCheckout{}
	uc, orderRepo := newTestUseCase(bookRepo, checkout)

	_, err := uc.Execute(context.Background(), CreateOrderRequest{
		UserID:   "user_1001",
		UserName: "张三",
		Items:    []CreateOrderItem{{BookID: 1, Quantity: 2}},
	})
	if !errors.Is(err, book.ErrInsufficientStock) {
		t.Fatalf("应返回库存不足, 实际: %v", err)
	}

	// 事务回滚:不留预占、不留订单、不碰支付网关
	if bookRepo.books[1].ReservedStock != 0 {
		t.Errorf("失败下单不应留下预占, reserved=%d", bookRepo.books[1].ReservedStock)
	}
	if len(orderRepo.orders) != 0 {
		t.Errorf("失败下单不应留下订单, 实际%d条", len(orderRepo.orders))
	}
	if len(checkout.requests) != 0 {
		t.Error("库存不足时不应调用支付网关")
	}
}

func TestCreateOrderAmountMismatch(t *testing.T) {
	bookRepo := newFakeBookRepo(testBook(1, "Go语言实战", 5900, 10))
	uc, orderRepo := newTestUseCase(bookRepo, &fakeCheckout{})

	_, err := uc.Execute(context.Background(), CreateOrderRequest{
		UserID:      "user_1001",
		UserName:    "张三",
		Items:       []CreateOrderItem{{BookID: 1, Quantity: 1}},
		TotalAmount: 100, // 与数据库价格不一致(前端改价)
	})
	if !errors.Is(err, order.ErrInvalidTotalAmount) {
		t.Fatalf("应返回金额不一致, 实际: %v", err)
	}
	if bookRepo.books[1].ReservedStock != 0 || len(orderRepo.orders) != 0 {
		t.Error("金额校验失败时事务应回滚")
	}
}

func TestCreateOrderSessionFailureCompensates(t *testing.T) {
	bookRepo := newFakeBookRepo(testBook(1, "Go语言实战", 5900, 10))
	checkout := &fakeCheckout{failCreate: true}
	uc, orderRepo := newTestUseCase(bookRepo, checkout)

	_, err := uc.Execute(context.Background(), CreateOrderRequest{
		UserID:   "user_1001",
		UserName: "张三",
		Items:    []CreateOrderItem{{BookID: 1, Quantity: 3}},
	})
	if err == nil {
		t.Fatal("会话创建失败时下单应失败")
	}

	// 补偿结果:预占已释放,订单置failed(而不是删除,留痕排查)
	if bookRepo.books[1].ReservedStock != 0 {
		t.Errorf("补偿后预占应清零, reserved=%d", bookRepo.books[1].ReservedStock)
	}
	if len(orderRepo.orders) != 1 {
		t.Fatalf("补偿后订单应保留1条, 实际%d条", len(orderRepo.orders))
	}
	for _, o := range orderRepo.orders {
		if o.Status != order.StatusFailed {
			t.Errorf("补偿后订单应为failed, 实际%s", o.Status)
		}
	}
}

func TestCreateOrderValidation(t *testing.T) {
	bookRepo := newFakeBookRepo(testBook(1, "Go语言实战", 5900, 10))
	uc, _ := newTestUseCase(bookRepo, &fakeCheckout{})

	_, err := uc.Execute(context.Background(), CreateOrderRequest{UserID: "user_1001"})
	if !errors.Is(err, order.ErrInvalidOrderItems) {
		t.Errorf("空明细应拒单, 实际: %v", err)
	}

	_, err = uc.Execute(context.Background(), CreateOrderRequest{
		UserID: "user_1001",
		Items:  []CreateOrderItem{{BookID: 1, Quantity: 0}},
	})
	if !errors.Is(err, order.ErrInvalidQuantity) {
		t.Errorf("数量为0应拒单, 实际: %v", err)
	}
}
