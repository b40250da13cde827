package order

import (
	"testing"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("ORD1756512000000001", "user_2abc", "张三", []OrderItem{
		{BookID: 1, BookName: "Go程序设计语言", Quantity: 2, UnitPrice: 7900},
		{BookID: 2, BookName: "Go语言实战", Quantity: 1, UnitPrice: 5900},
	}, 21700)
	if err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	return o
}

// TestNewOrder 测试订单工厂方法
func TestNewOrder(t *testing.T) {
	o := newTestOrder(t)

	if o.Status != StatusPending {
		t.Errorf("新订单状态应为pending,实际%s", o.Status)
	}
	if o.CalculateTotal() != 21700 {
		t.Errorf("期望明细合计21700,实际%d", o.CalculateTotal())
	}
}

// TestNewOrder_Invalid 测试非法明细
func TestNewOrder_Invalid(t *testing.T) {
	if _, err := NewOrder("ORD1", "user_2abc", "张三", nil, 0); err != ErrInvalidOrderItems {
		t.Errorf("空明细应返回ErrInvalidOrderItems,实际%v", err)
	}

	items := []OrderItem{{BookID: 1, Quantity: 0, UnitPrice: 100}}
	if _, err := NewOrder("ORD1", "user_2abc", "张三", items, 0); err != ErrInvalidQuantity {
		t.Errorf("数量为0应返回ErrInvalidQuantity,实际%v", err)
	}
}

// TestOrder_StatusTransitions 测试状态流转规则
func TestOrder_StatusTransitions(t *testing.T) {
	t.Run("pending可流转到completed", func(t *testing.T) {
		o := newTestOrder(t)
		if err := o.Complete(); err != nil {
			t.Errorf("pending→completed应成功: %v", err)
		}
	})

	t.Run("pending可流转到failed", func(t *testing.T) {
		o := newTestOrder(t)
		if err := o.Fail(); err != nil {
			t.Errorf("pending→failed应成功: %v", err)
		}
	})

	t.Run("终态不可再流转", func(t *testing.T) {
		o := newTestOrder(t)
		_ = o.Complete()

		// Webhook重复投递时的保护:已完成订单拒绝一切转换
		if err := o.Complete(); err != ErrInvalidStatusTransition {
			t.Errorf("completed→completed应拒绝,实际%v", err)
		}
		if err := o.Fail(); err != ErrInvalidStatusTransition {
			t.Errorf("completed→failed应拒绝,实际%v", err)
		}

		o2 := newTestOrder(t)
		_ = o2.Fail()
		if err := o2.Complete(); err != ErrInvalidStatusTransition {
			t.Errorf("failed→completed应拒绝,实际%v", err)
		}
	})
}

// TestStatus_IsTerminal 测试终态判断
func TestStatus_IsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() {
		t.Error("pending不是终态")
	}
	if !StatusCompleted.IsTerminal() {
		t.Error("completed是终态")
	}
	if !StatusFailed.IsTerminal() {
		t.Error("failed是终态")
	}
}

// TestOrder_IsOwnedBy 测试归属校验
func TestOrder_IsOwnedBy(t *testing.T) {
	o := newTestOrder(t)
	if !o.IsOwnedBy("user_2abc") {
		t.Error("订单应属于user_2abc")
	}
	if o.IsOwnedBy("user_other") {
		t.Error("订单不应属于user_other")
	}
}
