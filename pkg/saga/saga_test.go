package saga

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSaga_Execute_Success 测试所有步骤成功的场景
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(5 * time.Second)

	// 步骤1：预占库存并落库订单
	sg.AddStep("预占库存并落库订单",
		func(ctx context.Context) error {
			executed = append(executed, "预占库存并落库订单")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "释放预占并标记失败")
			return nil
		},
	)

	// 步骤2：创建支付会话
	sg.AddStep("创建支付会话",
		func(ctx context.Context) error {
			executed = append(executed, "创建支付会话")
			return nil
		},
		nil,
	)

	err := sg.Execute(context.Background())
	if err != nil {
		t.Fatalf("Saga执行失败: %v", err)
	}

	// 验证执行顺序
	if len(executed) != 2 {
		t.Errorf("期望执行2个步骤，实际执行%d个", len(executed))
	}

	if executed[0] != "预占库存并落库订单" || executed[1] != "创建支付会话" {
		t.Errorf("执行顺序错误: %v", executed)
	}
}

// TestSaga_Execute_FailureAndCompensate 测试步骤失败触发补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(5 * time.Second)

	// 步骤1：预占库存（成功）
	sg.AddStep("预占库存",
		func(ctx context.Context) error {
			executed = append(executed, "预占库存")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "释放预占")
			return nil
		},
	)

	// 步骤2：落库订单（成功）
	sg.AddStep("落库订单",
		func(ctx context.Context) error {
			executed = append(executed, "落库订单")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "标记订单失败")
			return nil
		},
	)

	// 步骤3：创建支付会话（失败）
	sg.AddStep("创建支付会话",
		func(ctx context.Context) error {
			executed = append(executed, "创建支付会话")
			return errors.New("支付网关不可达")
		},
		nil,
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("Saga应该失败但返回成功")
	}

	// 验证执行顺序：正向3步 + 补偿2步（逆序）
	expected := []string{"预占库存", "落库订单", "创建支付会话", "标记订单失败", "释放预占"}

	if len(executed) != len(expected) {
		t.Errorf("期望执行%d个步骤，实际执行%d个: %v", len(expected), len(executed), executed)
	}

	for i, step := range expected {
		if executed[i] != step {
			t.Errorf("步骤%d期望'%s'，实际'%s'", i, step, executed[i])
		}
	}
}

// TestSaga_Execute_Timeout 测试超时触发补偿
func TestSaga_Execute_Timeout(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(50 * time.Millisecond)

	sg.AddStep("预占库存",
		func(ctx context.Context) error {
			executed = append(executed, "预占库存")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "释放预占")
			return nil
		},
	)

	// 模拟慢操作（超过整体超时时间）
	sg.AddStep("创建支付会话",
		func(ctx context.Context) error {
			select {
			case <-time.After(200 * time.Millisecond):
				executed = append(executed, "创建支付会话")
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		nil,
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("Saga应该超时但返回成功")
	}

	// 超时后应补偿已完成的步骤1
	found := false
	for _, step := range executed {
		if step == "释放预占" {
			found = true
		}
	}
	if !found {
		t.Errorf("超时后未执行补偿: %v", executed)
	}
}

// TestSaga_Execute_NilCompensate 测试无补偿步骤不报错
func TestSaga_Execute_NilCompensate(t *testing.T) {
	sg := NewSaga(time.Second)

	sg.AddStep("只读校验", func(ctx context.Context) error { return nil }, nil)
	sg.AddStep("写入失败",
		func(ctx context.Context) error { return errors.New("写入失败") },
		nil,
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("期望失败")
	}
}
