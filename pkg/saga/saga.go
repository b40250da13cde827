// Package saga 实现通用的Saga补偿事务框架
//
// 设计说明：
// 1. 将跨系统的长事务拆分为多个本地短步骤
// 2. 每个步骤有对应的补偿操作
// 3. 某步失败时，按逆序执行已完成步骤的补偿操作
//
// 本项目的典型场景：下单是"本地落库 + 远程创建支付会话"的两阶段操作，
// 第二阶段失败时必须补偿第一阶段（释放库存预占、把订单置为失败），
// 否则会留下永远pending的孤儿订单。
package saga

import (
	"context"
	"fmt"
	"time"
)

// Step 表示Saga中的一个步骤
//
// 设计要点：
// 1. Action是正向操作（如预占库存、创建支付会话）
// 2. Compensate是补偿操作（如释放预占、标记订单失败）
// 3. 每个操作都必须支持幂等（允许重试）
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作
}

// Saga 表示一个Saga事务
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间
}

// NewSaga 创建一个新的Saga事务
//
// 示例：
//
//	sg := saga.NewSaga(30 * time.Second)
//	sg.AddStep("预占库存并落库订单", reserveAndPersist, releaseAndFail)
//	sg.AddStep("创建支付会话", createCheckoutSession, nil)
//	err := sg.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加一个Saga步骤
//
// 约束：
// 1. 步骤按添加顺序执行，按逆序补偿
// 2. Action和Compensate都可以为nil（如最后一步通常无需补偿）
// 3. 补偿操作必须只依赖自己步骤的结果，不能依赖后续步骤
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行Saga事务
//
// 执行流程：
// 1. 按顺序执行每个步骤的Action
// 2. 某步失败时，逆序执行已完成步骤的Compensate
// 3. 返回触发补偿的原始错误
//
// 注意：
// 1. 补偿操作也可能失败（只能记录日志，需要人工介入）
// 2. Saga保证"最终一致性"，补偿期间数据可能处于中间状态
func (s *Saga) Execute(ctx context.Context) error {
	// 创建带超时的Context
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.executed = make([]Step, 0, len(s.steps))

	for i, step := range s.steps {
		// 超时或取消时立即触发补偿
		select {
		case <-ctx.Done():
			s.compensate(ctx)
			return fmt.Errorf("saga超时或被取消: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(ctx)
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		// 记录已执行的步骤（用于补偿）
		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 执行补偿流程
//
// 补偿原则：
// 1. 按逆序执行已完成步骤的Compensate
// 2. 即使某个Compensate失败，也继续执行后续补偿（尽最大努力）
func (s *Saga) compensate(ctx context.Context) {
	// 补偿时不能继承已超时的Context，否则补偿必然失败
	ctx = context.WithoutCancel(ctx)

	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				// 补偿失败：记录日志，继续执行后续补偿
				fmt.Printf("补偿失败[步骤:%s]: %v\n", step.Name, err)
			}
		}
	}

	// 清空已执行列表
	s.executed = nil
}
