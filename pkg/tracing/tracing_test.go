package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// initTestTracer 初始化测试Tracer（exporter连不上也不影响Span创建）
func initTestTracer(t *testing.T) {
	shutdown, err := InitTracer("edubook-test", "localhost:4317")
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}
	t.Cleanup(func() {
		_ = shutdown(context.Background())
	})
}

// TestStartSpan 测试Span创建与父子关系
func TestStartSpan(t *testing.T) {
	initTestTracer(t)

	t.Run("创建根Span", func(t *testing.T) {
		ctx := context.Background()

		_, span := StartSpan(ctx, "edubook-test", "CreateOrder")
		defer span.End()

		if !span.SpanContext().IsValid() {
			t.Error("Span无效")
		}

		traceID := span.SpanContext().TraceID().String()
		if traceID == "" || traceID == "00000000000000000000000000000000" {
			t.Errorf("TraceID无效: %s", traceID)
		}
	})

	t.Run("创建子Span", func(t *testing.T) {
		ctx := context.Background()

		ctx, rootSpan := StartSpan(ctx, "edubook-test", "CreateOrder")
		defer rootSpan.End()

		rootTraceID := rootSpan.SpanContext().TraceID().String()
		rootSpanID := rootSpan.SpanContext().SpanID().String()

		_, childSpan := StartSpan(ctx, "edubook-test", "ReserveStock")
		defer childSpan.End()

		// 子Span继承根Span的TraceID，但有独立的SpanID
		if childSpan.SpanContext().TraceID().String() != rootTraceID {
			t.Errorf("子Span的TraceID不匹配: root=%s, child=%s",
				rootTraceID, childSpan.SpanContext().TraceID().String())
		}
		if childSpan.SpanContext().SpanID().String() == rootSpanID {
			t.Error("子Span的SpanID不应与根Span相同")
		}
	})
}

// TestSpanAttributes 测试Span属性与状态设置
func TestSpanAttributes(t *testing.T) {
	initTestTracer(t)

	ctx := context.Background()
	_, span := StartSpan(ctx, "edubook-test", "HandleWebhook")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_type", "checkout.session.completed"),
		attribute.String("order_no", "ORD20260830001"),
		attribute.Int("item_count", 2),
	)
	span.SetStatus(codes.Ok, "事件处理成功")
}

// TestExtractTraceID 测试TraceID/SpanID提取
func TestExtractTraceID(t *testing.T) {
	initTestTracer(t)

	t.Run("从有效Context提取", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := StartSpan(ctx, "edubook-test", "PurchaseCourse")
		defer span.End()

		traceID := ExtractTraceID(ctx)
		if len(traceID) != 32 {
			t.Errorf("TraceID长度错误: expected=32, got=%d", len(traceID))
		}

		spanID := ExtractSpanID(ctx)
		if len(spanID) != 16 {
			t.Errorf("SpanID长度错误: expected=16, got=%d", len(spanID))
		}
	})

	t.Run("从无Span的Context提取返回空", func(t *testing.T) {
		ctx := context.Background()

		if got := ExtractTraceID(ctx); got != "" {
			t.Errorf("期望空字符串，实际: %s", got)
		}
		if got := ExtractSpanID(ctx); got != "" {
			t.Errorf("期望空字符串，实际: %s", got)
		}
	})
}
