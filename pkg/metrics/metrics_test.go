package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化（重复调用不应panic）
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 幂等

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if OrderCreationDuration == nil {
		t.Error("OrderCreationDuration未初始化")
	}
	if WebhookEventsTotal == nil {
		t.Error("WebhookEventsTotal未初始化")
	}
}

// TestCounter 测试订单计数器
func TestCounter(t *testing.T) {
	InitMetrics()

	initial := getCounterValue(t, OrdersCreatedTotal)

	OrdersCreatedTotal.Inc()
	OrdersCreatedTotal.Inc()
	OrdersCreatedTotal.Inc()

	value := getCounterValue(t, OrdersCreatedTotal)
	if value != initial+3 {
		t.Errorf("Counter值错误: expected=%f, got=%f", initial+3, value)
	}
}

// TestCounterVec 测试带标签的Webhook事件计数
func TestCounterVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{
		"source":     "payment",
		"event_type": "checkout.session.completed",
		"result":     "processed",
	}
	initial := getCounterVecValue(t, WebhookEventsTotal, labels)

	IncCounterVec(WebhookEventsTotal, labels)
	IncCounterVec(WebhookEventsTotal, map[string]string{
		"source":     "payment",
		"event_type": "checkout.session.expired",
		"result":     "processed",
	})
	IncCounterVec(WebhookEventsTotal, labels)

	value := getCounterVecValue(t, WebhookEventsTotal, labels)
	if value != initial+2 {
		t.Errorf("CounterVec值错误: expected=%f, got=%f", initial+2, value)
	}
}

// TestGaugeVec 测试熔断器状态指标
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "payment-gateway"}, 1) // OPEN
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "media-host"}, 0)      // CLOSED

	v1 := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "payment-gateway"})
	if v1 != 1 {
		t.Errorf("GaugeVec值错误: expected=1, got=%f", v1)
	}

	v2 := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "media-host"})
	if v2 != 0 {
		t.Errorf("GaugeVec值错误: expected=0, got=%f", v2)
	}
}

// TestHistogram 测试订单创建耗时分布
func TestHistogram(t *testing.T) {
	InitMetrics()

	before := getHistogramCount(t, OrderCreationDuration)

	ObserveHistogram(OrderCreationDuration, 0.05)
	ObserveHistogram(OrderCreationDuration, 0.5)
	ObserveHistogram(OrderCreationDuration, 1.0)

	count := getHistogramCount(t, OrderCreationDuration)
	if count != before+3 {
		t.Errorf("Histogram观测次数错误: expected=%d, got=%d", before+3, count)
	}
}

// 辅助函数：读取Counter值
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：读取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	counter := counterVec.With(labels)
	if err := counter.(prometheus.Counter).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：读取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	gauge := gaugeVec.With(labels)
	if err := gauge.(prometheus.Gauge).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：读取Histogram观测次数
func getHistogramCount(t *testing.T, histogram prometheus.Histogram) uint64 {
	var metric dto.Metric
	if err := histogram.Write(&metric); err != nil {
		t.Fatalf("读取Histogram失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
