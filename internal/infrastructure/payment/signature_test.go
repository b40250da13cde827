package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/xiebiao/edubook/internal/domain/payment"
)

const testSecret = "whsec_test_secret"

// newTestVerifier 固定当前时间,避免测试对真实时钟敏感
func newTestVerifier(now time.Time) *SignatureVerifier {
	v := NewSignatureVerifier(testSecret)
	v.now = func() time.Time { return now }
	return v
}

func signedHeader(secret string, ts int64, payload []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", ts, ComputeSignature(secret, ts, payload))
}

func TestVerify_ValidSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)

	payload := []byte(`{"id":"evt_001","type":"checkout.session.completed"}`)
	header := signedHeader(testSecret, now.Unix(), payload)

	if err := v.Verify(payload, header); err != nil {
		t.Errorf("合法签名校验失败: %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)

	payload := []byte(`{"id":"evt_001"}`)
	header := signedHeader("whsec_other_secret", now.Unix(), payload)

	if err := v.Verify(payload, header); err != payment.ErrSignatureInvalid {
		t.Errorf("期望ErrSignatureInvalid, 实际: %v", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)

	payload := []byte(`{"id":"evt_001","amount":100}`)
	header := signedHeader(testSecret, now.Unix(), payload)

	tampered := []byte(`{"id":"evt_001","amount":999}`)
	if err := v.Verify(tampered, header); err != payment.ErrSignatureInvalid {
		t.Errorf("篡改报文应校验失败, 实际: %v", err)
	}
}

func TestVerify_ExpiredTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)

	payload := []byte(`{"id":"evt_001"}`)
	// 时间戳超出容忍窗口(10分钟前)
	old := now.Add(-10 * time.Minute).Unix()
	header := signedHeader(testSecret, old, payload)

	if err := v.Verify(payload, header); err != payment.ErrSignatureInvalid {
		t.Errorf("过期时间戳应校验失败, 实际: %v", err)
	}
}

func TestVerify_MalformedHeader(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)
	payload := []byte(`{}`)

	cases := []string{
		"",
		"garbage",
		"t=notanumber,v1=abc",
		"t=1700000000",   // 缺少v1
		"v1=deadbeef",    // 缺少t
		"t=,v1=deadbeef", // 空时间戳
		"x=1,y=2,z=3",    // 无关字段
	}

	for _, header := range cases {
		if err := v.Verify(payload, header); err != payment.ErrSignatureInvalid {
			t.Errorf("header=%q 应校验失败, 实际: %v", header, err)
		}
	}
}

func TestVerify_ExtraFieldsIgnored(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(now)

	payload := []byte(`{"id":"evt_002"}`)
	sig := ComputeSignature(testSecret, now.Unix(), payload)
	// 网关可能附加v0等兼容字段,应被忽略
	header := fmt.Sprintf("t=%d,v1=%s,v0=legacy", now.Unix(), sig)

	if err := v.Verify(payload, header); err != nil {
		t.Errorf("带额外字段的合法签名校验失败: %v", err)
	}
}
