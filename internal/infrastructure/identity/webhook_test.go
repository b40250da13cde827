package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/xiebiao/edubook/internal/domain/payment"
)

// 测试密钥: "whsec_" + base64("test-identity-secret")
var testSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("test-identity-secret"))

func newTestVerifier(t *testing.T, now time.Time) *WebhookVerifier {
	t.Helper()
	v, err := NewWebhookVerifier(testSecret)
	if err != nil {
		t.Fatalf("创建校验器失败: %v", err)
	}
	v.now = func() time.Time { return now }
	return v
}

func signPayload(msgID, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte("test-identity-secret"))
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestNewWebhookVerifier_InvalidSecret(t *testing.T) {
	if _, err := NewWebhookVerifier("whsec_!!!not-base64!!!"); err == nil {
		t.Error("非法密钥应返回错误")
	}
}

func TestVerify_ValidSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.created","data":{"id":"user_001"}}`)
	ts := fmt.Sprintf("%d", now.Unix())
	sig := signPayload("msg_001", ts, payload)

	if err := v.Verify("msg_001", ts, sig, payload); err != nil {
		t.Errorf("合法签名校验失败: %v", err)
	}
}

func TestVerify_WrongMessageID(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.created"}`)
	ts := fmt.Sprintf("%d", now.Unix())
	sig := signPayload("msg_001", ts, payload)

	// 签名覆盖消息ID,换ID后应失效
	if err := v.Verify("msg_002", ts, sig, payload); err != payment.ErrSignatureInvalid {
		t.Errorf("期望ErrSignatureInvalid, 实际: %v", err)
	}
}

func TestVerify_ExpiredTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.updated"}`)
	old := fmt.Sprintf("%d", now.Add(-10*time.Minute).Unix())
	sig := signPayload("msg_001", old, payload)

	if err := v.Verify("msg_001", old, sig, payload); err != payment.ErrSignatureInvalid {
		t.Errorf("过期时间戳应校验失败, 实际: %v", err)
	}
}

func TestVerify_MultipleSignatures(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.deleted"}`)
	ts := fmt.Sprintf("%d", now.Unix())
	good := signPayload("msg_003", ts, payload)

	// 密钥轮换期:旧密钥签名在前,新密钥签名在后,任一匹配即通过
	combined := "v1,c3RhbGVzaWduYXR1cmU= " + good
	if err := v.Verify("msg_003", ts, combined, payload); err != nil {
		t.Errorf("多签名中含合法签名应通过: %v", err)
	}
}

func TestVerify_MalformedSignatureHeader(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{}`)
	ts := fmt.Sprintf("%d", now.Unix())

	cases := []string{
		"",
		"garbage",
		"v2,AAAA", // 不支持的版本
	}
	for _, sig := range cases {
		if err := v.Verify("msg_004", ts, sig, payload); err != payment.ErrSignatureInvalid {
			t.Errorf("signature=%q 应校验失败, 实际: %v", sig, err)
		}
	}
}
