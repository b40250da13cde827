// Package identity 实现身份服务的Webhook签名校验。
// 认证本身委托给外部身份服务,本地只消费用户同步事件。
package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xiebiao/edubook/internal/domain/payment"
)

// 身份服务的签名方案与支付网关不同：
// 三个独立请求头,签名是base64而非hex,且密钥本身带base64前缀。
//
//	webhook-id:        消息唯一ID
//	webhook-timestamp: unix秒
//	webhook-signature: "v1,<base64(HMAC-SHA256(secret, "id.timestamp.payload"))>"
//	                   可能有多个签名,空格分隔(密钥轮换期)

// DefaultTolerance 时间戳容忍窗口
const DefaultTolerance = 5 * time.Minute

// WebhookVerifier 身份服务Webhook签名校验器
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewWebhookVerifier 创建校验器
// secret格式"whsec_<base64>",前缀后的部分是base64编码的原始密钥
func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	raw := strings.TrimPrefix(secret, "whsec_")
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("无效的身份Webhook密钥: %w", err)
	}
	return &WebhookVerifier{
		secret:    key,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}, nil
}

// Verify 校验身份Webhook签名
// msgID/timestamp/signatures分别来自三个请求头,payload是原始请求体
func (v *WebhookVerifier) Verify(msgID, timestamp, signatures string, payload []byte) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return payment.ErrSignatureInvalid
	}

	eventTime := time.Unix(ts, 0)
	if diff := v.now().Sub(eventTime); diff > v.tolerance || diff < -v.tolerance {
		return payment.ErrSignatureInvalid
	}

	expected := v.sign(msgID, timestamp, payload)

	// 密钥轮换期签名头可能带多个签名,任一匹配即通过
	for _, part := range strings.Split(signatures, " ") {
		kv := strings.SplitN(part, ",", 2)
		if len(kv) != 2 || kv[0] != "v1" {
			continue
		}
		if hmac.Equal([]byte(expected), []byte(kv[1])) {
			return nil
		}
	}

	return payment.ErrSignatureInvalid
}

func (v *WebhookVerifier) sign(msgID, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
