package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xiebiao/edubook/internal/domain/payment"
)

// DefaultTolerance 签名时间戳的默认容忍窗口
// 超过窗口的事件视为重放攻击拒绝
const DefaultTolerance = 5 * time.Minute

// SignatureVerifier 支付网关Webhook签名校验器
// 签名头格式：t=<unix时间戳>,v1=<hex(HMAC-SHA256(secret, "t.payload"))>
// 设计说明：
// 1. 签名覆盖"时间戳.原始报文体",报文任何改动都会使签名失效
// 2. HMAC比较必须用常数时间比较,防时序侧信道
// 3. 时间戳超出容忍窗口的请求直接拒绝,防重放
type SignatureVerifier struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time // 便于测试注入
}

// NewSignatureVerifier 创建签名校验器
// 图书订单和课程购买各持有独立密钥,分别创建实例
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{
		secret:    secret,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// Verify 校验Webhook签名
// payload必须是未经任何解析的原始请求体,header是网关签名头的值
func (v *SignatureVerifier) Verify(payload []byte, header string) error {
	timestamp, signature, err := parseSignatureHeader(header)
	if err != nil {
		return payment.ErrSignatureInvalid
	}

	eventTime := time.Unix(timestamp, 0)
	if diff := v.now().Sub(eventTime); diff > v.tolerance || diff < -v.tolerance {
		return payment.ErrSignatureInvalid
	}

	expected := ComputeSignature(v.secret, timestamp, payload)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return payment.ErrSignatureInvalid
	}

	return nil
}

// parseSignatureHeader 解析签名头
// 忽略不认识的键(如网关升级签名方案后的v2),只要求t和v1存在
func parseSignatureHeader(header string) (timestamp int64, signature string, err error) {
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp, err = strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, "", fmt.Errorf("无效的时间戳: %s", kv[1])
			}
		case "v1":
			signature = kv[1]
		}
	}

	if timestamp == 0 || signature == "" {
		return 0, "", fmt.Errorf("签名头缺少t或v1字段")
	}
	return timestamp, signature, nil
}

// ComputeSignature 计算签名(导出供测试构造合法签名头)
func ComputeSignature(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
