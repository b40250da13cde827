package payment

import (
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// 支付域错误定义
var (
	// ErrSignatureInvalid Webhook签名校验失败
	// 对外只返回通用错误,不泄露校验细节
	ErrSignatureInvalid = apperrors.New(apperrors.ErrCodeWebhookSignature, "Webhook签名校验失败")

	// ErrDuplicateEvent 事件已处理过(重复投递)
	ErrDuplicateEvent = apperrors.New(apperrors.ErrCodeDuplicateEntry, "事件已处理")

	// ErrProviderUnavailable 支付网关不可用
	ErrProviderUnavailable = apperrors.New(apperrors.ErrCodePaymentError, "支付服务暂时不可用")
)
