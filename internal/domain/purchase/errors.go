package purchase

import (
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// 购买记录领域错误定义
var (
	// ErrPurchaseNotFound 购买记录不存在
	ErrPurchaseNotFound = apperrors.New(apperrors.ErrCodePurchaseNotFound, "购买记录不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "购买记录状态不允许此操作")
)
