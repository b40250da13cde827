package course

import (
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// 课程领域错误定义
var (
	// ErrCourseNotFound 课程不存在
	ErrCourseNotFound = apperrors.New(apperrors.ErrCodeCourseNotFound, "课程不存在")

	// ErrMissingTitle 课程标题缺失
	ErrMissingTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "课程标题不能为空")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "课程价格不能为负数")

	// ErrInvalidDiscount 无效的折扣
	ErrInvalidDiscount = apperrors.New(apperrors.ErrCodeInvalidParams, "折扣必须在0到100之间")

	// ErrNotOwner 无权操作他人课程
	ErrNotOwner = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此课程")
)
