package learning

import (
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// 学习记录领域错误定义
var (
	// ErrEnrollmentNotFound 选课记录不存在
	ErrEnrollmentNotFound = apperrors.New(apperrors.ErrCodeEnrollmentNotFound, "选课记录不存在")

	// ErrProgressNotFound 学习进度不存在
	ErrProgressNotFound = apperrors.New(apperrors.ErrCodeProgressNotFound, "学习进度不存在")

	// ErrCertificateNotFound 证书申请不存在
	ErrCertificateNotFound = apperrors.New(apperrors.ErrCodeCertificateNotFound, "证书申请不存在")

	// ErrInvalidPercentage 进度百分比非法
	ErrInvalidPercentage = apperrors.New(apperrors.ErrCodeInvalidParams, "进度百分比必须在0到100之间")
)
