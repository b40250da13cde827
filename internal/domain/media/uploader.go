// Package media 定义图床上传端口,具体HTTP客户端在infrastructure/media实现。
package media

import (
	"context"
	"io"

	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// ErrUploadFailed 图床上传失败
var ErrUploadFailed = apperrors.New(apperrors.ErrCodeMediaError, "图片上传失败")

// Uploader 图床上传端口
// 由infrastructure层的图床HTTP客户端实现(外层包熔断器)
type Uploader interface {
	// Upload 上传图片,返回可公开访问的安全URL
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)

	// Delete 删除图片(课程/图书删除时尽力而为)
	Delete(ctx context.Context, url string) error
}
