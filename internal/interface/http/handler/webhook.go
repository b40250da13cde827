package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apppayment "github.com/xiebiao/edubook/internal/application/payment"
	"github.com/xiebiao/edubook/internal/domain/payment"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// WebhookHandler 支付回调HTTP处理器
// 设计说明：
// 1. 必须读原始请求体做验签,不能先走JSON绑定
// 2. 响应格式是网关约定的,不走统一Response结构:
//    验签失败返回400纯文本,处理成功返回200 {"received":true}
type WebhookHandler struct {
	orderWebhookUseCase  *apppayment.OrderWebhookUseCase
	courseWebhookUseCase *apppayment.CourseWebhookUseCase
}

// NewWebhookHandler 创建支付回调处理器
func NewWebhookHandler(
	orderWebhookUseCase *apppayment.OrderWebhookUseCase,
	courseWebhookUseCase *apppayment.CourseWebhookUseCase,
) *WebhookHandler {
	return &WebhookHandler{
		orderWebhookUseCase:  orderWebhookUseCase,
		courseWebhookUseCase: courseWebhookUseCase,
	}
}

// OrderWebhook 图书订单支付回调
// @Summary      订单支付回调
// @Description  支付网关回调入口,驱动订单进入终态并结转库存
// @Tags         支付回调
// @Accept       json
// @Produce      json
// @Param        stripe-signature header string true "网关签名"
// @Success      200 {object} map[string]bool
// @Failure      400 {string} string "签名校验失败"
// @Router       /orders/webhook [post]
func (h *WebhookHandler) OrderWebhook(c *gin.Context) {
	h.handle(c, h.orderWebhookUseCase.Execute)
}

// CourseWebhook 课程购买支付回调
// @Summary      课程购买支付回调
// @Tags         支付回调
// @Accept       json
// @Produce      json
// @Param        stripe-signature header string true "网关签名"
// @Success      200 {object} map[string]bool
// @Failure      400 {string} string "签名校验失败"
// @Router       /course/webhook [post]
func (h *WebhookHandler) CourseWebhook(c *gin.Context) {
	h.handle(c, h.courseWebhookUseCase.Execute)
}

func (h *WebhookHandler) handle(c *gin.Context, execute func(ctx context.Context, payload []byte, signature string) error) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "read body failed")
		return
	}

	err = execute(c.Request.Context(), payload, c.GetHeader("stripe-signature"))
	if err != nil {
		// 错误信息保持笼统,不向网关(或伪造者)泄露校验细节
		if errors.Is(err, payment.ErrSignatureInvalid) {
			c.String(http.StatusBadRequest, "invalid signature")
			return
		}
		if appErr := apperrors.GetAppError(err); appErr.Code >= 40400 && appErr.Code < 40500 {
			c.String(http.StatusNotFound, "resource not found")
			return
		}
		c.String(http.StatusInternalServerError, "webhook processing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
