package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/edubook/internal/application/user"
	"github.com/xiebiao/edubook/internal/infrastructure/identity"
)

// IdentityHandler 身份服务Webhook处理器
// 消费user.created/updated/deleted事件,把外部用户资料镜像到本地
type IdentityHandler struct {
	verifier    *identity.WebhookVerifier
	syncUseCase *appuser.SyncUserUseCase
}

// NewIdentityHandler 创建身份Webhook处理器
func NewIdentityHandler(verifier *identity.WebhookVerifier, syncUseCase *appuser.SyncUserUseCase) *IdentityHandler {
	return &IdentityHandler{
		verifier:    verifier,
		syncUseCase: syncUseCase,
	}
}

// identityEvent 身份服务事件信封
type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		ImageURL       string `json:"image_url"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// Webhook 身份服务回调入口
// @Summary      身份服务回调
// @Description  同步身份服务的用户增删改事件到本地用户表
// @Tags         身份集成
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]bool
// @Failure      400 {string} string "签名校验失败"
// @Router       /identity/webhook [post]
func (h *IdentityHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "read body failed")
		return
	}

	err = h.verifier.Verify(
		c.GetHeader("webhook-id"),
		c.GetHeader("webhook-timestamp"),
		c.GetHeader("webhook-signature"),
		payload,
	)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid signature")
		return
	}

	var event identityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.String(http.StatusBadRequest, "malformed payload")
		return
	}

	// 未订阅的事件类型直接ack,身份服务会推送远多于三类的事件
	switch event.Type {
	case "user.created", "user.updated", "user.deleted":
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	req := appuser.SyncRequest{
		UserID:   event.Data.ID,
		Name:     joinName(event.Data.FirstName, event.Data.LastName),
		Username: event.Data.Username,
		ImageURL: event.Data.ImageURL,
	}
	if len(event.Data.EmailAddresses) > 0 {
		req.Email = event.Data.EmailAddresses[0].EmailAddress
	}

	if err := h.syncUseCase.Dispatch(c.Request.Context(), event.Type, req); err != nil {
		c.String(http.StatusInternalServerError, "sync failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
