package handler

import (
	"github.com/gin-gonic/gin"

	appadmin "github.com/xiebiao/edubook/internal/application/admin"
	"github.com/xiebiao/edubook/internal/interface/http/dto"
	"github.com/xiebiao/edubook/internal/interface/http/middleware"
	"github.com/xiebiao/edubook/pkg/response"
)

// AdminHandler 管理员HTTP处理器
type AdminHandler struct {
	loginUseCase *appadmin.LoginUseCase
}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler(loginUseCase *appadmin.LoginUseCase) *AdminHandler {
	return &AdminHandler{loginUseCase: loginUseCase}
}

// Login 管理员登录
// @Summary      管理员登录
// @Description  配置凭据对登录,返回JWT双Token
// @Tags         管理员
// @Accept       json
// @Produce      json
// @Param        request body dto.AdminLoginRequest true "登录凭据"
// @Success      200 {object} response.Response{data=dto.AdminLoginResponse}
// @Failure      40103 {object} response.Response "账号或密码错误"
// @Router       /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appadmin.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.AdminLoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Logout 管理员登出
// @Summary      管理员登出
// @Description  当前Token进黑名单,剩余有效期内不可再用
// @Tags         管理员
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /admin/logout [post]
func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.loginUseCase.Logout(c.Request.Context(), middleware.GetToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
