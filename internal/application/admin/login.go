// Package admin 实现管理员登录用例。
// 管理员是配置里的单一凭据对,不走本地用户表,也不经过外部身份服务。
package admin

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/xiebiao/edubook/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
	"github.com/xiebiao/edubook/pkg/jwt"
)

// LoginUseCase 管理员登录用例
type LoginUseCase struct {
	email        string
	password     string
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建管理员登录用例
func NewLoginUseCase(email, password string, jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *LoginUseCase {
	return &LoginUseCase{
		email:        email,
		password:     password,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// LoginRequest 登录请求DTO
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应DTO
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token有效期(秒)
}

// Execute 执行管理员登录
// 凭据比较用常数时间比较,错误信息不区分"账号不存在"和"密码错误"
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(uc.email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(uc.password)) == 1
	if !emailOK || !passwordOK {
		return nil, apperrors.ErrBadCredential
	}

	pair, err := uc.jwtManager.GenerateToken(uc.email, uc.email, "admin")
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Token失败")
	}

	// 会话记录失败不阻塞登录,只少了在线状态统计
	_ = uc.sessionStore.SaveSession(ctx, uc.email, map[string]interface{}{
		"login_at":  time.Now().Format(time.RFC3339),
		"client_ip": req.ClientIP,
	}, uc.jwtManager.RefreshTokenTTL())

	return &LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(uc.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout 管理员登出
// Token进黑名单,剩余有效期内都会被中间件拒绝
func (uc *LoginUseCase) Logout(ctx context.Context, token string) error {
	if err := uc.sessionStore.AddToBlacklist(ctx, token, uc.jwtManager.AccessTokenTTL()); err != nil {
		return err
	}
	return uc.sessionStore.DeleteSession(ctx, uc.email)
}
