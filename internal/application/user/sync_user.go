// Package user 实现身份服务的用户同步用例。
// 认证完全委托在外,本地用户表只是身份服务推送的只读镜像。
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/xiebiao/edubook/internal/domain/user"
)

// SyncUserUseCase 用户同步用例
// 消费身份服务Webhook的user.created/updated/deleted事件
type SyncUserUseCase struct {
	userRepo user.Repository
}

// NewSyncUserUseCase 创建用户同步用例
func NewSyncUserUseCase(userRepo user.Repository) *SyncUserUseCase {
	return &SyncUserUseCase{userRepo: userRepo}
}

// SyncRequest 同步请求DTO(身份服务事件里的用户快照)
type SyncRequest struct {
	UserID   string
	Email    string
	Name     string
	Username string
	ImageURL string
}

// HandleCreated 处理user.created
// 重复投递时仓储层撞唯一索引按幂等处理
func (uc *SyncUserUseCase) HandleCreated(ctx context.Context, req SyncRequest) error {
	newUser := user.NewUser(req.UserID, req.Email, req.Name, req.Username, req.ImageURL)
	return uc.userRepo.Create(ctx, newUser)
}

// HandleUpdated 处理user.updated
// 乱序投递时updated可能先于created到达,不存在则转为创建
func (uc *SyncUserUseCase) HandleUpdated(ctx context.Context, req SyncRequest) error {
	u, err := uc.userRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return uc.userRepo.Create(ctx,
				user.NewUser(req.UserID, req.Email, req.Name, req.Username, req.ImageURL))
		}
		return err
	}

	u.ApplySync(req.Email, req.Name, req.Username, req.ImageURL)
	return uc.userRepo.Update(ctx, u)
}

// HandleDeleted 处理user.deleted
// 已不存在视为成功(重复投递)
func (uc *SyncUserUseCase) HandleDeleted(ctx context.Context, userID string) error {
	err := uc.userRepo.Delete(ctx, userID)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return err
	}
	return nil
}

// Dispatch 按事件类型分发
func (uc *SyncUserUseCase) Dispatch(ctx context.Context, eventType string, req SyncRequest) error {
	switch eventType {
	case "user.created":
		return uc.HandleCreated(ctx, req)
	case "user.updated":
		return uc.HandleUpdated(ctx, req)
	case "user.deleted":
		return uc.HandleDeleted(ctx, req.UserID)
	default:
		return fmt.Errorf("未订阅的事件类型: %s", eventType)
	}
}
