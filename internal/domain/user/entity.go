package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 认证完全委托给外部身份服务,本地不存密码
// 2. UserID是身份服务下发的外部标识,作为跨表关联键
// 3. 记录由身份服务的Webhook(user.created/updated/deleted)同步
type User struct {
	ID        uint
	UserID    string // 外部身份标识
	Email     string
	Name      string
	Username  string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
func NewUser(userID, email, name, username, imageURL string) *User {
	now := time.Now()
	return &User{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Username:  username,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplySync 用身份服务推送的最新资料覆盖本地记录
func (u *User) ApplySync(email, name, username, imageURL string) {
	u.Email = email
	u.Name = name
	u.Username = username
	u.ImageURL = imageURL
	u.UpdatedAt = time.Now()
}
