package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/edubook/internal/domain/user"
	apperrors "github.com/xiebiao/edubook/pkg/errors"
)

// userRepository 用户仓储实现(MySQL)
// 记录由身份服务Webhook同步,本地只做查询和镜像维护
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// user.created重复投递时撞UserID唯一索引,按幂等处理
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		UserID:   u.UserID,
		Email:    u.Email,
		Name:     u.Name,
		Username: u.Username,
		ImageURL: u.ImageURL,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return nil
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	return nil
}

// FindByUserID 根据外部身份标识查找用户
func (r *userRepository) FindByUserID(ctx context.Context, userID string) (*user.User, error) {
	var model UserModel
	err := getDB(ctx, r.db).Where("user_id = ?", userID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}

	return toUserEntity(&model), nil
}

// FindByUserIDs 批量查找用户
func (r *userRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]*user.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var models []UserModel
	err := getDB(ctx, r.db).Where("user_id IN ?", userIDs).Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "批量查询用户失败")
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, nil
}

// Update 更新用户信息(user.updated同步)
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	result := getDB(ctx, r.db).Model(&UserModel{}).Where("user_id = ?", u.UserID).Updates(map[string]interface{}{
		"email":      u.Email,
		"name":       u.Name,
		"username":   u.Username,
		"image_url":  u.ImageURL,
		"updated_at": u.UpdatedAt,
	})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新用户失败")
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete 删除用户(软删除,user.deleted同步)
func (r *userRepository) Delete(ctx context.Context, userID string) error {
	result := getDB(ctx, r.db).Where("user_id = ?", userID).Delete(&UserModel{})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除用户失败")
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		UserID:    model.UserID,
		Email:     model.Email,
		Name:      model.Name,
		Username:  model.Username,
		ImageURL:  model.ImageURL,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
