package repository

import (
	"context"
	"strings"

	"tourtube/internal/model"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户，用户名或邮箱重复返回 ErrConflict
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	if user.WatchHistory == nil {
		user.WatchHistory = pq.Int64Array{}
	}
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// GetByID 根据 ID 查询用户
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByIDs 批量查询用户
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, translate(err)
}

// GetByUsername 根据用户名查询用户
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", strings.ToLower(username)).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByUsernameOrEmail 用户名或邮箱任一匹配即返回
func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", strings.ToLower(username), strings.ToLower(email)).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Update 更新用户字段
func (r *UserRepository) Update(ctx context.Context, id int64, upd UserUpdate) (*model.User, error) {
	updates := map[string]interface{}{}
	if upd.FullName != nil {
		updates["full_name"] = *upd.FullName
	}
	if upd.Email != nil {
		updates["email"] = strings.ToLower(*upd.Email)
	}
	if upd.Avatar != nil {
		updates["avatar"] = *upd.Avatar
	}
	if upd.CoverImage != nil {
		updates["cover_image"] = *upd.CoverImage
	}
	if upd.Password != nil {
		updates["password"] = *upd.Password
	}
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// SetRefreshToken 保存（或清空）refresh token
func (r *UserRepository) SetRefreshToken(ctx context.Context, id int64, token string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("refresh_token", token)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search 用户名或昵称子串匹配（不区分大小写）
func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	pattern := likePattern(query)
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("username ILIKE ? OR full_name ILIKE ?", pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, translate(err)
}

// AddToWatchHistory 视频不在观看历史中时追加到末尾
func (r *UserRepository) AddToWatchHistory(ctx context.Context, userID, videoID int64) error {
	return translate(r.db.WithContext(ctx).Exec(
		"UPDATE users SET watch_history = array_append(watch_history, ?) WHERE id = ? AND NOT (? = ANY(watch_history))",
		videoID, userID, videoID,
	).Error)
}
