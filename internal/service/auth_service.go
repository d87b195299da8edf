package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourtube/internal/api/dto"
	"tourtube/internal/apperr"
	"tourtube/internal/model"
	"tourtube/internal/repository"
	"tourtube/pkg/logger"
	"tourtube/pkg/utils"

	"go.uber.org/zap"
)

type AuthService struct {
	users   repository.UserStore
	media   mediaHelper
	revoker TokenRevoker
}

func NewAuthService(users repository.UserStore, media MediaStore, events EventPublisher, revoker TokenRevoker) *AuthService {
	return &AuthService{users: users, media: mediaHelper{store: media, events: events}, revoker: revoker}
}

// Register 用户注册：先上传头像/封面，写库失败时删除已上传的文件
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, avatar, cover *FileUpload) (*dto.UserInfo, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.users.GetByUsernameOrEmail(ctx, username, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if avatar == nil {
		return nil, ErrAvatarRequired
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.media.upload(ctx, folderAvatars, avatar)
	if err != nil {
		return nil, err
	}
	var coverURL string
	if cover != nil {
		coverURL, err = s.media.upload(ctx, folderCovers, cover)
		if err != nil {
			s.media.discard(ctx, avatarURL)
			return nil, err
		}
	}

	user := &model.User{
		Username:   username,
		Email:      email,
		FullName:   strings.TrimSpace(req.FullName),
		Avatar:     avatarURL,
		CoverImage: coverURL,
		Password:   hashedPassword,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.media.discard(ctx, avatarURL, coverURL)
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	info := toUserInfo(user)
	return &info, nil
}

// Login 用户名或邮箱登录，签发 access / refresh token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginData, error) {
	user, err := s.users.GetByUsernameOrEmail(ctx, strings.ToLower(req.Username), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginData{User: toUserInfo(user), TokenPair: *tokens}, nil
}

// Logout 注销 access token 并清除 refresh token
func (s *AuthService) Logout(ctx context.Context, userID int64, jti string, expiresAt time.Time) error {
	if err := s.revoker.Revoke(ctx, jti, expiresAt); err != nil {
		return err
	}
	return notFoundAs(s.users.SetRefreshToken(ctx, userID, ""), ErrUserNotFound)
}

// Refresh refresh token 必须与库中保存的一致，成功后两个 token 都轮换
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrTokenRequired
	}
	claims, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Wrap(ErrInvalidRefreshToken, err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, ErrRefreshTokenUsed
	}

	return s.issueTokens(ctx, user)
}

// ChangePassword 校验旧密码后修改
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}
	if !utils.VerifyPassword(oldPassword, user.Password) {
		return ErrWrongPassword
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = s.users.Update(ctx, userID, repository.UserUpdate{Password: &hashed})
	return notFoundAs(err, ErrUserNotFound)
}

// Authenticate 校验 access token 并检查黑名单
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	claims, err := utils.ParseAccessToken(token)
	if err != nil {
		return nil, apperr.Wrap(ErrInvalidAccessToken, err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*dto.TokenPair, error) {
	accessToken, err := utils.GenerateAccessToken(utils.TokenSubject{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	})
	if err != nil {
		return nil, err
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
