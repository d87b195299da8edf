package utils

import (
	"errors"
	"fmt"
	"time"

	"tourtube/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims access token 的 Claims，ID (jti) 用于注销时加入黑名单
type Claims struct {
	UserID   int64  `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// RefreshClaims refresh token 只携带用户 ID
type RefreshClaims struct {
	UserID int64 `json:"_id"`
	jwt.RegisteredClaims
}

// TokenSubject 签发 access token 所需的用户信息
type TokenSubject struct {
	UserID   int64
	Username string
	Email    string
	FullName string
}

// HashPassword 使用 bcrypt 对密码进行哈希
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword 验证密码是否与哈希匹配
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    config.GetApp().Name,
	}
}

func sign(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// GenerateAccessToken 生成 access token
func GenerateAccessToken(sub TokenSubject) (string, error) {
	jwtCfg := config.GetJWT()
	return sign(&Claims{
		UserID:           sub.UserID,
		Username:         sub.Username,
		Email:            sub.Email,
		FullName:         sub.FullName,
		RegisteredClaims: registered(jwtCfg.AccessExpireDuration()),
	}, jwtCfg.AccessSecret)
}

// GenerateRefreshToken 生成 refresh token
func GenerateRefreshToken(userID int64) (string, error) {
	jwtCfg := config.GetJWT()
	return sign(&RefreshClaims{
		UserID:           userID,
		RegisteredClaims: registered(jwtCfg.RefreshExpireDuration()),
	}, jwtCfg.RefreshSecret)
}

// ParseAccessToken 解析并验证 access token
func ParseAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(tokenString, claims, config.GetJWT().AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefreshToken 解析并验证 refresh token
func ParseRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parse(tokenString, claims, config.GetJWT().RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func parse(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
