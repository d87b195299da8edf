package handler

import (
	"net/http"
	"time"

	"tourtube/internal/api/dto"
	"tourtube/internal/api/middleware"
	"tourtube/internal/api/response"
	"tourtube/internal/config"
	"tourtube/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册新用户账号，头像必填，封面可选
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Param fullName formData string true "昵称"
// @Param email formData string true "邮箱"
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Param avatar formData file true "头像"
// @Param coverImage formData file false "封面"
// @Success 201 {object} response.Response{data=dto.UserInfo} "注册成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 409 {object} response.ErrorResponse "用户名或邮箱已存在"
// @Router /users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	avatar, err := formFile(c, "avatar", imageFormats)
	if err != nil {
		response.Error(c, err)
		return
	}
	cover, err := formFile(c, "coverImage", imageFormats)
	if err != nil {
		response.Error(c, err)
		return
	}

	userInfo, err := h.authService.Register(c.Request.Context(), &req, avatar, cover)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User registered successfully", userInfo)
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户名或邮箱登录，返回 token 并写入 httpOnly cookie
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} response.Response{data=dto.LoginData} "登录成功"
// @Failure 401 {object} response.ErrorResponse "密码错误"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	data, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	setAuthCookies(c, &data.TokenPair)
	response.OK(c, "User logged in successfully", data)
}

// Logout 退出登录
// @Summary 退出登录
// @Description 吊销当前 access token，清除 refresh token 与 cookie
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "退出成功"
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, service.ErrTokenRequired)
		return
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.authService.Logout(c.Request.Context(), claims.UserID, claims.ID, expiresAt); err != nil {
		response.Error(c, err)
		return
	}

	clearAuthCookies(c)
	response.OK(c, "User logged out", gin.H{})
}

// RefreshToken 刷新 token
// @Summary 刷新 token
// @Description refresh token 从 cookie 或请求体读取，成功后两个 token 都会轮换
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest false "refresh token"
// @Success 200 {object} response.Response{data=dto.TokenPair} "刷新成功"
// @Failure 401 {object} response.ErrorResponse "refresh token 无效"
// @Router /users/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req dto.RefreshTokenRequest
		// 请求体可以为空
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	setAuthCookies(c, tokens)
	response.OK(c, "Access token refreshed", tokens)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "旧密码与新密码"
// @Success 200 {object} response.Response "修改成功"
// @Failure 400 {object} response.ErrorResponse "旧密码错误"
// @Router /users/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password changed successfully", gin.H{})
}

func setAuthCookies(c *gin.Context, tokens *dto.TokenPair) {
	jwtCfg := config.GetJWT()
	secure := config.GetApp().Mode == gin.ReleaseMode

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken,
		int(jwtCfg.AccessExpireDuration().Seconds()), "/", "", secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, tokens.RefreshToken,
		int(jwtCfg.RefreshExpireDuration().Seconds()), "/", "", secure, true)
}

func clearAuthCookies(c *gin.Context) {
	secure := config.GetApp().Mode == gin.ReleaseMode
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", secure, true)
}
