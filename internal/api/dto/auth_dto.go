package dto

// RegisterRequest 注册请求（multipart/form-data，avatar/coverImage 为文件字段）
type RegisterRequest struct {
	FullName string `form:"fullName" binding:"required,min=1,max=255"`
	Email    string `form:"email" binding:"required,email,max=255"`
	Username string `form:"username" binding:"required,min=3,max=64"`
	Password string `form:"password" binding:"required,min=6,max=72"`
}

// LoginRequest 登录请求，username 与 email 至少填写一个
type LoginRequest struct {
	Username string `json:"username" binding:"required_without=Email"`
	Email    string `json:"email" binding:"required_without=Username"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 token 请求，cookie 中没有 refreshToken 时从 body 读取
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// TokenPair access / refresh token
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginData 登录成功返回的数据
type LoginData struct {
	User UserInfo `json:"user"`
	TokenPair
}
