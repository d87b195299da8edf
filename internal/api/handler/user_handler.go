package handler

import (
	"context"

	"tourtube/internal/api/dto"
	"tourtube/internal/api/middleware"
	"tourtube/internal/api/response"
	"tourtube/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Profile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.UserInfo} "获取成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	info, err := h.userService.Current(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current user fetched successfully", info)
}

// UpdateAccount 更新账户信息
// @Summary 更新昵称和邮箱
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateAccountRequest true "账户信息"
// @Success 200 {object} response.Response{data=dto.UserInfo} "更新成功"
// @Failure 409 {object} response.ErrorResponse "邮箱已被使用"
// @Router /users/update-account [patch]
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	info, err := h.userService.UpdateAccount(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account details updated successfully", info)
}

// UpdateAvatar 更换头像
// @Summary 更换头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "头像"
// @Success 200 {object} response.Response{data=dto.UserInfo} "更新成功"
// @Router /users/update-avatar [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.replaceImage(c, "avatar", h.userService.UpdateAvatar, "Avatar updated successfully")
}

// UpdateCoverImage 更换封面
// @Summary 更换封面
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param coverImage formData file true "封面"
// @Success 200 {object} response.Response{data=dto.UserInfo} "更新成功"
// @Router /users/update-coverimage [patch]
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.replaceImage(c, "coverImage", h.userService.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdater func(ctx context.Context, userID int64, file *service.FileUpload) (*dto.UserInfo, error)

func (h *UserHandler) replaceImage(c *gin.Context, field string, update imageUpdater, message string) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := formFile(c, field, imageFormats)
	if err != nil {
		response.Error(c, err)
		return
	}

	info, err := update(c.Request.Context(), userID, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, info)
}

// ChannelProfile 频道主页
// @Summary 频道主页
// @Description 订阅数、订阅了多少频道、当前用户是否已订阅
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=dto.ChannelProfile} "获取成功"
// @Failure 404 {object} response.ErrorResponse "频道不存在"
// @Router /users/c/{username} [get]
func (h *UserHandler) ChannelProfile(c *gin.Context) {
	profile, err := h.userService.ChannelProfile(c.Request.Context(), c.Param("username"), middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User channel fetched successfully", profile)
}

// WatchHistory 观看历史
// @Summary 观看历史
// @Description 最近观看的在前
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]dto.VideoInfo} "获取成功"
// @Router /users/history [get]
func (h *UserHandler) WatchHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	videos, err := h.userService.WatchHistory(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Watch history fetched successfully", videos)
}
