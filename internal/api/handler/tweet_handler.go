package handler

import (
	"tourtube/internal/api/dto"
	"tourtube/internal/api/middleware"
	"tourtube/internal/api/response"
	"tourtube/internal/service"

	"github.com/gin-gonic/gin"
)

type TweetHandler struct {
	tweetService *service.TweetService
}

func NewTweetHandler(tweetService *service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

// Create 发布动态
// @Summary 发布动态
// @Tags 动态
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TweetRequest true "内容"
// @Success 201 {object} response.Response{data=dto.TweetInfo} "发布成功"
// @Router /tweets/create [post]
func (h *TweetHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	info, err := h.tweetService.Create(c.Request.Context(), userID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Tweet created successfully", info)
}

// List 动态流
// @Summary 全部动态
// @Tags 动态
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.TweetListData} "获取成功"
// @Router /tweets [get]
func (h *TweetHandler) List(c *gin.Context) {
	data, err := h.tweetService.List(c.Request.Context(), parsePagination(c), middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tweets fetched successfully", data)
}

// ListByUser 用户的动态
// @Summary 用户的动态
// @Tags 动态
// @Produce json
// @Param userId path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.TweetListData} "获取成功"
// @Router /tweets/user/{userId} [get]
func (h *TweetHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	data, err := h.tweetService.ListByUser(c.Request.Context(), userID, parsePagination(c), middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User tweets fetched successfully", data)
}

// Update 修改动态
// @Summary 修改动态
// @Tags 动态
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "动态ID"
// @Param request body dto.TweetRequest true "内容"
// @Success 200 {object} response.Response{data=dto.TweetInfo} "修改成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /tweets/{id} [patch]
func (h *TweetHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tweetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	info, err := h.tweetService.Update(c.Request.Context(), tweetID, userID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tweet updated successfully", info)
}

// Delete 删除动态
// @Summary 删除动态
// @Tags 动态
// @Produce json
// @Security BearerAuth
// @Param id path int true "动态ID"
// @Success 200 {object} response.Response "删除成功"
// @Router /tweets/{id} [delete]
func (h *TweetHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tweetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tweetService.Delete(c.Request.Context(), tweetID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tweet deleted successfully", gin.H{})
}
