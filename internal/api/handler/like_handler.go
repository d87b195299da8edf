package handler

import (
	"context"

	"tourtube/internal/api/dto"
	"tourtube/internal/api/response"
	"tourtube/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

type likeToggler func(ctx context.Context, targetID, userID int64) (*dto.LikeToggleData, error)

func (h *LikeHandler) toggle(c *gin.Context, toggle likeToggler) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, err := toggle(c.Request.Context(), targetID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Like removed"
	if data.IsLiked {
		message = "Liked successfully"
	}
	response.OK(c, message, data)
}

// ToggleVideo 点赞/取消点赞视频
// @Summary 点赞/取消点赞视频
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.LikeToggleData} "切换成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /likes/videos/{id} [post]
func (h *LikeHandler) ToggleVideo(c *gin.Context) {
	h.toggle(c, h.likeService.ToggleVideo)
}

// ToggleComment 点赞/取消点赞评论
// @Summary 点赞/取消点赞评论
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Success 200 {object} response.Response{data=dto.LikeToggleData} "切换成功"
// @Router /likes/comments/{id} [post]
func (h *LikeHandler) ToggleComment(c *gin.Context) {
	h.toggle(c, h.likeService.ToggleComment)
}

// ToggleTweet 点赞/取消点赞动态
// @Summary 点赞/取消点赞动态
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param id path int true "动态ID"
// @Success 200 {object} response.Response{data=dto.LikeToggleData} "切换成功"
// @Router /likes/tweets/{id} [post]
func (h *LikeHandler) ToggleTweet(c *gin.Context) {
	h.toggle(c, h.likeService.ToggleTweet)
}

// LikedVideos 我点赞过的视频
// @Summary 我点赞过的视频
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.VideoListData} "获取成功"
// @Router /likes/likedVideos [get]
func (h *LikeHandler) LikedVideos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	data, err := h.likeService.LikedVideos(c.Request.Context(), userID, parsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Liked videos fetched successfully", data)
}
