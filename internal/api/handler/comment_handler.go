package handler

import (
	"tourtube/internal/api/dto"
	"tourtube/internal/api/middleware"
	"tourtube/internal/api/response"
	"tourtube/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListByVideo 视频评论列表
// @Summary 视频评论列表
// @Tags 评论
// @Produce json
// @Param videoId path int true "视频ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.CommentListData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /comments/video/{videoId} [get]
func (h *CommentHandler) ListByVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	data, err := h.commentService.ListByVideo(c.Request.Context(), videoID, parsePagination(c), middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Comments fetched successfully", data)
}

// Create 发表评论
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "视频ID"
// @Param request body dto.CommentRequest true "评论内容"
// @Success 201 {object} response.Response{data=dto.CommentInfo} "评论成功"
// @Router /comments/video/{videoId} [post]
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	info, err := h.commentService.Create(c.Request.Context(), videoID, userID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Comment added successfully", info)
}

// Update 修改评论
// @Summary 修改评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Param request body dto.CommentRequest true "评论内容"
// @Success 200 {object} response.Response{data=dto.CommentInfo} "修改成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /comments/{id} [patch]
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	info, err := h.commentService.Update(c.Request.Context(), commentID, userID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Comment updated successfully", info)
}

// Delete 删除评论
// @Summary 删除评论
// @Tags 评论
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Success 200 {object} response.Response "删除成功"
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), commentID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Comment deleted successfully", gin.H{})
}
