package handler

import (
	"tourtube/internal/api/dto"
	"tourtube/internal/api/middleware"
	"tourtube/internal/api/response"
	"tourtube/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// List 视频列表
// @Summary 视频列表
// @Description 分页、排序、标题搜索；带 query 时同时返回匹配的频道
// @Tags 视频
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param query query string false "标题关键词"
// @Param sortBy query string false "排序字段" Enums(createdAt, views, duration, title)
// @Param sortType query string false "排序方向" Enums(asc, desc)
// @Param userId query int false "频道用户ID"
// @Success 200 {object} response.Response{data=dto.VideoListData} "获取成功"
// @Router /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	var req dto.VideoListQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	data, err := h.videoService.List(c.Request.Context(), &req, middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Videos fetched successfully", data)
}

// Publish 发布视频
// @Summary 发布视频
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "标题"
// @Param description formData string true "描述"
// @Param videoFile formData file true "视频文件"
// @Param thumbnail formData file true "缩略图"
// @Success 201 {object} response.Response{data=dto.VideoInfo} "发布成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /videos/publish [post]
func (h *VideoHandler) Publish(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.VideoPublishRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	videoFile, err := formFile(c, "videoFile", videoFormats)
	if err != nil {
		response.Error(c, err)
		return
	}
	thumbnail, err := formFile(c, "thumbnail", imageFormats)
	if err != nil {
		response.Error(c, err)
		return
	}

	info, err := h.videoService.Publish(c.Request.Context(), userID, &req, videoFile, thumbnail)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Video published successfully", info)
}

// Get 视频详情，同时记录一次播放
// @Summary 视频详情
// @Tags 视频
// @Produce json
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.VideoInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /videos/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	info, err := h.videoService.Get(c.Request.Context(), videoID, middleware.ViewerID(c), c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Video fetched successfully", info)
}

// Update 修改视频
// @Summary 修改标题、描述或缩略图
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频ID"
// @Param title formData string false "标题"
// @Param description formData string false "描述"
// @Param thumbnail formData file false "缩略图"
// @Success 200 {object} response.Response{data=dto.VideoInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /videos/update/{id} [patch]
func (h *VideoHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.VideoUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	thumbnail, err := formFile(c, "thumbnail", imageFormats)
	if err != nil {
		response.Error(c, err)
		return
	}

	info, err := h.videoService.Update(c.Request.Context(), videoID, userID, &req, thumbnail)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Video updated successfully", info)
}

// Delete 删除视频
// @Summary 删除视频
// @Description 级联删除评论、点赞、播放记录，并从播放列表和观看历史中移除
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), videoID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Video deleted successfully", gin.H{})
}

// TogglePublish 切换发布状态
// @Summary 切换发布状态
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param id path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.PublishStatusData} "切换成功"
// @Router /videos/toggle/publish/{id} [patch]
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, err := h.videoService.TogglePublish(c.Request.Context(), videoID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Publish status toggled successfully", data)
}
