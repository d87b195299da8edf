package handler

import (
	"tourtube/internal/api/dto"
	"tourtube/internal/api/middleware"
	"tourtube/internal/api/response"
	"tourtube/internal/service"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// Create 创建播放列表
// @Summary 创建播放列表
// @Tags 播放列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PlaylistCreateRequest true "名称与描述"
// @Success 201 {object} response.Response{data=dto.PlaylistInfo} "创建成功"
// @Router /playlists [post]
func (h *PlaylistHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.PlaylistCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	info, err := h.playlistService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Playlist created successfully", info)
}

// Get 播放列表详情
// @Summary 播放列表详情
// @Description 按列表顺序返回视频，未发布的视频只对作者可见
// @Tags 播放列表
// @Produce json
// @Param id path int true "播放列表ID"
// @Success 200 {object} response.Response{data=dto.PlaylistInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "播放列表不存在"
// @Router /playlists/{id} [get]
func (h *PlaylistHandler) Get(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	info, err := h.playlistService.Get(c.Request.Context(), playlistID, middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Playlist fetched successfully", info)
}

// ListByUser 用户的播放列表
// @Summary 用户的播放列表
// @Tags 播放列表
// @Produce json
// @Param userId path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.PlaylistListData} "获取成功"
// @Router /playlists/user/{userId} [get]
func (h *PlaylistHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	data, err := h.playlistService.ListByUser(c.Request.Context(), userID, parsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User playlists fetched successfully", data)
}

// Update 修改播放列表
// @Summary 修改名称或描述
// @Tags 播放列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "播放列表ID"
// @Param request body dto.PlaylistUpdateRequest true "名称与描述"
// @Success 200 {object} response.Response{data=dto.PlaylistInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /playlists/{id} [patch]
func (h *PlaylistHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PlaylistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	info, err := h.playlistService.Update(c.Request.Context(), playlistID, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Playlist updated successfully", info)
}

// Delete 删除播放列表
// @Summary 删除播放列表
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param id path int true "播放列表ID"
// @Success 200 {object} response.Response "删除成功"
// @Router /playlists/{id} [delete]
func (h *PlaylistHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.playlistService.Delete(c.Request.Context(), playlistID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Playlist deleted successfully", gin.H{})
}

// AddVideo 加入视频
// @Summary 把视频加入播放列表
// @Description 已在列表中时不做修改
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param id path int true "播放列表ID"
// @Param videoId path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.PlaylistInfo} "加入成功"
// @Router /playlists/{id}/v/{videoId} [post]
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	info, added, err := h.playlistService.AddVideo(c.Request.Context(), playlistID, videoID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Video already in playlist"
	if added {
		message = "Video added to playlist"
	}
	response.OK(c, message, info)
}

// RemoveVideo 移除视频
// @Summary 从播放列表移除视频
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param id path int true "播放列表ID"
// @Param videoId path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.PlaylistInfo} "移除成功"
// @Router /playlists/{id}/v/{videoId} [delete]
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	info, removed, err := h.playlistService.RemoveVideo(c.Request.Context(), playlistID, videoID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Video not in playlist"
	if removed {
		message = "Video removed from playlist"
	}
	response.OK(c, message, info)
}
