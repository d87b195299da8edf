package handler

import (
	"tourtube/internal/api/response"
	"tourtube/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats 频道统计
// @Summary 频道统计
// @Tags 控制台
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.ChannelStats} "获取成功"
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.Stats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Channel stats fetched successfully", stats)
}

// Videos 频道的全部视频
// @Summary 频道的全部视频（含未发布）
// @Tags 控制台
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.VideoListData} "获取成功"
// @Router /dashboard/videos [get]
func (h *DashboardHandler) Videos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	data, err := h.dashboardService.Videos(c.Request.Context(), userID, parsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Channel videos fetched successfully", data)
}
