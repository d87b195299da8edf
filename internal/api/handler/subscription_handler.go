package handler

import (
	"tourtube/internal/api/middleware"
	"tourtube/internal/api/response"
	"tourtube/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Toggle 订阅/取消订阅
// @Summary 订阅/取消订阅频道
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param channelId path int true "频道用户ID"
// @Success 200 {object} response.Response{data=dto.SubscriptionToggleData} "切换成功"
// @Failure 400 {object} response.ErrorResponse "不能订阅自己"
// @Failure 404 {object} response.ErrorResponse "频道不存在"
// @Router /subscriptions/c/{channelId} [post]
func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	channelID, ok := parseIDParam(c, "channelId")
	if !ok {
		return
	}

	data, err := h.subscriptionService.Toggle(c.Request.Context(), userID, channelID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Unsubscribed successfully"
	if data.Subscribed {
		message = "Subscribed successfully"
	}
	response.OK(c, message, data)
}

// ListSubscribers 频道订阅者
// @Summary 频道订阅者
// @Tags 订阅
// @Produce json
// @Param channelId path int true "频道用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.SubscriberListData} "获取成功"
// @Router /subscriptions/channel/{channelId}/subscribers [get]
func (h *SubscriptionHandler) ListSubscribers(c *gin.Context) {
	channelID, ok := parseIDParam(c, "channelId")
	if !ok {
		return
	}

	data, err := h.subscriptionService.ListSubscribers(c.Request.Context(), channelID, parsePagination(c), middleware.ViewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Subscribers fetched successfully", data)
}

// ListSubscribedChannels 我订阅的频道
// @Summary 我订阅的频道
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.SubscribedChannelListData} "获取成功"
// @Router /subscriptions/user/subscribed [get]
func (h *SubscriptionHandler) ListSubscribedChannels(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	data, err := h.subscriptionService.ListSubscribedChannels(c.Request.Context(), userID, parsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Subscribed channels fetched successfully", data)
}
