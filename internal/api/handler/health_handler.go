package handler

import (
	"tourtube/internal/api/response"

	"github.com/gin-gonic/gin"
)

// Healthcheck 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response "服务正常"
// @Router /healthcheck [get]
func Healthcheck(c *gin.Context) {
	response.OK(c, "OK", gin.H{"status": "ok"})
}
