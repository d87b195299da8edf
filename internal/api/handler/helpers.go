package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"tourtube/internal/api/middleware"
	"tourtube/internal/api/response"
	"tourtube/internal/apperr"
	"tourtube/internal/pagination"
	"tourtube/internal/service"

	"github.com/gin-gonic/gin"
)

// MaxUploadBytes 单个上传文件的大小上限，由路由初始化时按配置设置
var MaxUploadBytes int64 = 512 << 20

var (
	imageFormats = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	}
	videoFormats = map[string]bool{
		".mp4": true, ".mov": true, ".mkv": true,
		".webm": true, ".avi": true, ".flv": true,
	}
)

// parsePagination 读取 page / limit，默认 1 / 10，limit 最大 100
func parsePagination(c *gin.Context) pagination.Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return pagination.New(page, limit)
}

// parseIDParam 解析路径中的正整数 ID
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// currentUserID 只在 AuthRequired 之后的路由上使用
func currentUserID(c *gin.Context) (int64, bool) {
	id, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Error(c, service.ErrTokenRequired)
	}
	return id, ok
}

// formFile 读取 multipart 文件字段；字段缺失时返回 nil，由 service 判断是否必填
func formFile(c *gin.Context, field string, allowed map[string]bool) (*service.FileUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperr.Validation("Invalid upload: " + field)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowed[ext] {
		return nil, service.ErrUnsupportedMedia
	}
	if fh.Size == 0 {
		return nil, apperr.Validation(field + " is empty")
	}
	if fh.Size > MaxUploadBytes {
		return nil, service.ErrMediaTooLarge
	}

	return &service.FileUpload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: contentType(fh),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
