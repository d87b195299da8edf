// Package pagination 统一的分页参数与元数据
package pagination

import (
	"math"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params 分页参数，page 从 1 开始
type Params struct {
	Page  int
	Limit int
}

// New 规范化分页参数：非正数回退到默认值，limit 不超过 MaxLimit，
// page 不超过 math.MaxInt/limit，保证 offset 不溢出
func New(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return Params{Page: page, Limit: limit}
}

// Offset 返回 skip = (page-1)*limit
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Scope gorm 分页 scope
func (p Params) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// Meta 分页元数据
type Meta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalDocs   int64 `json:"totalDocs"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Meta 根据总数计算分页元数据
func (p Params) Meta(total int64) Meta {
	totalPages := (total + int64(p.Limit) - 1) / int64(p.Limit)
	return Meta{
		Page:        p.Page,
		Limit:       p.Limit,
		TotalDocs:   total,
		TotalPages:  totalPages,
		HasNextPage: int64(p.Page) < totalPages,
		HasPrevPage: p.Page > 1,
	}
}

// Slice 对内存中已排序的切片取当前页
func Slice[T any](items []T, p Params) []T {
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
