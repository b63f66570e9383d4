package dto

import "math"

type CategoryFilter struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
}

type PaginationQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Resolve fills defaults and returns the limit and offset to query with.
func (q *PaginationQuery) Resolve(defaultLimit int) (limit, offset int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	return q.Limit, (q.Page - 1) * q.Limit
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return PaginationMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       limit,
	}
}

type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type IdeaIDRequest struct {
	IdeaID string `uri:"ideaId" binding:"required,uuid"`
}
