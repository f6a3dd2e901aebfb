package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type Pagination struct {
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
}

func NewPagination(offset, limit int, totalCount int64) Pagination {
	totalPages := 0
	page := 1
	if limit > 0 {
		totalPages = int((totalCount + int64(limit) - 1) / int64(limit))
		page = offset/limit + 1
	}
	return Pagination{
		Offset:     offset,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		Page:       page,
	}
}

// ParsePageParams reads ?offset= and ?limit= with the same defaults and
// caps on every list endpoint.
func ParsePageParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}
	return offset, limit
}
