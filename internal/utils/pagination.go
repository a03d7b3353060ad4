package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination is the page window derived from list query parameters.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination reads the page and limit query parameters. Missing or
// unparseable values fall back to the first page of defaultPageSize items;
// limit is capped at maxPageSize.
func ParsePagination(c *fiber.Ctx) Pagination {
	return paginationFrom(c.Query("page"), c.Query("limit"))
}

func paginationFrom(pageParam, limitParam string) Pagination {
	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(limitParam)
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
