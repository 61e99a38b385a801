package params

import (
	"strconv"

	"summit-scheduler/core/constants"

	"github.com/labstack/echo/v4"
)

type QueryParams struct {
	PageNumber int
	PageSize   int
}

// NewQueryParams reads ?page= and ?limit= with sane bounds.
func NewQueryParams(ctx echo.Context) *QueryParams {
	page, err := strconv.Atoi(ctx.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.QueryParam("limit"))
	if err != nil || size < 1 {
		size = constants.DefaultPageSize
	}
	if size > constants.MaxPageSize {
		size = constants.MaxPageSize
	}
	return &QueryParams{PageNumber: page, PageSize: size}
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
