package echoapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/inquiry"
)

const (
	searchParam = "search"
	sinceParam  = "since"
	limitParam  = "limit"

	defaultInquiryLimit = 100
)

type InquiryQuery struct {
	inquiry.QueryFilter
}

// Bind reads `search`, `since` (RFC 3339) & `limit` from the query string.
func (q *InquiryQuery) Bind(ctx echo.Context) error {
	q.Search = strings.TrimSpace(ctx.QueryParam(searchParam))
	q.Limit = defaultInquiryLimit

	if val := ctx.QueryParam(sinceParam); val != "" {
		since, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: sinceParam, Error: "must be an RFC 3339 date"})
		}
		q.Since = since
	}
	if val := ctx.QueryParam(limitParam); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil || limit < 1 {
			return core.NewValidationError(err, core.FieldError{Field: limitParam, Error: "must be a positive integer"})
		}
		q.Limit = limit
	}
	return nil
}
