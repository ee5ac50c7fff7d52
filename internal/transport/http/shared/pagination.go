package shared

import (
	"net/http"
	"strconv"
	"strings"
)

// Page is a limit/offset window read from the query string.
type Page struct {
	Limit  int
	Offset int
}

// PageParams gives the window used when the query is silent and the
// largest limit a caller may ask for.
type PageParams struct {
	DefaultLimit int
	MaxLimit     int
}

// ParsePage reads ?limit and ?offset. Malformed values are field errors; a
// limit above MaxLimit is clamped rather than rejected.
func ParsePage(r *http.Request, params PageParams) (Page, error) {
	page := Page{Limit: params.DefaultLimit}
	var v Validator
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			v.Add("limit", "must be a positive integer")
		} else {
			page.Limit = limit
		}
	}
	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			v.Add("offset", "must be a non-negative integer")
		} else {
			page.Offset = offset
		}
	}
	if err := v.Err(); err != nil {
		return Page{}, err
	}

	if params.MaxLimit > 0 && page.Limit > params.MaxLimit {
		page.Limit = params.MaxLimit
	}
	return page, nil
}
