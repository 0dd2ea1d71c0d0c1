// Package http provides HTTP server and handler implementations.
//
// This file implements parsing and validation of query string parameters.

package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"txboard/internal/core"
	"txboard/internal/query"
)

// paramError is a malformed or missing request parameter. It maps to 400.
type paramError struct {
	Param   string
	Message string
}

func (e *paramError) Error() string { return e.Message }

const msgMonthRequired = "Month is required"

// parseMonth resolves the month query parameter to 1..12. When the
// parameter is absent and not required it returns 0, meaning no month filter.
func parseMonth(q url.Values, required bool) (int, error) {
	raw := strings.TrimSpace(q.Get("month"))
	if raw == "" {
		if required {
			return 0, &paramError{Param: "month", Message: msgMonthRequired}
		}
		return 0, nil
	}

	month, err := core.ParseMonth(raw)
	if err != nil {
		return 0, &paramError{Param: "month", Message: fmt.Sprintf("invalid month %q: expected a full English month name", raw)}
	}
	return month, nil
}

// parsePositiveInt reads an optional integer parameter that must be >= 1.
func parsePositiveInt(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &paramError{Param: name, Message: fmt.Sprintf("invalid %s %q: must be a positive integer", name, raw)}
	}
	return n, nil
}

// parseListParams extracts month, search and paging for the listing endpoint.
// Search is passed through verbatim; only an empty value disables it.
func parseListParams(q url.Values) (query.ListParams, error) {
	month, err := parseMonth(q, false)
	if err != nil {
		return query.ListParams{}, err
	}
	page, err := parsePositiveInt(q, "page", query.DefaultPage)
	if err != nil {
		return query.ListParams{}, err
	}
	perPage, err := parsePositiveInt(q, "per_page", query.DefaultPageSize)
	if err != nil {
		return query.ListParams{}, err
	}

	return query.ListParams{
		Month:  month,
		Search: q.Get("search"),
		Page:   query.Page{Number: page, Size: perPage},
	}, nil
}
