package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kharcha/internal/core"
)

const defaultPageSize = 20

// parseID reads a positive int64 path value.
func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// parseDate parses a YYYY-MM-DD form value.
func parseDate(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: t}, nil
}

// parsePage reads the 1-based page number, defaulting to 1.
func parsePage(query url.Values) int {
	if v := strings.TrimSpace(query.Get("page")); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p >= 1 {
			return p
		}
	}
	return 1
}

// parseMonths reads the months query parameter, clamped to [1, 36].
func parseMonths(query url.Values, fallback int) int {
	months := fallback
	if v := strings.TrimSpace(query.Get("months")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			months = m
		}
	}
	if months < 1 {
		months = 1
	}
	if months > 36 {
		months = 36
	}
	return months
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
