package services

import (
	"strings"
	"time"

	"keytrack/internal/core/domain"
)

const dateOnly = "2006-01-02"

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight)
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateOnly, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, domain.ErrInvalidDate
}

// parseOptionalDate returns nil for an empty string
func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
