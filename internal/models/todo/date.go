package todo

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date drops the clock part of t and returns midnight UTC of the same
// calendar day as seen in t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD value. Blank input means no date.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
