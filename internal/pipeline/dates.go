package pipeline

import (
	"strings"
	"time"
)

// Date formats accepted on upload. Internal representation is always
// YYYY-MM-DD once cleaned.
var dateFormats = []string{
	"2006-01-02",
	"1/2/2006",
	"2006/1/2",
	"2006-1-2",
	"02-Jan-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// parseDate attempts the supported formats in order. The zero time means
// unparseable (treated as missing downstream).
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
