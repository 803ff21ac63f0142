package storage

import (
	"fmt"
	"strings"
	"time"
)

// FormatStoredTime renders a time for storage in a TEXT column.
func FormatStoredTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseStoredTime parses a time stored in a TEXT column. Older rows imported
// from backups carry a handful of legacy layouts.
func ParseStoredTime(value string) (time.Time, error) {
	if idx := strings.Index(value, " m="); idx != -1 {
		value = value[:idx]
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", value)
}
