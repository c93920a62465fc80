package store

import (
	"errors"
	"time"
)

// timestampLayout is SQLite CURRENT_TIMESTAMP output with milliseconds.
// Parsing also accepts values without the fractional part.
const timestampLayout = "2006-01-02 15:04:05.000"

func formatTimestamp(value time.Time) string {
	return value.UTC().Format(timestampLayout)
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTimestamp(*value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
