package model

import (
	"fmt"
	"strings"
	"time"
)

// Date formats a user can pick in settings.
const (
	FormatMMDDYYYY = "MM_DD_YYYY"
	FormatDDMMYYYY = "DD_MM_YYYY"
	FormatYYYYMMDD = "YYYY_MM_DD"
)

const wireDateLayout = "2006-01-02"

// ParseDueDate normalizes a raw form value to the ISO-8601 date the backend
// stores. Empty input yields nil so the field is omitted from the payload.
func ParseDueDate(value string) (*string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(wireDateLayout, trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid due date")
	}
	normalized := parsed.Format(wireDateLayout)
	return &normalized, nil
}

// FormatDate renders a stored ISO-8601 date in the user's chosen format.
// Values that do not parse are shown as-is rather than erased.
func FormatDate(value, format string) string {
	parsed, err := time.Parse(wireDateLayout, value)
	if err != nil {
		return value
	}

	switch format {
	case FormatDDMMYYYY:
		return parsed.Format("02/01/2006")
	case FormatYYYYMMDD:
		return parsed.Format("2006/01/02")
	default:
		return parsed.Format("01/02/2006")
	}
}
