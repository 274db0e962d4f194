package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		if _, exists := result[err.Field]; exists {
			result[err.Field] += "; " + err.Message
			continue
		}
		result[err.Field] = err.Message
	}
	return result
}

// Add appends a violation for field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when no violation was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// IsValidDate parses a YYYY-MM-DD calendar date.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidPhoneNumber accepts Thai numbers: 0XXXXXXXXX or +66XXXXXXXXX.
func IsValidPhoneNumber(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")

	switch {
	case strings.HasPrefix(phone, "+66"):
		rest := strings.TrimPrefix(phone, "+66")
		return len(rest) >= 8 && len(rest) <= 9 && IsNumeric(rest)
	case strings.HasPrefix(phone, "0"):
		return len(phone) >= 9 && len(phone) <= 10 && IsNumeric(phone)
	}
	return false
}

func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// LengthBetween counts runes, so Thai text is measured in characters.
func LengthBetween(s string, min, max int) bool {
	n := len([]rune(strings.TrimSpace(s)))
	return n >= min && n <= max
}
