package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNumber reports user input that is not a finite number.
var ErrInvalidNumber = errors.New("invalid number")

// ParseAmount reads a user-entered number. Both "12.5" and "12,5" are accepted.
func ParseAmount(raw, field string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidNumber, field)
	}
	s = strings.Replace(s, ",", ".", 1)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(value) {
		return 0, fmt.Errorf("%w: %s must be numeric", ErrInvalidNumber, field)
	}
	return value, nil
}

// ParseOptionalAmount is ParseAmount that yields 0 for blank input.
func ParseOptionalAmount(raw, field string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return ParseAmount(raw, field)
}

// ParseFlag reads a checkbox-style boolean.
func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes", "sim":
		return true
	}
	return false
}
