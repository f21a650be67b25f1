package library

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinRating = 1
	MaxRating = 5

	maxReaderName = 100
	maxTitle      = 200
	maxAuthor     = 100
	maxGenre      = 50
)

// ValidateRating checks that rating is within MinRating..MaxRating.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return &ValidationError{
			Field:   "rating",
			Message: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating),
		}
	}
	return nil
}

func required(field, value string, maxLen int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &ValidationError{Field: field, Message: "must not be empty"}
	}
	if utf8.RuneCountInString(value) > maxLen {
		return "", &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return value, nil
}

// optional trims value and returns nil when nothing is left.
func optional(field, value string, maxLen int) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		return nil, &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return &value, nil
}
