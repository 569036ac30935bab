package validation

import (
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[35679][0-9]{8}$`)

// validPhone: nine digits, the first one of 3, 5, 6, 7 or 9.
func validPhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// strongPassword requires at least one ASCII letter, one ASCII digit and one
// character that is neither (underscore counts as a symbol).
func strongPassword(fl validator.FieldLevel) bool {
	return isStrongPassword(fl.Field().String())
}

func isStrongPassword(s string) bool {
	var letter, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return letter && digit && symbol && utf8.RuneCountInString(s) >= 6
}

// maxBytes bounds the encoded length, bcrypt ignores everything past 72 bytes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
