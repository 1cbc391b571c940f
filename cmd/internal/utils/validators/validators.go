package validators

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"mentoring/cmd/internal/utils"
)

// IsIsoDate accepts calendar dates in "2006-01-02" form.
func IsIsoDate(fl validator.FieldLevel) bool {
	return utils.IsValidDate(fl.Field().String())
}

// IsClock accepts "15:04" wall-clock values.
func IsClock(fl validator.FieldLevel) bool {
	_, err := utils.ParseClock(fl.Field().String())
	return err == nil
}

// IsQuarterAligned accepts clocks whose minutes are 0, 15, 30 or 45.
// The slot grid is quarter-hours, so ranges must start and end on it.
func IsQuarterAligned(fl validator.FieldLevel) bool {
	return utils.IsQuarterAligned(fl.Field().String())
}

func HasUpper(fl validator.FieldLevel) bool {
	return strings.ContainsFunc(fl.Field().String(), unicode.IsUpper)
}

func HasLower(fl validator.FieldLevel) bool {
	return strings.ContainsFunc(fl.Field().String(), unicode.IsLower)
}

func HasDigit(fl validator.FieldLevel) bool {
	return strings.ContainsFunc(fl.Field().String(), unicode.IsDigit)
}

func HasSpecial(fl validator.FieldLevel) bool {
	return strings.ContainsFunc(fl.Field().String(), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}
