package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// EmailPattern is the simple local@domain.tld shape accepted for client emails
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s has the local@domain.tld shape
func IsValidEmail(s string) bool {
	return EmailPattern.MatchString(s)
}

// TextLength counts s in UTF-16 code units, the unit the web clients measure
// field limits in
func TextLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// NewValidator returns a validator with the "clientemail" and "maxlen" rules
// registered. maxlen=N bounds a string at N UTF-16 code units.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clientemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("maxlen", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return TextLength(fl.Field().String()) <= limit
	})
	return v
}

// FieldErrors converts validator errors into a field -> message map
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			out[JSONFieldName(fe.Field())] = GetValidationMessage(fe.Tag())
		}
	}
	return out
}

// JSONFieldName converts a Go struct field name to its camelCase JSON name
func JSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
