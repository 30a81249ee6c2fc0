// Package validation builds the shared validator with the mall's account rules.
package validation

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^(01[016789])[0-9]{3,4}[0-9]{4}$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+@[A-Za-z0-9\-]+\.[A-Za-z0-9\-]+`)
)

// New returns a validator with the loginid, password, phone and mallemail tags.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("loginid", runeLength(5, 12))
	_ = v.RegisterValidation("password", runeLength(8, 15))
	_ = v.RegisterValidation("phone", matches(phonePattern))
	_ = v.RegisterValidation("mallemail", matches(emailPattern))
	return v
}

func runeLength(min, max int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		n := utf8.RuneCountInString(fl.Field().String())
		return n >= min && n <= max
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
