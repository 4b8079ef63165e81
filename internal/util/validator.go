package util

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidUsername allows letters, digits and underscores, at least three of them.
func ValidUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) >= 3 && usernamePattern.MatchString(s)
}

// RegisterValidators adds the custom binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("username", ValidUsername)
}
