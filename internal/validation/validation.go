// Package validation configures the struct validator shared by request binding and the store layer.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// LinkPattern is the accepted shape of card links and avatars: http(s)
// scheme, optional www, a dotted host and an optional path.
var LinkPattern = regexp.MustCompile(`^https?://(www\.)?[^\s/]+\.[^\s/]+(/\S*)?$`)

// New returns a validator with the "link" tag registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("link", func(fl validator.FieldLevel) bool {
		return LinkPattern.MatchString(fl.Field().String())
	})
	return v
}

// EchoValidator wraps validator for Echo.
type EchoValidator struct {
	validator *validator.Validate
}

// NewEchoValidator adapts v to echo.Validator.
func NewEchoValidator(v *validator.Validate) *EchoValidator {
	return &EchoValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (ev *EchoValidator) Validate(i interface{}) error {
	return ev.validator.Struct(i)
}
