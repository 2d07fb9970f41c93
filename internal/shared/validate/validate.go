package validate

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate

	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
	})
	return v
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return instance().Struct(s)
}

// Var validates a single value against tag.
func Var(field any, tag string) error {
	return instance().Var(field, tag)
}
