package session

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Truella/Framez/internal/shared/validate"
)

var ErrValidation = errors.New("invalid input")

type SignUpInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"-" validate:"required,eqfield=Password"`
	Username        string `json:"username" validate:"required,min=3,username"`
	FullName        string `json:"full_name" validate:"required"`
}

// checked in the order the sign-up form reports them
var signUpRules = []struct {
	field, tag, msg string
}{
	{"Username", "min", "Username must be at least 3 characters"},
	{"Username", "username", "Username can only contain letters, numbers, and underscores"},
	{"ConfirmPassword", "eqfield", "Passwords do not match"},
	{"Password", "min", "Password must be at least 8 characters"},
	{"Email", "email", "Please enter a valid email"},
}

// Validate returns an ErrValidation-wrapped error carrying the first
// user-facing message that applies.
func (in SignUpInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: Please fill in all fields", ErrValidation)
		}
	}
	for _, rule := range signUpRules {
		for _, fe := range verrs {
			if fe.Field() == rule.field && fe.Tag() == rule.tag {
				return fmt.Errorf("%w: %s", ErrValidation, rule.msg)
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, verrs[0].Error())
}
