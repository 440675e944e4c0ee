// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/abdulazeez2247/moe/internal/util"
)

// =============================================================================
// FORMS
// =============================================================================

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `validate:"required,looseemail"`
	Password string `validate:"required"`
}

// SignupForm is the account creation form.
type SignupForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,looseemail"`
	Password string `validate:"required"`
	Confirm  string `validate:"eqfield=Password"`
}

// ForgotPasswordForm requests a reset email.
type ForgotPasswordForm struct {
	Email string `validate:"required,looseemail"`
}

// ResetPasswordForm sets a new password with the token from the reset email.
type ResetPasswordForm struct {
	Token    string `validate:"required"`
	Password string `validate:"required"`
	Confirm  string `validate:"eqfield=Password"`
}

// =============================================================================
// VALIDATION
// =============================================================================

// ErrValidation is matched by every form validation failure.
var ErrValidation = errors.New("validation failed")

// FieldError is one invalid form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors lists every invalid field in form order.
type ValidationErrors []FieldError

// Error returns the first message, which is what forms display.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ErrValidation.Error()
	}
	return v[0].Message
}

// Is lets errors.Is match ErrValidation.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the message for field, or "".
func (v ValidationErrors) Field(name string) string {
	for _, fe := range v {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

// emailPattern is intentionally loose: something@something.something.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

var messages = map[string]string{
	"Email.required":    "Please enter your email address",
	"Email.looseemail":  "Please enter a valid email address",
	"Password.required": "Please enter your password",
	"Name.required":     "Please enter your name",
	"Confirm.eqfield":   "Passwords do not match",
	"Token.required":    "Reset link is missing its token",
}

// Validate checks a form after normalizing its text fields. It returns
// ValidationErrors or nil.
func Validate(form any) error {
	normalize(form)
	err := validatorInstance().Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// normalize trims names and emails. Passwords are left exactly as typed.
func normalize(form any) {
	switch f := form.(type) {
	case *LoginForm:
		f.Email = strings.TrimSpace(f.Email)
	case *SignupForm:
		f.Name = util.NormalizeInput(f.Name)
		f.Email = strings.TrimSpace(f.Email)
	case *ForgotPasswordForm:
		f.Email = strings.TrimSpace(f.Email)
	case *ResetPasswordForm:
		f.Token = strings.TrimSpace(f.Token)
	}
}
