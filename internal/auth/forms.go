package auth

import (
	"strings"

	"github.com/safar/go-storefront/internal/validation"
)

type LoginForm struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	RememberMe bool   `json:"rememberMe"`
}

type RegisterForm struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AgreeToTerms    bool   `json:"agreeToTerms" validate:"required"`
	Newsletter      bool   `json:"subscribeNewsletter"`
}

var loginValidator = validation.New(map[string]string{
	"email.required":    "Email is required",
	"email.email":       "Please enter a valid email address",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
})

var registerValidator = validation.New(map[string]string{
	"firstName":                "First name is required",
	"lastName":                 "Last name is required",
	"email.required":           "Email is required",
	"email.email":              "Please enter a valid email address",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 8 characters",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords do not match",
	"agreeToTerms":             "You must agree to the terms and conditions",
})

// ValidateLogin trims the email and reports field errors. Passwords are
// never trimmed.
func ValidateLogin(form *LoginForm) error {
	form.Email = strings.TrimSpace(form.Email)
	return loginValidator.Struct(form)
}

func ValidateRegister(form *RegisterForm) error {
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
	return registerValidator.Struct(form)
}

type Strength struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// PasswordStrength scores one point each for length >= 8, a lowercase
// letter, an uppercase letter, a digit and a symbol.
func PasswordStrength(password string) Strength {
	var lower, upper, digit, other bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}

	score := 0
	for _, ok := range []bool{len(password) >= 8, lower, upper, digit, other} {
		if ok {
			score++
		}
	}

	s := Strength{Score: score}
	switch {
	case score <= 1:
		s.Label = "Weak"
	case score <= 3:
		s.Label = "Medium"
	default:
		s.Label = "Strong"
	}
	return s
}
