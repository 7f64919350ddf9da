package validation

import (
	"strings"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/request"
)

const minPasswordLength = 8

// ValidateRegister validates an account creation request.
func ValidateRegister(req request.RegisterRequest) error {
	errors := make(map[string]string)

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errors["email"] = "email is required"
	} else if !strings.Contains(email, "@") {
		errors["email"] = "email is not valid"
	}

	if strings.TrimSpace(req.Username) == "" {
		errors["username"] = "username is required"
	}

	if len(req.Password) < minPasswordLength {
		errors["password"] = "password must be at least 8 characters"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateLogin validates a login request.
func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
