package handler

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

const (
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordBytes  = 72
	maxNameLength     = 100
)

func validateRegister(req model.RegisterRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return apierror.Validation("password", "password must be at least 8 characters")
	}
	if len(req.Password) > maxPasswordBytes {
		return apierror.Validation("password", "password must be at most 72 bytes")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apierror.Validation("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return apierror.Validation("name", "name must be at most 100 characters")
	}
	return nil
}

func validateLogin(req model.LoginRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return apierror.Validation("password", "password is required")
	}
	if len(req.Password) > maxPasswordBytes {
		return apierror.Validation("password", "password must be at most 72 bytes")
	}
	return nil
}

func validateRefresh(req model.RefreshRequest) error {
	if strings.TrimSpace(req.RefreshToken) == "" {
		return apierror.Validation("refreshToken", "refreshToken is required")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return apierror.Validation("email", "email is required")
	}
	if len(email) > maxEmailLength {
		return apierror.Validation("email", "email must be at most 255 characters")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return apierror.Validation("email", "email must be a valid address")
	}
	return nil
}
