package services

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"github.com/dmitrijs2005/hrportal/internal/server/auth"
)

const (
	MinPasswordLen = 8
	MaxPasswordLen = 128
	MaxNameLen     = 100
	MaxEmailLen    = 255
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

// validateEmail accepts a bare addr-spec whose domain has at least one dot.
// Display names ("Bob <bob@x.com>") are rejected.
func validateEmail(email string) error {
	if email == "" {
		return validationError("email is required")
	}
	if len(email) > MaxEmailLen {
		return validationError("email must be at most %d characters", MaxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return validationError("value is not a valid email address")
	}
	_, domain, _ := strings.Cut(addr.Address, "@")
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return validationError("value is not a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if !utf8.ValidString(password) {
		return validationError("password must be valid UTF-8")
	}
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLen {
		return validationError("password must be at least %d characters", MinPasswordLen)
	}
	if n > MaxPasswordLen {
		return validationError("password must be at most %d characters", MaxPasswordLen)
	}
	// bcrypt only sees the first 72 bytes
	if len(password) > auth.MaxPasswordBytes {
		return validationError("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	return nil
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 {
		return validationError("name is required")
	}
	if n > MaxNameLen {
		return validationError("name must be at most %d characters", MaxNameLen)
	}
	return nil
}

func validateRegistration(email, password, name string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	return validateName(name)
}
