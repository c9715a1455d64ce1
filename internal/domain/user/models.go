package user

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var (
	ErrEmailRequired    = errors.New("a valid email is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrInvalidUsername  = errors.New("username must be 3-30 characters of letters, digits or underscores")
	ErrNameRequired     = errors.New("name is required")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

// Profile is the signed-in user's identity as shown across the app
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// DisplayName falls back to the email when no name is set.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// RegisterParams contains the fields of a new account
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Username string
}

func (p RegisterParams) Validate() error {
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return ErrEmailRequired
	}
	if len(p.Password) < 8 {
		return ErrPasswordTooShort
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if !usernamePattern.MatchString(p.Username) {
		return ErrInvalidUsername
	}
	return nil
}

// UpdateProfileParams contains the editable profile fields
type UpdateProfileParams struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

func (p UpdateProfileParams) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrNameRequired
	}
	if p.Username != nil && !usernamePattern.MatchString(*p.Username) {
		return ErrInvalidUsername
	}
	return nil
}
