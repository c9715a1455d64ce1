package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"spendpal/internal/infrastructure/backend"
)

var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrDuplicateRegistration = errors.New("an account with this email already exists")
	ErrUsernameTaken         = errors.New("username is already taken")
	ErrBackendUnreachable    = errors.New("backend is unreachable")
	ErrNotAuthenticated      = errors.New("not signed in")
	ErrAlreadyAuthenticated  = errors.New("already signed in")
	ErrRequiresBackend       = errors.New("this action requires a backend connection")
	ErrSessionInvalid        = errors.New("stored session is no longer valid")
	ErrMissingID             = errors.New("backend response is missing an id")
)

// UserMessage returns the inline message shown for an authentication failure.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password. Please try again."
	case errors.Is(err, ErrDuplicateRegistration):
		return "An account with this email already exists. Try signing in instead."
	case errors.Is(err, ErrUsernameTaken):
		return "That username is taken. Please choose another."
	case errors.Is(err, ErrBackendUnreachable):
		return "Unable to reach the server. You can continue without the backend."
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			return apiErr.Message
		}
		return "Something went wrong. Please try again."
	}
}

type authOp int

const (
	opSignIn authOp = iota
	opSignUp
)

// classifyAuthError maps a backend failure during sign-in or sign-up onto
// the authentication error taxonomy. The original error stays in the chain.
func classifyAuthError(ctx context.Context, op authOp, err error) error {
	if ctx.Err() != nil {
		return err
	}

	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %w", ErrBackendUnreachable, err)
	}

	msg := strings.ToLower(apiErr.Message)
	switch {
	case op == opSignUp && (apiErr.StatusCode == http.StatusConflict || strings.Contains(msg, "already registered") || strings.Contains(msg, "already exists")):
		return fmt.Errorf("%w: %w", ErrDuplicateRegistration, err)
	case op == opSignIn && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusBadRequest || strings.Contains(msg, "invalid login")):
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	case apiErr.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", ErrBackendUnreachable, err)
	}
	return err
}
