package backend

import (
	"context"
	"net/http"

	"spendpal/internal/domain/user"
)

const (
	checkUsernamePath = "/auth/check-username"
	signUpPath        = "/auth/signup"
	signInPath        = "/auth/signin"
	signOutPath       = "/auth/signout"
	sessionPath       = "/auth/session"
	profilePath       = "/profile"
)

// CheckUsername reports whether username is still available.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	var resp usernameCheck
	if err := c.do(ctx, http.MethodPost, checkUsernamePath, usernameCheck{Username: username}, &resp, false); err != nil {
		return false, err
	}
	return resp.Available, nil
}

func (c *Client) SignUp(ctx context.Context, p user.RegisterParams) (*AuthResponse, error) {
	body := SignUpRequest{Email: p.Email, Password: p.Password, Name: p.Name, Username: p.Username}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, signUpPath, body, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, signInPath, Credentials{Email: email, Password: password}, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignOut invalidates the current token on the backend.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, signOutPath, nil, nil, true)
}

// GetSession asks the backend whether the stored token is still valid.
func (c *Client) GetSession(ctx context.Context) (*SessionResponse, error) {
	var resp SessionResponse
	if err := c.do(ctx, http.MethodGet, sessionPath, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetProfile(ctx context.Context) (*user.Profile, error) {
	var p user.Profile
	if err := c.do(ctx, http.MethodGet, profilePath, nil, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, params user.UpdateProfileParams) (*user.Profile, error) {
	var p user.Profile
	if err := c.do(ctx, http.MethodPut, profilePath, params, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}
