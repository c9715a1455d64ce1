package backend

import (
	"context"
	"net/http"
	"net/url"

	"spendpal/internal/domain/partner"
)

const (
	partnersPath   = "/partners"
	searchPath     = "/partners/search"
	checkUsersPath = "/partners/check-users"
	invitePath     = "/partners/invite"
)

func (c *Client) ListPartners(ctx context.Context) ([]partner.Partner, error) {
	var resp partnersResponse
	if err := c.do(ctx, http.MethodGet, partnersPath, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Partners == nil {
		return []partner.Partner{}, nil
	}
	return resp.Partners, nil
}

// AddPartner creates a partner record; the returned partner carries the
// backend-assigned id.
func (c *Client) AddPartner(ctx context.Context, p partner.AddParams) (*partner.Partner, error) {
	var created partner.Partner
	if err := c.do(ctx, http.MethodPost, partnersPath, partnerBody{Name: p.Name, Email: p.Email, Role: p.Role}, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) RemovePartner(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, partnersPath+"/"+escape(id), nil, nil, true)
}

// SearchUsers finds registered users by name, username or email.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]UserMatch, error) {
	var resp searchResponse
	path := searchPath + "?" + url.Values{"q": {query}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Users == nil {
		return []UserMatch{}, nil
	}
	return resp.Users, nil
}

// CheckRegisteredUsers returns the subset of emails that belong to registered users.
func (c *Client) CheckRegisteredUsers(ctx context.Context, emails []string) ([]string, error) {
	var resp checkUsersResponse
	if err := c.do(ctx, http.MethodPost, checkUsersPath, checkUsersBody{Emails: emails}, &resp, true); err != nil {
		return nil, err
	}
	if resp.Registered == nil {
		return []string{}, nil
	}
	return resp.Registered, nil
}

func (c *Client) InvitePartner(ctx context.Context, inv partner.Invitation) error {
	return c.do(ctx, http.MethodPost, invitePath, inv, nil, true)
}
