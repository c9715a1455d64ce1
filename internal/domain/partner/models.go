package partner

import (
	"errors"
	"net/mail"
	"strings"
)

// Role of an accountability partner
type Role string

const (
	RoleApprover Role = "approver"
	RoleViewer   Role = "viewer"
)

var (
	ErrNotFound      = errors.New("partner not found")
	ErrNameRequired  = errors.New("partner name is required")
	ErrInvalidEmail  = errors.New("a valid partner email is required")
	ErrInvalidRole   = errors.New("role must be 'approver' or 'viewer'")
	ErrQueryRequired = errors.New("search query is required")
)

// Partner is a contact allowed to approve, reject or view the user's requests.
// IDs are assigned by the backend.
type Partner struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Role   Role   `json:"role"`
}

// CanApprove reports whether the partner may decide on requests.
func (p Partner) CanApprove() bool {
	return p.Role == RoleApprover
}

// AddParams contains the fields of a new partner
type AddParams struct {
	Name  string
	Email string
	Role  Role
}

// Normalize trims input and applies the default role.
func (p AddParams) Normalize() AddParams {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Role == "" {
		p.Role = RoleApprover
	}
	return p
}

func (p AddParams) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return ErrInvalidEmail
	}
	if !IsValidRole(p.Role) {
		return ErrInvalidRole
	}
	return nil
}

// Invitation is sent to a partner who is not a registered user yet
type Invitation struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func IsValidRole(r Role) bool {
	return r == RoleApprover || r == RoleViewer
}

// Initials derives an avatar placeholder from a display name.
func Initials(name string) string {
	var b strings.Builder
	for _, f := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(string([]rune(f)[0])))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}
