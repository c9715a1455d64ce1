package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		params AddParams
		want   error
	}{
		{name: "valid", params: AddParams{Name: "Sarah Chen", Email: "sarah@example.com", Role: RoleApprover}},
		{name: "viewer", params: AddParams{Name: "Sarah Chen", Email: "sarah@example.com", Role: RoleViewer}},
		{name: "missing name", params: AddParams{Email: "sarah@example.com", Role: RoleApprover}, want: ErrNameRequired},
		{name: "bad email", params: AddParams{Name: "Sarah", Email: "not-an-email", Role: RoleApprover}, want: ErrInvalidEmail},
		{name: "bad role", params: AddParams{Name: "Sarah", Email: "sarah@example.com", Role: "owner"}, want: ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAddParams_Normalize(t *testing.T) {
	p := AddParams{Name: "  Sarah Chen ", Email: " Sarah@Example.COM "}.Normalize()

	assert.Equal(t, "Sarah Chen", p.Name)
	assert.Equal(t, "sarah@example.com", p.Email)
	assert.Equal(t, RoleApprover, p.Role)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "SC", Initials("Sarah Chen"))
	assert.Equal(t, "MA", Initials("mike anthony ross"))
	assert.Equal(t, "J", Initials("Jo"))
	assert.Equal(t, "", Initials("   "))
}
