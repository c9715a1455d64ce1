package feed

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendpal/internal/domain/request"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSubmitted(t *testing.T) {
	r := request.Request{ID: "req-1", Amount: decimal.NewFromInt(250), Description: "Office supplies", SubmittedBy: request.Self}

	item := Submitted("f-1", r, now)

	assert.Equal(t, TypeSubmitted, item.Type)
	assert.Equal(t, "req-1", item.RequestID)
	assert.Equal(t, request.Self, item.User)
	assert.Equal(t, request.StatusPending, item.Status)
	assert.Equal(t, "requested $250.00 for Office supplies", item.Description)
	require.NotNil(t, item.Amount)
	assert.True(t, item.Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, now, item.Timestamp)
}

func TestReviewed(t *testing.T) {
	tests := []struct {
		name        string
		status      request.Status
		submittedBy string
		reviewer    string
		wantType    Type
		wantText    string
	}{
		{
			name: "approved own request", status: request.StatusApproved, submittedBy: request.Self, reviewer: "Sarah Chen",
			wantType: TypeApproved, wantText: "approved your request for Lunch",
		},
		{
			name: "rejected own request", status: request.StatusRejected, submittedBy: request.Self, reviewer: "Sarah Chen",
			wantType: TypeRejected, wantText: "rejected your request for Lunch",
		},
		{
			name: "approved partner request", status: request.StatusApproved, submittedBy: "Mike Ross", reviewer: request.Self,
			wantType: TypeApproved, wantText: "approved Mike Ross's request for Lunch",
		},
		{
			name: "rejected partner request", status: request.StatusRejected, submittedBy: "Mike Ross", reviewer: request.Self,
			wantType: TypeRejected, wantText: "rejected Mike Ross's request for Lunch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := request.Request{ID: "req-2", Amount: decimal.NewFromInt(15), Description: "Lunch", SubmittedBy: tt.submittedBy, Status: tt.status}

			item := Reviewed("f-2", r, tt.reviewer, now)

			assert.Equal(t, tt.wantType, item.Type)
			assert.Equal(t, tt.wantText, item.Description)
			assert.Equal(t, tt.reviewer, item.User)
			assert.Equal(t, tt.status, item.Status)
		})
	}
}

func TestPrepend(t *testing.T) {
	items := []Item{{ID: "b"}, {ID: "c"}}

	got := Prepend(items, Item{ID: "a"})

	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "b", items[0].ID, "input must not be mutated")
	assert.Len(t, Prepend(nil, Item{ID: "x"}), 1)
}
