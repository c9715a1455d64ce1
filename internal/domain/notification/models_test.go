package notification

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestApprovalRequest(t *testing.T) {
	r := request.Request{ID: "req-1", Amount: decimal.NewFromInt(250), Description: "Office supplies", SubmittedBy: request.Self}

	n := ApprovalRequest("n-1", r, "Sarah Chen", now)

	assert.Equal(t, TypeApprovalRequest, n.Type)
	assert.Equal(t, "req-1", n.RequestID)
	assert.Equal(t, "Sarah Chen", n.Recipient)
	assert.Equal(t, "You needs approval for $250.00: Office supplies", n.Message)
	assert.False(t, n.Read)
}

func TestRequestReviewed(t *testing.T) {
	r := request.Request{ID: "req-1", Amount: decimal.NewFromInt(40), Description: "Lunch", SubmittedBy: request.Self, Status: request.StatusRejected}

	n := RequestReviewed("n-2", r, "Sarah Chen", now)

	assert.Equal(t, TypeRequestReviewed, n.Type)
	assert.Equal(t, request.Self, n.Recipient)
	assert.Contains(t, n.Message, "Sarah Chen rejected")
}

func TestFriendRequest(t *testing.T) {
	n := FriendRequest("n-3", partner.Partner{ID: "p-1", Name: "Mike", Role: partner.RoleViewer}, now)

	assert.Equal(t, TypeFriendRequest, n.Type)
	assert.Equal(t, "p-1", n.ApproverID)
	assert.Equal(t, "You invited Mike to be your viewer", n.Message)
}

func TestMarkRead(t *testing.T) {
	list := []Notification{{ID: "a"}, {ID: "b"}}

	got, err := MarkRead(list, "b")
	require.NoError(t, err)
	assert.True(t, got[1].Read)
	assert.False(t, list[1].Read, "input must not be mutated")

	again, err := MarkRead(got, "b")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = MarkRead(list, "missing")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestMarkAllRead(t *testing.T) {
	list := []Notification{{ID: "a"}, {ID: "b", Read: true}}

	got := MarkAllRead(list)
	assert.Equal(t, 0, UnreadCount(got))
	assert.Equal(t, 1, UnreadCount(list))
	assert.Equal(t, got, MarkAllRead(got))
}

func TestIsValidType(t *testing.T) {
	assert.True(t, IsValidType(TypeFriendRequest))
	assert.False(t, IsValidType("marketing"))
}
