package notification

import (
	"errors"
	"fmt"
	"time"

	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
)

// Notification types
const (
	TypeFriendRequest   = "friend_request"
	TypeApprovalRequest = "approval_request"
	TypeRequestReviewed = "request_reviewed"
)

var validTypes = map[string]struct{}{
	TypeFriendRequest:   {},
	TypeApprovalRequest: {},
	TypeRequestReviewed: {},
}

// Domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidType          = errors.New("invalid notification type")
)

// Notification is created only as a side effect of a request or partner action.
type Notification struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
	RequestID  string    `json:"requestId,omitempty"`
	ApproverID string    `json:"approverId,omitempty"`
	// Recipient is the person the notification addresses
	Recipient string `json:"recipient,omitempty"`
}

// ApprovalRequest asks approver to decide on r.
func ApprovalRequest(id string, r request.Request, approver string, at time.Time) Notification {
	return Notification{
		ID:        id,
		Type:      TypeApprovalRequest,
		Title:     "New approval request",
		Message:   fmt.Sprintf("%s needs approval for $%s: %s", r.SubmittedBy, r.Amount.StringFixed(2), r.Description),
		Timestamp: at,
		RequestID: r.ID,
		Recipient: approver,
	}
}

// RequestReviewed tells the submitter of r that reviewer decided on it.
func RequestReviewed(id string, r request.Request, reviewer string, at time.Time) Notification {
	return Notification{
		ID:        id,
		Type:      TypeRequestReviewed,
		Title:     fmt.Sprintf("Request %s", r.Status),
		Message:   fmt.Sprintf("%s %s your request for $%s: %s", reviewer, r.Status, r.Amount.StringFixed(2), r.Description),
		Timestamp: at,
		RequestID: r.ID,
		Recipient: r.SubmittedBy,
	}
}

// FriendRequest records that p was invited as a partner.
func FriendRequest(id string, p partner.Partner, at time.Time) Notification {
	return Notification{
		ID:         id,
		Type:       TypeFriendRequest,
		Title:      "Partner request sent",
		Message:    fmt.Sprintf("You invited %s to be your %s", p.Name, p.Role),
		Timestamp:  at,
		ApproverID: p.ID,
		Recipient:  p.Name,
	}
}

// MarkRead returns a copy of list with notification id marked read.
func MarkRead(list []Notification, id string) ([]Notification, error) {
	out := make([]Notification, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == id {
			out[i].Read = true
			return out, nil
		}
	}
	return list, ErrNotificationNotFound
}

// MarkAllRead returns a copy of list with every notification marked read.
func MarkAllRead(list []Notification) []Notification {
	out := make([]Notification, len(list))
	for i, n := range list {
		n.Read = true
		out[i] = n
	}
	return out
}

// UnreadCount counts notifications not yet read.
func UnreadCount(list []Notification) int {
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count
}

func IsValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}
