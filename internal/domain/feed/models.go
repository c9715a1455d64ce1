package feed

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"spendpal/internal/domain/request"
)

// Type of activity entry
type Type string

const (
	TypeSubmitted Type = "submitted"
	TypeApproved  Type = "approved"
	TypeRejected  Type = "rejected"
	TypeComment   Type = "comment"
)

// Item is an append-only activity log entry. Collections keep items newest first.
type Item struct {
	ID          string           `json:"id"`
	Type        Type             `json:"type"`
	RequestID   string           `json:"requestId"`
	User        string           `json:"user"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
	Status      request.Status   `json:"status,omitempty"`
}

// Submitted describes a newly submitted request.
func Submitted(id string, r request.Request, at time.Time) Item {
	amount := r.Amount
	return Item{
		ID:          id,
		Type:        TypeSubmitted,
		RequestID:   r.ID,
		User:        r.SubmittedBy,
		Amount:      &amount,
		Description: fmt.Sprintf("requested $%s for %s", r.Amount.StringFixed(2), r.Description),
		Timestamp:   at,
		Status:      request.StatusPending,
	}
}

// Reviewed describes an approve/reject decision taken by reviewer.
func Reviewed(id string, r request.Request, reviewer string, at time.Time) Item {
	typ := TypeApproved
	verb := "approved"
	if r.Status == request.StatusRejected {
		typ = TypeRejected
		verb = "rejected"
	}
	amount := r.Amount
	return Item{
		ID:          id,
		Type:        typ,
		RequestID:   r.ID,
		User:        reviewer,
		Amount:      &amount,
		Description: fmt.Sprintf("%s %s request for %s", verb, possessive(r.SubmittedBy), r.Description),
		Timestamp:   at,
		Status:      r.Status,
	}
}

func possessive(name string) string {
	if name == request.Self {
		return "your"
	}
	return name + "'s"
}

// Prepend returns items with item at the head, keeping newest-first order.
func Prepend(items []Item, item Item) []Item {
	out := make([]Item, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}
