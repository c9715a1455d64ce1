package request

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Self is the display name the current user carries inside every collection.
const Self = "You"

// Status of a spending request
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Categories offered by the submission form. Free-form categories are accepted too.
var Categories = []string{
	"Food & Dining",
	"Shopping",
	"Entertainment",
	"Transportation",
	"Bills & Utilities",
	"Health",
	"Travel",
	"Other",
}

// Domain errors
var (
	ErrNotFound            = errors.New("request not found")
	ErrAlreadyReviewed     = errors.New("request has already been reviewed")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrDescriptionRequired = errors.New("description is required")
	ErrCategoryRequired    = errors.New("category is required")
	ErrApproversRequired   = errors.New("at least one approver is required")
	ErrInvalidStatus       = errors.New("review status must be 'approved' or 'rejected'")
)

// Request is a discretionary purchase awaiting or having received a decision
type Request struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Status      Status          `json:"status"`
	SubmittedBy string          `json:"submittedBy"`
	Approvers   []string        `json:"approvers"`
	ApprovedBy  []string        `json:"approvedBy,omitempty"`
	RejectedBy  string          `json:"rejectedBy,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// SubmitParams contains the fields of a new request
type SubmitParams struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        time.Time
	Approvers   []string
	Notes       string
	ImageURL    string
	// SelfApproval allows a request without approvers
	SelfApproval bool
}

func (p SubmitParams) Validate() error {
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Description == "" {
		return ErrDescriptionRequired
	}
	if p.Category == "" {
		return ErrCategoryRequired
	}
	if !p.SelfApproval && len(p.Approvers) == 0 {
		return ErrApproversRequired
	}
	return nil
}

// New builds a pending request submitted by the current user.
func New(id string, p SubmitParams) Request {
	return Request{
		ID:          id,
		Amount:      p.Amount,
		Description: p.Description,
		Category:    p.Category,
		Date:        p.Date,
		Status:      StatusPending,
		SubmittedBy: Self,
		Approvers:   append([]string(nil), p.Approvers...),
		Notes:       p.Notes,
		ImageURL:    p.ImageURL,
	}
}

// ReviewParams describes an approve/reject decision
type ReviewParams struct {
	RequestID string
	Status    Status
	Notes     string
	// Reviewer defaults to Self when empty
	Reviewer string
}

func (p ReviewParams) Validate() error {
	if p.RequestID == "" {
		return errors.New("request ID is required")
	}
	if !IsReviewStatus(p.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// ReviewerOrSelf returns the reviewer, falling back to the current user.
func (p ReviewParams) ReviewerOrSelf() string {
	if p.Reviewer == "" {
		return Self
	}
	return p.Reviewer
}

// Review returns a copy of r with the decision applied. Only pending
// requests can be reviewed; approved and rejected are terminal.
func (r Request) Review(p ReviewParams) (Request, error) {
	if err := p.Validate(); err != nil {
		return r, err
	}
	if r.Status != StatusPending {
		return r, ErrAlreadyReviewed
	}

	reviewer := p.ReviewerOrSelf()
	next := r
	next.Status = p.Status
	if p.Notes != "" {
		next.Notes = p.Notes
	}

	switch p.Status {
	case StatusApproved:
		next.ApprovedBy = append(append([]string(nil), r.ApprovedBy...), reviewer)
		next.RejectedBy = ""
	case StatusRejected:
		next.RejectedBy = reviewer
	}
	return next, nil
}

// NotifiableApprovers returns the distinct approvers other than the submitter,
// in their original order.
func (r Request) NotifiableApprovers() []string {
	seen := make(map[string]struct{}, len(r.Approvers))
	var out []string
	for _, a := range r.Approvers {
		if a == "" || a == r.SubmittedBy {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// HasApprover reports whether name is one of the request's approvers.
func (r Request) HasApprover(name string) bool {
	for _, a := range r.Approvers {
		if a == name {
			return true
		}
	}
	return false
}

// IsSelfSubmitted reports whether the current user submitted the request.
func (r Request) IsSelfSubmitted() bool {
	return r.SubmittedBy == Self
}

func IsReviewStatus(s Status) bool {
	return s == StatusApproved || s == StatusRejected
}

func IsValidStatus(s Status) bool {
	return s == StatusPending || IsReviewStatus(s)
}
