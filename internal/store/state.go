package store

import (
	"github.com/shopspring/decimal"

	"spendpal/internal/domain/feed"
	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/domain/wallet"
)

// State holds every collection of one signed-in session. A State value is
// never mutated after it has been published; the reducer always builds new
// slices for the collections it touches.
type State struct {
	Requests      []request.Request           `json:"requests"`
	Partners      []partner.Partner           `json:"partners"`
	Balance       decimal.Decimal             `json:"balance"`
	Transactions  []wallet.Transaction        `json:"transactions"`
	Conversations []messaging.Conversation    `json:"conversations"`
	Messages      []messaging.Message         `json:"messages"`
	Notifications []notification.Notification `json:"notifications"`
	Feed          []feed.Item                 `json:"feed"`
}

// AccessibleFunds is the total of the current user's approved requests.
func (s State) AccessibleFunds() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Requests {
		if r.SubmittedBy == request.Self && r.Status == request.StatusApproved {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// TotalUnreadMessages sums unread counts across conversations.
func (s State) TotalUnreadMessages() int {
	return messaging.TotalUnread(s.Conversations)
}

// UnreadNotificationsCount counts unread notifications.
func (s State) UnreadNotificationsCount() int {
	return notification.UnreadCount(s.Notifications)
}

// FindRequest looks up a request by id.
func (s State) FindRequest(id string) (request.Request, bool) {
	for _, r := range s.Requests {
		if r.ID == id {
			return r, true
		}
	}
	return request.Request{}, false
}

// FindPartner looks up a partner by id.
func (s State) FindPartner(id string) (partner.Partner, bool) {
	for _, p := range s.Partners {
		if p.ID == id {
			return p, true
		}
	}
	return partner.Partner{}, false
}
