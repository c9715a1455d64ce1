package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spendpal/internal/domain/feed"
	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/domain/wallet"
)

var ErrUnknownAction = errors.New("unknown action")

// Reducer turns one action into a complete next state. It is pure apart from
// the id and clock sources, which tests replace.
type Reducer struct {
	NewID func() string
	Now   func() time.Time
}

// DefaultReducer generates uuids and uses the wall clock.
func DefaultReducer() Reducer {
	return Reducer{NewID: uuid.NewString, Now: time.Now}
}

// Reduce applies a to s. On error s is returned unchanged.
func (rd Reducer) Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case HydratePartners:
		s.Partners = a.Partners
	case HydrateRequests:
		s.Requests = a.Requests
	case HydrateBalance:
		s.Balance = a.Balance
	case HydrateTransactions:
		s.Transactions = a.Transactions
	case HydrateConversations:
		s.Conversations = a.Conversations
	case HydrateNotifications:
		s.Notifications = a.Notifications
	case HydrateFeed:
		s.Feed = a.Items
	case HydrateMessages:
		return hydrateMessages(s, a), nil
	case SubmitRequest:
		return rd.submit(s, a)
	case ReviewRequest:
		return rd.review(s, a)
	case SendMessage:
		return rd.send(s, a)
	case MarkMessagesRead:
		s.Conversations, s.Messages = messaging.MarkThreadRead(s.Conversations, s.Messages, a.ConversationID)
	case AddPartner:
		return rd.addPartner(s, a)
	case RemovePartner:
		return removePartner(s, a)
	case MarkNotificationRead:
		next, err := notification.MarkRead(s.Notifications, a.ID)
		if err != nil {
			return s, err
		}
		s.Notifications = next
	case MarkAllNotificationsRead:
		s.Notifications = notification.MarkAllRead(s.Notifications)
	case WalletUpdated:
		s.Balance = a.Balance
		if a.Transaction != nil {
			txs := make([]wallet.Transaction, 0, len(s.Transactions)+1)
			txs = append(txs, *a.Transaction)
			s.Transactions = append(txs, s.Transactions...)
		}
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	return s, nil
}

// submit inserts the request, its feed entry and one approval_request
// notification per approver other than the submitter, as one step.
func (rd Reducer) submit(s State, a SubmitRequest) (State, error) {
	if err := a.Params.Validate(); err != nil {
		return s, err
	}
	id := a.ID
	if id == "" {
		id = rd.NewID()
	}
	now := rd.Now()
	r := request.New(id, a.Params)

	requests := make([]request.Request, 0, len(s.Requests)+1)
	requests = append(requests, r)
	requests = append(requests, s.Requests...)

	approvers := r.NotifiableApprovers()
	notes := make([]notification.Notification, 0, len(s.Notifications)+len(approvers))
	for _, approver := range approvers {
		notes = append(notes, notification.ApprovalRequest(rd.NewID(), r, approver, now))
	}
	notes = append(notes, s.Notifications...)

	s.Requests = requests
	s.Feed = feed.Prepend(s.Feed, feed.Submitted(rd.NewID(), r, now))
	s.Notifications = notes
	return s, nil
}

func (rd Reducer) review(s State, a ReviewRequest) (State, error) {
	idx := -1
	for i, r := range s.Requests {
		if r.ID == a.Params.RequestID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, request.ErrNotFound
	}

	reviewed, err := s.Requests[idx].Review(a.Params)
	if err != nil {
		return s, err
	}
	reviewer := a.Params.ReviewerOrSelf()
	now := rd.Now()

	requests := make([]request.Request, len(s.Requests))
	copy(requests, s.Requests)
	requests[idx] = reviewed

	s.Requests = requests
	s.Feed = feed.Prepend(s.Feed, feed.Reviewed(rd.NewID(), reviewed, reviewer, now))
	if reviewer != reviewed.SubmittedBy {
		notes := make([]notification.Notification, 0, len(s.Notifications)+1)
		notes = append(notes, notification.RequestReviewed(rd.NewID(), reviewed, reviewer, now))
		s.Notifications = append(notes, s.Notifications...)
	}
	return s, nil
}

func (rd Reducer) send(s State, a SendMessage) (State, error) {
	if err := a.Params.Validate(); err != nil {
		return s, err
	}
	id := a.ID
	if id == "" {
		id = rd.NewID()
	}
	m := messaging.Outgoing(id, a.Params, rd.Now())

	msgs := make([]messaging.Message, 0, len(s.Messages)+1)
	msgs = append(msgs, s.Messages...)
	s.Messages = append(msgs, m)
	s.Conversations = messaging.ApplySend(s.Conversations, m, a.Avatar)
	return s, nil
}

func (rd Reducer) addPartner(s State, a AddPartner) (State, error) {
	if a.Partner.ID == "" {
		return s, errors.New("partner ID is required")
	}
	partners := make([]partner.Partner, 0, len(s.Partners)+1)
	partners = append(partners, s.Partners...)
	s.Partners = append(partners, a.Partner)

	notes := make([]notification.Notification, 0, len(s.Notifications)+1)
	notes = append(notes, notification.FriendRequest(rd.NewID(), a.Partner, rd.Now()))
	s.Notifications = append(notes, s.Notifications...)
	return s, nil
}

func removePartner(s State, a RemovePartner) (State, error) {
	partners := make([]partner.Partner, 0, len(s.Partners))
	found := false
	for _, p := range s.Partners {
		if p.ID == a.ID {
			found = true
			continue
		}
		partners = append(partners, p)
	}
	if !found {
		return s, partner.ErrNotFound
	}
	s.Partners = partners
	return s, nil
}

func hydrateMessages(s State, a HydrateMessages) State {
	msgs := make([]messaging.Message, 0, len(s.Messages)+len(a.Messages))
	for _, m := range s.Messages {
		if m.ConversationID != a.ConversationID {
			msgs = append(msgs, m)
		}
	}
	s.Messages = append(msgs, a.Messages...)
	return s
}
