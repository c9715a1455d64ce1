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

// Action is a typed intent applied by the reducer.
type Action interface {
	Name() string
}

// Hydration actions replace a single collection with a loader result.

type HydratePartners struct{ Partners []partner.Partner }
type HydrateRequests struct{ Requests []request.Request }
type HydrateBalance struct{ Balance decimal.Decimal }
type HydrateTransactions struct{ Transactions []wallet.Transaction }
type HydrateConversations struct{ Conversations []messaging.Conversation }
type HydrateNotifications struct{ Notifications []notification.Notification }
type HydrateFeed struct{ Items []feed.Item }

// HydrateMessages replaces the messages of one conversation.
type HydrateMessages struct {
	ConversationID string
	Messages       []messaging.Message
}

// SubmitRequest adds a pending request. ID is the backend-assigned id when
// the request was created remotely; empty means generate one.
type SubmitRequest struct {
	Params request.SubmitParams
	ID     string
}

type ReviewRequest struct {
	Params request.ReviewParams
}

// SendMessage appends an outgoing message. ID works like SubmitRequest.ID.
type SendMessage struct {
	Params messaging.SendParams
	ID     string
	Avatar string
}

type MarkMessagesRead struct{ ConversationID string }

// AddPartner appends a partner whose id was assigned by the backend.
type AddPartner struct{ Partner partner.Partner }

type RemovePartner struct{ ID string }

type MarkNotificationRead struct{ ID string }

type MarkAllNotificationsRead struct{}

// WalletUpdated records a confirmed wallet movement.
type WalletUpdated struct {
	Balance     decimal.Decimal
	Transaction *wallet.Transaction
}

func (HydratePartners) Name() string          { return "hydrate_partners" }
func (HydrateRequests) Name() string          { return "hydrate_requests" }
func (HydrateBalance) Name() string           { return "hydrate_balance" }
func (HydrateTransactions) Name() string      { return "hydrate_transactions" }
func (HydrateConversations) Name() string     { return "hydrate_conversations" }
func (HydrateNotifications) Name() string     { return "hydrate_notifications" }
func (HydrateFeed) Name() string              { return "hydrate_feed" }
func (HydrateMessages) Name() string          { return "hydrate_messages" }
func (SubmitRequest) Name() string            { return "submit_request" }
func (ReviewRequest) Name() string            { return "review_request" }
func (SendMessage) Name() string              { return "send_message" }
func (MarkMessagesRead) Name() string         { return "mark_messages_read" }
func (AddPartner) Name() string               { return "add_partner" }
func (RemovePartner) Name() string            { return "remove_partner" }
func (MarkNotificationRead) Name() string     { return "mark_notification_read" }
func (MarkAllNotificationsRead) Name() string { return "mark_all_notifications_read" }
func (WalletUpdated) Name() string            { return "wallet_updated" }
