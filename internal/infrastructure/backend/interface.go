package backend

import (
	"context"

	"github.com/shopspring/decimal"

	"spendpal/internal/domain/feed"
	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/domain/user"
	"spendpal/internal/domain/wallet"
)

// ClientInterface defines the backend calls the session layer depends on
type ClientInterface interface {
	CheckUsername(ctx context.Context, username string) (bool, error)
	SignUp(ctx context.Context, p user.RegisterParams) (*AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*AuthResponse, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*SessionResponse, error)

	GetProfile(ctx context.Context) (*user.Profile, error)
	UpdateProfile(ctx context.Context, p user.UpdateProfileParams) (*user.Profile, error)

	GetBalance(ctx context.Context) (decimal.Decimal, error)
	AddFunds(ctx context.Context, amount decimal.Decimal) (*WalletResponse, error)
	Withdraw(ctx context.Context, p wallet.WithdrawParams) (*WalletResponse, error)
	ListTransactions(ctx context.Context) ([]wallet.Transaction, error)

	CreateRequest(ctx context.Context, p request.SubmitParams) (*request.Request, error)
	ListMyRequests(ctx context.Context) ([]request.Request, error)
	ListRequestsToApprove(ctx context.Context) ([]request.Request, error)
	UpdateRequestStatus(ctx context.Context, id string, status request.Status, notes string) (*request.Request, error)

	ListPartners(ctx context.Context) ([]partner.Partner, error)
	AddPartner(ctx context.Context, p partner.AddParams) (*partner.Partner, error)
	RemovePartner(ctx context.Context, id string) error
	SearchUsers(ctx context.Context, query string) ([]UserMatch, error)
	CheckRegisteredUsers(ctx context.Context, emails []string) ([]string, error)
	InvitePartner(ctx context.Context, inv partner.Invitation) error

	ListConversations(ctx context.Context) ([]messaging.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]messaging.Message, error)
	SendMessage(ctx context.Context, p messaging.SendParams) (*messaging.Message, error)
	MarkConversationRead(ctx context.Context, conversationID string) error

	ListNotifications(ctx context.Context) ([]notification.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error

	ListFeed(ctx context.Context) ([]feed.Item, error)
}
