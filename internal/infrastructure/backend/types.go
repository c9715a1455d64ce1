package backend

import (
	"time"

	"github.com/shopspring/decimal"

	"spendpal/internal/domain/feed"
	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/domain/user"
	"spendpal/internal/domain/wallet"
)

// Credentials is the sign-in payload
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest is the account creation payload
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// AuthResponse is returned by sign-in and sign-up
type AuthResponse struct {
	Token string       `json:"token"`
	User  user.Profile `json:"user"`
}

// SessionResponse describes the session the backend associates with a token
type SessionResponse struct {
	Valid     bool         `json:"valid"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	User      user.Profile `json:"user"`
}

type usernameCheck struct {
	Username  string `json:"username,omitempty"`
	Available bool   `json:"available"`
}

// WalletResponse carries the balance and, for movements, the recorded transaction
type WalletResponse struct {
	Balance     decimal.Decimal     `json:"balance"`
	Transaction *wallet.Transaction `json:"transaction,omitempty"`
}

type amountBody struct {
	Amount  decimal.Decimal `json:"amount"`
	Instant bool            `json:"instant,omitempty"`
}

type transactionsResponse struct {
	Transactions []wallet.Transaction `json:"transactions"`
}

// CreateRequestBody is the request creation payload
type CreateRequestBody struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Approvers   []string        `json:"approvers"`
	Notes       string          `json:"notes,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// NewCreateRequestBody maps submission params onto the wire payload.
func NewCreateRequestBody(p request.SubmitParams) CreateRequestBody {
	approvers := p.Approvers
	if approvers == nil {
		approvers = []string{}
	}
	return CreateRequestBody{
		Amount:      p.Amount,
		Description: p.Description,
		Category:    p.Category,
		Date:        p.Date,
		Approvers:   approvers,
		Notes:       p.Notes,
		ImageURL:    p.ImageURL,
	}
}

type statusBody struct {
	Status request.Status `json:"status"`
	Notes  string         `json:"notes,omitempty"`
}

type requestsResponse struct {
	Requests []request.Request `json:"requests"`
}

type partnerBody struct {
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Role  partner.Role `json:"role"`
}

type partnersResponse struct {
	Partners []partner.Partner `json:"partners"`
}

// UserMatch is a registered user returned by partner search
type UserMatch struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type searchResponse struct {
	Users []UserMatch `json:"users"`
}

type checkUsersBody struct {
	Emails []string `json:"emails"`
}

type checkUsersResponse struct {
	Registered []string `json:"registered"`
}

type sendMessageBody struct {
	ConversationID string `json:"conversationId"`
	Recipient      string `json:"recipient"`
	Text           string `json:"text"`
	RequestID      string `json:"requestId,omitempty"`
}

type conversationsResponse struct {
	Conversations []messaging.Conversation `json:"conversations"`
}

type messagesResponse struct {
	Messages []messaging.Message `json:"messages"`
}

type notificationsResponse struct {
	Notifications []notification.Notification `json:"notifications"`
}

type feedResponse struct {
	Items []feed.Item `json:"items"`
}
