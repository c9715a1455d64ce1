package view

import (
	"github.com/shopspring/decimal"

	"spendpal/internal/domain/feed"
	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/domain/wallet"
)

// Badges are the counters shown in navigation on every screen
type Badges struct {
	PendingApprovals    int `json:"pendingApprovals"`
	UnreadMessages      int `json:"unreadMessages"`
	UnreadNotifications int `json:"unreadNotifications"`
}

type LoginView struct{}

type DashboardView struct {
	AccessibleFunds decimal.Decimal   `json:"accessibleFunds"`
	Balance         decimal.Decimal   `json:"balance"`
	PendingRequests int               `json:"pendingRequests"`
	RecentRequests  []request.Request `json:"recentRequests"`
	RecentActivity  []feed.Item       `json:"recentActivity"`
}

type NewRequestView struct {
	Categories      []string          `json:"categories"`
	Approvers       []partner.Partner `json:"approvers"`
	AccessibleFunds decimal.Decimal   `json:"accessibleFunds"`
}

type HistoryView struct {
	Filter   request.Status    `json:"filter,omitempty"`
	Requests []request.Request `json:"requests"`
	Total    decimal.Decimal   `json:"total"`
}

type ApprovalsView struct {
	Pending []request.Request `json:"pending"`
}

type PartnersView struct {
	Partners []partner.Partner `json:"partners"`
}

type WalletView struct {
	Balance         decimal.Decimal      `json:"balance"`
	AccessibleFunds decimal.Decimal      `json:"accessibleFunds"`
	Transactions    []wallet.Transaction `json:"transactions"`
}

type MessagesView struct {
	Conversations []messaging.Conversation `json:"conversations"`
	TotalUnread   int                      `json:"totalUnread"`
}

type ChatView struct {
	Conversation messaging.Conversation `json:"conversation"`
	Messages     []messaging.Message    `json:"messages"`
}

type NotificationsView struct {
	Notifications []notification.Notification `json:"notifications"`
	UnreadCount   int                         `json:"unreadCount"`
}
