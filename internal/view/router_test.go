package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/store"
)

var (
	mar1 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mar2 = mar1.AddDate(0, 0, 1)
)

func sampleState() store.State {
	return store.State{
		Requests: []request.Request{
			{ID: "r1", Amount: decimal.NewFromInt(40), Date: mar1, Status: request.StatusApproved, SubmittedBy: request.Self, Approvers: []string{"Sarah Chen"}},
			{ID: "r2", Amount: decimal.NewFromInt(15), Date: mar2, Status: request.StatusPending, SubmittedBy: request.Self, Approvers: []string{"Sarah Chen"}},
			{ID: "r3", Amount: decimal.NewFromInt(90), Date: mar1, Status: request.StatusPending, SubmittedBy: "Sarah Chen", Approvers: []string{request.Self}},
			{ID: "r4", Amount: decimal.NewFromInt(70), Date: mar1, Status: request.StatusRejected, SubmittedBy: "Mike Ross", Approvers: []string{request.Self}},
		},
		Partners: []partner.Partner{
			{ID: "p1", Name: "Sarah Chen", Role: partner.RoleApprover},
			{ID: "p2", Name: "Mike Ross", Role: partner.RoleViewer},
		},
		Balance: decimal.RequireFromString("12.34"),
		Conversations: []messaging.Conversation{
			{ID: "c1", Participant: "Sarah Chen", UnreadCount: 2, Timestamp: mar1},
			{ID: "c2", Participant: "Mike Ross", UnreadCount: 1, Timestamp: mar2},
		},
		Messages: []messaging.Message{
			{ID: "m1", ConversationID: "c1"},
			{ID: "m2", ConversationID: "c2"},
			{ID: "m3", ConversationID: "c1"},
		},
		Notifications: []notification.Notification{{ID: "n1"}, {ID: "n2", Read: true}},
	}
}

func TestRoute_UnauthenticatedAlwaysLogin(t *testing.T) {
	for screen := range screens {
		v := Route(UIState{Screen: screen}, false, sampleState())
		assert.Equal(t, ScreenLogin, v.Screen, "requested %s", screen)
		assert.Equal(t, LoginView{}, v.Data)
	}
}

func TestRoute_FallsBackToDashboard(t *testing.T) {
	for _, screen := range []Screen{"", "settings", ScreenLogin} {
		v := Route(UIState{Screen: screen}, true, sampleState())
		assert.Equal(t, ScreenDashboard, v.Screen)
	}
}

func TestRoute_Badges(t *testing.T) {
	v := Route(UIState{Screen: ScreenPartners}, true, sampleState())
	assert.Equal(t, Badges{PendingApprovals: 1, UnreadMessages: 3, UnreadNotifications: 1}, v.Badges)
}

func TestRoute_Dashboard(t *testing.T) {
	v := Route(UIState{Screen: ScreenDashboard}, true, sampleState())
	d, ok := v.Data.(DashboardView)
	require.True(t, ok)
	assert.True(t, d.AccessibleFunds.Equal(decimal.NewFromInt(40)))
	assert.True(t, d.Balance.Equal(decimal.RequireFromString("12.34")))
	assert.Equal(t, 1, d.PendingRequests)
	assert.Len(t, d.RecentRequests, 2)
	assert.NotNil(t, d.RecentActivity)
}

func TestRoute_NewRequestOffersApproversOnly(t *testing.T) {
	v := Route(UIState{Screen: ScreenNewRequest}, true, sampleState())
	d := v.Data.(NewRequestView)
	require.Len(t, d.Approvers, 1)
	assert.Equal(t, "p1", d.Approvers[0].ID)
	assert.Equal(t, request.Categories, d.Categories)
}

func TestRoute_History(t *testing.T) {
	v := Route(UIState{Screen: ScreenHistory}, true, sampleState())
	h := v.Data.(HistoryView)
	require.Len(t, h.Requests, 2)
	assert.Equal(t, "r2", h.Requests[0].ID, "newest first")
	assert.True(t, h.Total.Equal(decimal.NewFromInt(55)))

	v = Route(UIState{Screen: ScreenHistory, StatusFilter: request.StatusApproved}, true, sampleState())
	h = v.Data.(HistoryView)
	require.Len(t, h.Requests, 1)
	assert.Equal(t, "r1", h.Requests[0].ID)

	v = Route(UIState{Screen: ScreenHistory, StatusFilter: "bogus"}, true, sampleState())
	assert.Empty(t, v.Data.(HistoryView).Filter)
}

func TestRoute_Approvals(t *testing.T) {
	v := Route(UIState{Screen: ScreenApprovals}, true, sampleState())
	a := v.Data.(ApprovalsView)
	require.Len(t, a.Pending, 1)
	assert.Equal(t, "r3", a.Pending[0].ID)
}

func TestRoute_Messages(t *testing.T) {
	snap := sampleState()
	v := Route(UIState{Screen: ScreenMessages}, true, snap)
	m := v.Data.(MessagesView)
	assert.Equal(t, 3, m.TotalUnread)
	assert.Equal(t, "c2", m.Conversations[0].ID, "most recent first")
	assert.Equal(t, "c1", snap.Conversations[0].ID, "snapshot order untouched")
}

func TestRoute_Chat(t *testing.T) {
	v := Route(UIState{Screen: ScreenChat, ConversationID: "c1"}, true, sampleState())
	require.Equal(t, ScreenChat, v.Screen)
	c := v.Data.(ChatView)
	assert.Equal(t, "Sarah Chen", c.Conversation.Participant)
	assert.Len(t, c.Messages, 2)

	v = Route(UIState{Screen: ScreenChat, ConversationID: "nope"}, true, sampleState())
	assert.Equal(t, ScreenMessages, v.Screen)
}

func TestRoute_WalletAndNotifications(t *testing.T) {
	w := Route(UIState{Screen: ScreenWallet}, true, store.State{}).Data.(WalletView)
	assert.NotNil(t, w.Transactions)
	assert.True(t, w.Balance.IsZero())

	n := Route(UIState{Screen: ScreenNotifications}, true, sampleState()).Data.(NotificationsView)
	assert.Len(t, n.Notifications, 2)
	assert.Equal(t, 1, n.UnreadCount)
}

func TestParseScreen(t *testing.T) {
	s, ok := ParseScreen("new-request")
	assert.True(t, ok)
	assert.Equal(t, ScreenNewRequest, s)

	_, ok = ParseScreen("settings")
	assert.False(t, ok)
	assert.Len(t, screens, 10)
}
