package view

import (
	"sort"

	"github.com/shopspring/decimal"

	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/store"
)

// Screen identifies one of the client's screens
type Screen string

const (
	ScreenLogin         Screen = "login"
	ScreenDashboard     Screen = "dashboard"
	ScreenNewRequest    Screen = "new-request"
	ScreenHistory       Screen = "history"
	ScreenApprovals     Screen = "approvals"
	ScreenPartners      Screen = "partners"
	ScreenWallet        Screen = "wallet"
	ScreenMessages      Screen = "messages"
	ScreenChat          Screen = "chat"
	ScreenNotifications Screen = "notifications"
)

var screens = map[Screen]struct{}{
	ScreenLogin:         {},
	ScreenDashboard:     {},
	ScreenNewRequest:    {},
	ScreenHistory:       {},
	ScreenApprovals:     {},
	ScreenPartners:      {},
	ScreenWallet:        {},
	ScreenMessages:      {},
	ScreenChat:          {},
	ScreenNotifications: {},
}

const (
	recentRequests = 5
	recentActivity = 10
)

// ParseScreen validates a screen name.
func ParseScreen(name string) (Screen, bool) {
	s := Screen(name)
	_, ok := screens[s]
	return s, ok
}

// UIState is the navigation state of the client
type UIState struct {
	Screen Screen
	// ConversationID selects the thread shown on the chat screen
	ConversationID string
	// StatusFilter narrows the history screen
	StatusFilter request.Status
}

// View is one screen with the slice of the store it renders
type View struct {
	Screen Screen `json:"screen"`
	Badges Badges `json:"badges"`
	Data   any    `json:"data"`
}

// Route picks the screen for ui and projects snap onto it. Unauthenticated
// clients always get the login screen; unknown screens fall back to the
// dashboard and a chat without a known conversation falls back to messages.
func Route(ui UIState, authenticated bool, snap store.State) View {
	if !authenticated {
		return View{Screen: ScreenLogin, Data: LoginView{}}
	}

	screen := ui.Screen
	if _, ok := screens[screen]; !ok || screen == ScreenLogin {
		screen = ScreenDashboard
	}

	v := View{Screen: screen, Badges: badges(snap)}
	switch screen {
	case ScreenDashboard:
		v.Data = dashboard(snap)
	case ScreenNewRequest:
		v.Data = NewRequestView{
			Categories:      request.Categories,
			Approvers:       approvers(snap.Partners),
			AccessibleFunds: snap.AccessibleFunds(),
		}
	case ScreenHistory:
		v.Data = history(snap, ui.StatusFilter)
	case ScreenApprovals:
		v.Data = ApprovalsView{Pending: PendingApprovals(snap)}
	case ScreenPartners:
		v.Data = PartnersView{Partners: nonNil(snap.Partners)}
	case ScreenWallet:
		v.Data = WalletView{
			Balance:         snap.Balance,
			AccessibleFunds: snap.AccessibleFunds(),
			Transactions:    nonNil(snap.Transactions),
		}
	case ScreenMessages:
		v.Data = messagesView(snap)
	case ScreenChat:
		conv, ok := messaging.Find(snap.Conversations, ui.ConversationID)
		if !ok {
			v.Screen = ScreenMessages
			v.Data = messagesView(snap)
			break
		}
		v.Data = ChatView{Conversation: conv, Messages: nonNil(messaging.Thread(snap.Messages, conv.ID))}
	case ScreenNotifications:
		v.Data = NotificationsView{
			Notifications: nonNil(snap.Notifications),
			UnreadCount:   snap.UnreadNotificationsCount(),
		}
	}
	return v
}

// PendingApprovals returns pending requests where the current user is an
// approver and not the submitter.
func PendingApprovals(snap store.State) []request.Request {
	out := []request.Request{}
	for _, r := range snap.Requests {
		if r.Status == request.StatusPending && r.HasApprover(request.Self) && !r.IsSelfSubmitted() {
			out = append(out, r)
		}
	}
	return out
}

func badges(snap store.State) Badges {
	return Badges{
		PendingApprovals:    len(PendingApprovals(snap)),
		UnreadMessages:      snap.TotalUnreadMessages(),
		UnreadNotifications: snap.UnreadNotificationsCount(),
	}
}

func dashboard(snap store.State) DashboardView {
	own := ownRequests(snap, "")
	pending := 0
	for _, r := range own {
		if r.Status == request.StatusPending {
			pending++
		}
	}
	return DashboardView{
		AccessibleFunds: snap.AccessibleFunds(),
		Balance:         snap.Balance,
		PendingRequests: pending,
		RecentRequests:  head(own, recentRequests),
		RecentActivity:  head(nonNil(snap.Feed), recentActivity),
	}
}

func history(snap store.State, filter request.Status) HistoryView {
	if !request.IsValidStatus(filter) {
		filter = ""
	}
	own := ownRequests(snap, filter)
	sort.SliceStable(own, func(i, j int) bool { return own[i].Date.After(own[j].Date) })
	total := decimal.Zero
	for _, r := range own {
		total = total.Add(r.Amount)
	}
	return HistoryView{Filter: filter, Requests: own, Total: total}
}

func messagesView(snap store.State) MessagesView {
	convs := append([]messaging.Conversation{}, snap.Conversations...)
	sort.SliceStable(convs, func(i, j int) bool { return convs[i].Timestamp.After(convs[j].Timestamp) })
	return MessagesView{Conversations: convs, TotalUnread: snap.TotalUnreadMessages()}
}

// ownRequests returns the current user's requests, optionally by status.
func ownRequests(snap store.State, status request.Status) []request.Request {
	out := []request.Request{}
	for _, r := range snap.Requests {
		if !r.IsSelfSubmitted() {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	return out
}

func approvers(partners []partner.Partner) []partner.Partner {
	out := []partner.Partner{}
	for _, p := range partners {
		if p.CanApprove() {
			out = append(out, p)
		}
	}
	return out
}

func head[T any](list []T, n int) []T {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
