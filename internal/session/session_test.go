package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendpal/internal/domain/feed"
	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/domain/user"
	"spendpal/internal/domain/wallet"
	"spendpal/internal/infrastructure/backend"
	"spendpal/internal/infrastructure/backend/backendtest"
	"spendpal/internal/infrastructure/tokenstore"
	"spendpal/internal/shared/auth"
	"spendpal/internal/view"
)

const (
	testEmail    = "sam@example.com"
	testPassword = "correct-horse"
)

var day = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

const (
	testWait = time.Second
	testTick = 5 * time.Millisecond
)

func seed(srv *backendtest.Server) {
	profile := user.Profile{ID: "u1", Email: testEmail, Name: "Sam Rivera", Username: "sam"}
	srv.Accounts[testEmail] = backendtest.Account{Password: testPassword, Profile: profile}
	srv.Profile = profile
	srv.Balance = decimal.RequireFromString("120.50")
	srv.Transactions = []wallet.Transaction{{ID: "t1", Type: wallet.TypeDeposit, Amount: decimal.RequireFromString("120.50"), Timestamp: day}}
	srv.Partners = []partner.Partner{
		{ID: "p1", Name: "Sarah Chen", Email: "sarah@example.com", Avatar: "SC", Role: partner.RoleApprover},
		{ID: "p2", Name: "Mike Ross", Email: "mike@example.com", Avatar: "MR", Role: partner.RoleViewer},
	}
	srv.Mine = []request.Request{
		{ID: "r1", Amount: decimal.NewFromInt(40), Description: "Concert", Category: "Entertainment", Date: day, Status: request.StatusApproved, SubmittedBy: "Sam Rivera", Approvers: []string{"Sarah Chen"}, ApprovedBy: []string{"Sarah Chen"}},
		{ID: "r2", Amount: decimal.NewFromInt(15), Description: "Lunch", Category: "Food & Dining", Date: day, Status: request.StatusPending, SubmittedBy: "Sam Rivera", Approvers: []string{"Sarah Chen"}},
	}
	srv.ToApprove = []request.Request{
		{ID: "r3", Amount: decimal.NewFromInt(90), Description: "Sneakers", Category: "Shopping", Date: day, Status: request.StatusPending, SubmittedBy: "Sarah Chen", Approvers: []string{"Sam Rivera"}},
		{ID: "r2", Amount: decimal.NewFromInt(15), Description: "Lunch", Category: "Food & Dining", Date: day, Status: request.StatusPending, SubmittedBy: "Sam Rivera", Approvers: []string{"Sarah Chen"}},
	}
	srv.Conversations = []messaging.Conversation{{ID: "c1", Participant: "Sarah Chen", LastMessage: "See you", UnreadCount: 2, Avatar: "SC"}}
	srv.Messages["c1"] = []messaging.Message{
		{ID: "m1", ConversationID: "c1", Sender: "Sarah Chen", Recipient: request.Self, Text: "Hi", Timestamp: day},
		{ID: "m2", ConversationID: "c1", Sender: "Sarah Chen", Recipient: request.Self, Text: "See you", Timestamp: day},
	}
	srv.Notifications = []notification.Notification{{ID: "n1", Type: notification.TypeApprovalRequest, Title: "Approval needed", Timestamp: day}}
	srv.Feed = []feed.Item{{ID: "f1", Type: feed.TypeSubmitted, RequestID: "r1", User: request.Self, Timestamp: day}}
}

func newBackend(t *testing.T) *backendtest.Server {
	t.Helper()
	srv := backendtest.New("session-token")
	seed(srv)
	t.Cleanup(srv.Close)
	return srv
}

func newSession(srv *backendtest.Server, token string, opts ...Option) (*Session, *tokenstore.Memory) {
	tokens := tokenstore.NewMemory(token)
	return New(backend.NewClient(srv.URL, tokens), tokens, opts...), tokens
}

// signedIn returns a session that has logged in and finished its initial load.
func signedIn(t *testing.T) (*Session, *backendtest.Server) {
	t.Helper()
	srv := newBackend(t)
	s, _ := newSession(srv, "")
	require.NoError(t, s.Login(context.Background(), testEmail, testPassword))
	s.Wait()
	return s, srv
}

func TestBootstrap_NoToken(t *testing.T) {
	srv := newBackend(t)
	s, _ := newSession(srv, "")

	require.NoError(t, s.Bootstrap(context.Background()))
	assert.False(t, s.Authenticated())
	assert.Zero(t, srv.Calls(backendtest.RouteProfile))
}

func TestBootstrap_RestoresSessionAndLoads(t *testing.T) {
	srv := newBackend(t)
	s, _ := newSession(srv, "session-token")

	require.NoError(t, s.Bootstrap(context.Background()))
	s.Wait()

	info := s.Info()
	assert.Equal(t, StatusAuthenticated, info.Status)
	assert.Equal(t, "Sam Rivera", info.Profile.Name)
	assert.Equal(t, testEmail, info.Profile.Email)
	assert.Equal(t, 1, srv.Calls(backendtest.RouteSession))

	snap := s.Snapshot()
	assert.Len(t, snap.Partners, 2)
	assert.Len(t, snap.Requests, 3, "mine and to-approve merged without duplicates")
	assert.True(t, snap.Balance.Equal(decimal.RequireFromString("120.50")))
	assert.Len(t, snap.Transactions, 1)
	assert.Len(t, snap.Conversations, 1)
	assert.Len(t, snap.Notifications, 1)
	assert.Len(t, snap.Feed, 1)
	assert.Empty(t, snap.Messages, "messages load per conversation")

	r1, ok := snap.FindRequest("r1")
	require.True(t, ok)
	assert.Equal(t, request.Self, r1.SubmittedBy)
	assert.True(t, snap.AccessibleFunds().Equal(decimal.NewFromInt(40)))
}

func TestLogin_SingleWorkerLoadsEverything(t *testing.T) {
	srv := newBackend(t)
	s, _ := newSession(srv, "", WithLoader(1, time.Second))

	require.NoError(t, s.Login(context.Background(), testEmail, testPassword))
	s.Wait()

	snap := s.Snapshot()
	assert.Len(t, snap.Partners, 2)
	assert.Len(t, snap.Requests, 3)
	assert.Len(t, snap.Feed, 1)
}

func TestBootstrap_ExpiredTokenSkipsNetwork(t *testing.T) {
	srv := newBackend(t)
	token, err := auth.GenerateToken("secret", "u1", testEmail, time.Hour)
	require.NoError(t, err)

	later := func() time.Time { return time.Now().Add(2 * time.Hour) }
	s, tokens := newSession(srv, token, WithClock(later))

	err = s.Bootstrap(context.Background())
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
	assert.False(t, s.Authenticated())
	assert.Zero(t, srv.Calls(backendtest.RouteProfile))
	stored, _ := tokens.Token()
	assert.Empty(t, stored)
}

func TestBootstrap_InvalidSessionSkipsProfile(t *testing.T) {
	srv := newBackend(t)
	s, tokens := newSession(srv, "revoked-token")

	err := s.Bootstrap(context.Background())
	require.Error(t, err)
	assert.True(t, backend.IsStatus(err, http.StatusUnauthorized))
	assert.False(t, s.Authenticated())
	assert.Equal(t, 1, srv.Calls(backendtest.RouteSession))
	assert.Zero(t, srv.Calls(backendtest.RouteProfile))
	stored, _ := tokens.Token()
	assert.Empty(t, stored)
}

func TestBootstrap_ProfileFailureSignsOut(t *testing.T) {
	srv := newBackend(t)
	srv.Fail(backendtest.RouteProfile, http.StatusInternalServerError)
	s, tokens := newSession(srv, "session-token")

	err := s.Bootstrap(context.Background())
	require.Error(t, err)
	assert.False(t, s.Authenticated())
	assert.Equal(t, 1, srv.Calls(backendtest.RouteProfile), "no retries")
	assert.Equal(t, 1, srv.Calls(backendtest.RouteSignOut))
	stored, _ := tokens.Token()
	assert.Empty(t, stored)
}

func TestLoader_FailedFetchLeavesOnlyItsCollectionEmpty(t *testing.T) {
	srv := newBackend(t)
	srv.Fail(backendtest.RouteFeed, http.StatusInternalServerError)
	srv.Drop(backendtest.RouteToApprove)
	s, _ := newSession(srv, "")

	require.NoError(t, s.Login(context.Background(), testEmail, testPassword))
	s.Wait()

	snap := s.Snapshot()
	assert.Empty(t, snap.Feed)
	assert.Empty(t, snap.Requests, "requests need both lists")
	assert.Len(t, snap.Partners, 2)
	assert.Len(t, snap.Conversations, 1)
	assert.Equal(t, 1, srv.Calls(backendtest.RouteFeed), "no retries")
}

func TestLoader_RunsOncePerAuthentication(t *testing.T) {
	s, srv := signedIn(t)
	assert.ErrorIs(t, s.Login(context.Background(), testEmail, testPassword), ErrAlreadyAuthenticated)
	s.Wait()
	assert.Equal(t, 1, srv.Calls(backendtest.RoutePartners))
}

func TestLogout_DiscardsInFlightLoad(t *testing.T) {
	srv := newBackend(t)
	release := srv.Hold(backendtest.RoutePartners)
	defer release()
	s, tokens := newSession(srv, "")

	require.NoError(t, s.Login(context.Background(), testEmail, testPassword))
	genAtLogin := s.Info().Generation

	assertCalled(t, srv, backendtest.RoutePartners)
	require.NoError(t, s.Logout(context.Background()))
	release()
	s.Wait()

	assert.False(t, s.Authenticated())
	assert.Greater(t, s.Info().Generation, genAtLogin)
	assert.Empty(t, s.Snapshot().Partners)
	assert.Empty(t, s.Snapshot().Requests)
	stored, _ := tokens.Token()
	assert.Empty(t, stored)
	assert.Equal(t, 1, srv.Calls(backendtest.RouteSignOut))
}

func TestClose_CancelsInFlightLoad(t *testing.T) {
	srv := newBackend(t)
	release := srv.Hold(backendtest.RouteFeed)
	defer release()
	s, tokens := newSession(srv, "")

	require.NoError(t, s.Login(context.Background(), testEmail, testPassword))
	assertCalled(t, srv, backendtest.RouteFeed)

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(testWait):
		t.Fatal("Close did not return while the feed was still held")
	}

	assert.True(t, s.Authenticated(), "closing keeps the session")
	assert.Empty(t, s.Snapshot().Feed)
	stored, _ := tokens.Token()
	assert.NotEmpty(t, stored)
	assert.Zero(t, srv.Calls(backendtest.RouteSignOut))
}

func TestLogin_Errors(t *testing.T) {
	srv := newBackend(t)
	s, _ := newSession(srv, "")

	err := s.Login(context.Background(), testEmail, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password. Please try again.", UserMessage(err))
	assert.False(t, s.Authenticated())

	srv.Close()
	err = s.Login(context.Background(), testEmail, testPassword)
	assert.ErrorIs(t, err, ErrBackendUnreachable)
	assert.Contains(t, UserMessage(err), "continue without the backend")
}

func TestRegister(t *testing.T) {
	srv := newBackend(t)
	s, tokens := newSession(srv, "")
	ctx := context.Background()

	err := s.Register(ctx, user.RegisterParams{Email: "new@example.com", Password: "short", Name: "New", Username: "newbie"})
	assert.ErrorIs(t, err, user.ErrPasswordTooShort)

	err = s.Register(ctx, user.RegisterParams{Email: "new@example.com", Password: "long-enough", Name: "New", Username: "sam"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Zero(t, srv.Calls(backendtest.RouteSignUp), "username is checked first")

	err = s.Register(ctx, user.RegisterParams{Email: testEmail, Password: "long-enough", Name: "Dup", Username: "dup_user"})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	require.NoError(t, s.Register(ctx, user.RegisterParams{Email: " new@example.com ", Password: "long-enough", Name: "New", Username: "newbie"}))
	s.Wait()
	assert.Equal(t, StatusAuthenticated, s.Info().Status)
	assert.Equal(t, "new@example.com", s.Info().Profile.Email)
	stored, _ := tokens.Token()
	assert.Equal(t, "session-token", stored)
}

func TestContinueOffline(t *testing.T) {
	s := New(nil, nil)
	ctx := context.Background()

	require.NoError(t, s.Bootstrap(ctx))
	require.NoError(t, s.ContinueOffline("", ""))
	assert.Equal(t, StatusOffline, s.Info().Status)
	assert.Equal(t, "Guest", s.Info().Profile.Name)
	assert.ErrorIs(t, s.ContinueOffline("Again", ""), ErrAlreadyAuthenticated)

	r, err := s.SubmitRequest(ctx, request.SubmitParams{
		Amount: decimal.NewFromInt(250), Description: "Office supplies", Category: "Shopping", Date: day, Approvers: []string{"Sarah Chen"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, request.StatusPending, r.Status)

	p, err := s.AddPartner(ctx, partner.AddParams{Name: "Sarah Chen", Email: "sarah@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	require.NoError(t, s.RemovePartner(ctx, p.ID))

	_, err = s.AddFunds(ctx, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrRequiresBackend)
	_, err = s.SearchPartners(ctx, "sarah")
	assert.ErrorIs(t, err, ErrRequiresBackend)

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Snapshot().Requests)
}

func TestActions_RequireSession(t *testing.T) {
	s := New(nil, nil)
	ctx := context.Background()

	_, err := s.SubmitRequest(ctx, request.SubmitParams{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, s.RemovePartner(ctx, "p1"), ErrNotAuthenticated)
	assert.ErrorIs(t, s.MarkAllNotificationsRead(ctx), ErrNotAuthenticated)
	assert.ErrorIs(t, s.Login(ctx, testEmail, testPassword), ErrBackendUnreachable)
}

func TestMergeRequests(t *testing.T) {
	mine := []request.Request{{ID: "a", SubmittedBy: "Sam"}, {ID: "b", SubmittedBy: "Sam"}}
	toApprove := []request.Request{{ID: "c", SubmittedBy: "Sarah"}, {ID: "a", SubmittedBy: "Sam"}}

	got := mergeRequests(mine, toApprove)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, request.Self, got[0].SubmittedBy)
	assert.Equal(t, "Sarah", got[2].SubmittedBy)
	assert.Equal(t, "Sam", mine[0].SubmittedBy, "inputs are not mutated")
	assert.True(t, got[2].HasApprover(request.Self))
	assert.False(t, got[1].HasApprover(request.Self), "own requests keep their approvers")
}

func TestMergeRequests_ToApproveListsSelf(t *testing.T) {
	toApprove := []request.Request{
		{ID: "c", SubmittedBy: "Sarah", Approvers: []string{"Sam Rivera"}},
		{ID: "d", SubmittedBy: "Mike", Approvers: []string{request.Self}},
	}

	got := mergeRequests(nil, toApprove)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"Sam Rivera", request.Self}, got[0].Approvers)
	assert.Equal(t, []string{request.Self}, got[1].Approvers, "no duplicate Self")
	assert.Equal(t, []string{"Sam Rivera"}, toApprove[0].Approvers, "inputs are not mutated")
}

func TestLogin_ToApproveRequestsAwaitSelf(t *testing.T) {
	s, _ := signedIn(t)

	pending := view.PendingApprovals(s.Snapshot())
	require.Len(t, pending, 1)
	assert.Equal(t, "r3", pending[0].ID)

	v := view.Route(view.UIState{Screen: view.ScreenApprovals}, true, s.Snapshot())
	assert.Equal(t, 1, v.Badges.PendingApprovals)
}

func TestClassifyAuthError(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		op   authOp
		err  error
		want error
	}{
		{name: "sign-in unauthorized", op: opSignIn, err: &backend.APIError{StatusCode: 401, Message: "nope"}, want: ErrInvalidCredentials},
		{name: "sign-in invalid login message", op: opSignIn, err: &backend.APIError{StatusCode: 422, Message: "Invalid login credentials"}, want: ErrInvalidCredentials},
		{name: "sign-up conflict", op: opSignUp, err: &backend.APIError{StatusCode: 409, Message: "exists"}, want: ErrDuplicateRegistration},
		{name: "sign-up already registered message", op: opSignUp, err: &backend.APIError{StatusCode: 400, Message: "User already registered"}, want: ErrDuplicateRegistration},
		{name: "server error", op: opSignIn, err: &backend.APIError{StatusCode: 503, Message: "down"}, want: ErrBackendUnreachable},
		{name: "transport error", op: opSignUp, err: assert.AnError, want: ErrBackendUnreachable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyAuthError(ctx, tt.op, tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err, "original error stays in the chain")
		})
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Equal(t, context.Canceled, classifyAuthError(cancelled, opSignIn, context.Canceled))
}
