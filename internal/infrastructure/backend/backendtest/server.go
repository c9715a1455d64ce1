// Package backendtest provides an in-memory backend for session and client tests.
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"spendpal/internal/domain/feed"
	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/domain/user"
	"spendpal/internal/domain/wallet"
)

// Route names accepted by Fail, Drop, Respond and Calls.
const (
	RouteCheckUsername     = "auth.check-username"
	RouteSignUp            = "auth.signup"
	RouteSignIn            = "auth.signin"
	RouteSignOut           = "auth.signout"
	RouteSession           = "auth.session"
	RouteProfile           = "profile.get"
	RouteUpdateProfile     = "profile.update"
	RouteBalance           = "wallet.balance"
	RouteAddFunds          = "wallet.add-funds"
	RouteWithdraw          = "wallet.withdraw"
	RouteTransactions      = "wallet.transactions"
	RouteCreateRequest     = "requests.create"
	RouteMyRequests        = "requests.mine"
	RouteToApprove         = "requests.to-approve"
	RouteRequestStatus     = "requests.status"
	RoutePartners          = "partners.list"
	RouteAddPartner        = "partners.add"
	RouteRemovePartner     = "partners.remove"
	RouteSearchPartners    = "partners.search"
	RouteCheckUsers        = "partners.check-users"
	RouteInvite            = "partners.invite"
	RouteConversations     = "messages.conversations"
	RouteMessages          = "messages.list"
	RouteSendMessage       = "messages.send"
	RouteConversationRead  = "messages.read"
	RouteNotifications     = "notifications.list"
	RouteNotificationRead  = "notifications.read"
	RouteNotificationsRead = "notifications.read-all"
	RouteFeed              = "feed.list"
)

const instantWithdrawFeeRatio = "0.015"

// Account is a registered user of the fake backend
type Account struct {
	Password string
	Profile  user.Profile
}

// Server is a backend double. Tests seed the exported fields before use and
// must hold no references into them while requests are in flight.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	failures map[string]int
	calls    map[string]int
	holds    map[string]chan struct{}
	canned   map[string]cannedReply

	Accounts      map[string]Account
	Profile       user.Profile
	Balance       decimal.Decimal
	Transactions  []wallet.Transaction
	Mine          []request.Request
	ToApprove     []request.Request
	Partners      []partner.Partner
	Registered    []string
	Invitations   []partner.Invitation
	Conversations []messaging.Conversation
	Messages      map[string][]messaging.Message
	Notifications []notification.Notification
	Feed          []feed.Item
}

// New starts a fake backend that accepts token as the only valid session.
func New(token string) *Server {
	s := &Server{
		token:    token,
		failures: make(map[string]int),
		calls:    make(map[string]int),
		holds:    make(map[string]chan struct{}),
		canned:   make(map[string]cannedReply),
		Accounts: make(map[string]Account),
		Messages: make(map[string][]messaging.Message),
		Balance:  decimal.Zero,
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/auth/check-username", s.checkUsername).Methods(http.MethodPost).Name(RouteCheckUsername)
	r.HandleFunc("/auth/signup", s.signUp).Methods(http.MethodPost).Name(RouteSignUp)
	r.HandleFunc("/auth/signin", s.signIn).Methods(http.MethodPost).Name(RouteSignIn)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.requireToken)
	authed.HandleFunc("/auth/signout", s.ok).Methods(http.MethodPost).Name(RouteSignOut)
	authed.HandleFunc("/auth/session", s.session).Methods(http.MethodGet).Name(RouteSession)
	authed.HandleFunc("/profile", s.profile).Methods(http.MethodGet).Name(RouteProfile)
	authed.HandleFunc("/profile", s.updateProfile).Methods(http.MethodPut).Name(RouteUpdateProfile)

	authed.HandleFunc("/wallet/balance", s.balance).Methods(http.MethodGet).Name(RouteBalance)
	authed.HandleFunc("/wallet/add-funds", s.addFunds).Methods(http.MethodPost).Name(RouteAddFunds)
	authed.HandleFunc("/wallet/withdraw", s.withdraw).Methods(http.MethodPost).Name(RouteWithdraw)
	authed.HandleFunc("/wallet/transactions", s.transactions).Methods(http.MethodGet).Name(RouteTransactions)

	authed.HandleFunc("/requests", s.createRequest).Methods(http.MethodPost).Name(RouteCreateRequest)
	authed.HandleFunc("/requests/mine", s.myRequests).Methods(http.MethodGet).Name(RouteMyRequests)
	authed.HandleFunc("/requests/to-approve", s.toApprove).Methods(http.MethodGet).Name(RouteToApprove)
	authed.HandleFunc("/requests/{id}/status", s.requestStatus).Methods(http.MethodPut).Name(RouteRequestStatus)

	authed.HandleFunc("/partners/search", s.searchPartners).Methods(http.MethodGet).Name(RouteSearchPartners)
	authed.HandleFunc("/partners/check-users", s.checkUsers).Methods(http.MethodPost).Name(RouteCheckUsers)
	authed.HandleFunc("/partners/invite", s.invite).Methods(http.MethodPost).Name(RouteInvite)
	authed.HandleFunc("/partners", s.partners).Methods(http.MethodGet).Name(RoutePartners)
	authed.HandleFunc("/partners", s.addPartner).Methods(http.MethodPost).Name(RouteAddPartner)
	authed.HandleFunc("/partners/{id}", s.removePartner).Methods(http.MethodDelete).Name(RouteRemovePartner)

	authed.HandleFunc("/messages/conversations", s.conversations).Methods(http.MethodGet).Name(RouteConversations)
	authed.HandleFunc("/messages/conversations/{id}", s.messages).Methods(http.MethodGet).Name(RouteMessages)
	authed.HandleFunc("/messages/conversations/{id}/read", s.conversationRead).Methods(http.MethodPost).Name(RouteConversationRead)
	authed.HandleFunc("/messages", s.sendMessage).Methods(http.MethodPost).Name(RouteSendMessage)

	authed.HandleFunc("/notifications", s.notifications).Methods(http.MethodGet).Name(RouteNotifications)
	authed.HandleFunc("/notifications/read-all", s.ok).Methods(http.MethodPost).Name(RouteNotificationsRead)
	authed.HandleFunc("/notifications/{id}/read", s.ok).Methods(http.MethodPost).Name(RouteNotificationRead)

	authed.HandleFunc("/feed", s.feed).Methods(http.MethodGet).Name(RouteFeed)

	r.Use(s.intercept)
	return r
}

// Fail makes every call to route answer with status and a JSON error body.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// Drop makes every call to route close the connection without a response,
// which clients observe as a network error.
func (s *Server) Drop(route string) {
	s.Fail(route, 0)
}

type cannedReply struct {
	status int
	body   any
}

// Respond makes every call to route answer with status and body as JSON,
// skipping the route's handler and the token check.
func (s *Server) Respond(route string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[route] = cannedReply{status: status, body: body}
}

// Restore removes an injected failure or canned reply.
func (s *Server) Restore(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
	delete(s.canned, route)
}

// Hold parks requests to route until the returned release func is called
// or the client gives up.
func (s *Server) Hold(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[route] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, route)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Lock and Unlock guard the seeded fields once the server is serving.
func (s *Server) Lock()   { s.mu.Lock() }
func (s *Server) Unlock() { s.mu.Unlock() }

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		s.mu.Lock()
		s.calls[name]++
		status, failing := s.failures[name]
		hold := s.holds[name]
		reply, isCanned := s.canned[name]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		if isCanned && !failing {
			writeJSON(w, reply.status, reply.body)
			return
		}
		if !failing {
			next.ServeHTTP(w, r)
			return
		}
		if status == 0 {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					conn.Close()
					return
				}
			}
			status = http.StatusBadGateway
		}
		writeError(w, status, fmt.Sprintf("injected failure on %s", name))
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			writeError(w, http.StatusUnauthorized, "invalid session")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) ok(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) checkUsername(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	available := true
	for _, a := range s.Accounts {
		if strings.EqualFold(a.Profile.Username, body.Username) {
			available = false
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Username string `json:"username"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Accounts[body.Email]; exists {
		writeError(w, http.StatusConflict, "User already registered")
		return
	}
	profile := user.Profile{ID: uuid.NewString(), Email: body.Email, Name: body.Name, Username: body.Username}
	s.Accounts[body.Email] = Account{Password: body.Password, Profile: profile}
	s.Profile = profile
	writeJSON(w, http.StatusCreated, map[string]any{"token": s.token, "user": profile})
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.Accounts[body.Email]
	if !ok || account.Password != body.Password {
		writeError(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}
	s.Profile = account.Profile
	writeJSON(w, http.StatusOK, map[string]any{"token": s.token, "user": account.Profile})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "user": s.Profile})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Profile)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var body user.UpdateProfileParams
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if body.Name != nil {
		s.Profile.Name = *body.Name
	}
	if body.Username != nil {
		s.Profile.Username = *body.Username
	}
	if body.Avatar != nil {
		s.Profile.Avatar = *body.Avatar
	}
	writeJSON(w, http.StatusOK, s.Profile)
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"balance": s.Balance})
}

type amountBody struct {
	Amount  decimal.Decimal `json:"amount"`
	Instant bool            `json:"instant"`
}

func (s *Server) addFunds(w http.ResponseWriter, r *http.Request) {
	var body amountBody
	if !decode(w, r, &body) {
		return
	}
	if !body.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := wallet.Transaction{
		ID:          uuid.NewString(),
		Type:        wallet.TypeDeposit,
		Amount:      body.Amount,
		Description: "Added funds",
		Timestamp:   time.Now().UTC(),
	}
	s.Balance = s.Balance.Add(tx.Net())
	s.Transactions = append([]wallet.Transaction{tx}, s.Transactions...)
	writeJSON(w, http.StatusOK, map[string]any{"balance": s.Balance, "transaction": tx})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var body amountBody
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := wallet.Transaction{
		ID:          uuid.NewString(),
		Type:        wallet.TypeWithdrawal,
		Amount:      body.Amount,
		Fee:         decimal.Zero,
		Description: "Standard withdrawal",
		Timestamp:   time.Now().UTC(),
	}
	if body.Instant {
		tx.Fee = body.Amount.Mul(decimal.RequireFromString(instantWithdrawFeeRatio)).Round(2)
		tx.Description = "Instant withdrawal"
	}
	if tx.Amount.Add(tx.Fee).GreaterThan(s.Balance) {
		writeError(w, http.StatusBadRequest, "Insufficient balance")
		return
	}
	s.Balance = s.Balance.Add(tx.Net())
	s.Transactions = append([]wallet.Transaction{tx}, s.Transactions...)
	writeJSON(w, http.StatusOK, map[string]any{"balance": s.Balance, "transaction": tx})
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"transactions": s.Transactions})
}

func (s *Server) createRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Date        time.Time       `json:"date"`
		Approvers   []string        `json:"approvers"`
		Notes       string          `json:"notes"`
		ImageURL    string          `json:"imageUrl"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	created := request.Request{
		ID:          uuid.NewString(),
		Amount:      body.Amount,
		Description: body.Description,
		Category:    body.Category,
		Date:        body.Date,
		Status:      request.StatusPending,
		SubmittedBy: s.Profile.DisplayName(),
		Approvers:   body.Approvers,
		Notes:       body.Notes,
		ImageURL:    body.ImageURL,
	}
	s.Mine = append([]request.Request{created}, s.Mine...)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) myRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"requests": s.Mine})
}

func (s *Server) toApprove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"requests": s.ToApprove})
}

func (s *Server) requestStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		Status request.Status `json:"status"`
		Notes  string         `json:"notes"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, list := range [][]request.Request{s.Mine, s.ToApprove} {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			list[i].Status = body.Status
			if body.Notes != "" {
				list[i].Notes = body.Notes
			}
			writeJSON(w, http.StatusOK, list[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Request not found")
}

func (s *Server) partners(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"partners": s.Partners})
}

func (s *Server) addPartner(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string       `json:"name"`
		Email string       `json:"email"`
		Role  partner.Role `json:"role"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := partner.Partner{
		ID:     uuid.NewString(),
		Name:   body.Name,
		Email:  body.Email,
		Avatar: partner.Initials(body.Name),
		Role:   body.Role,
	}
	s.Partners = append(s.Partners, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) removePartner(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.Partners {
		if p.ID == id {
			s.Partners = append(s.Partners[:i:i], s.Partners[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Partner not found")
}

func (s *Server) searchPartners(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	s.mu.Lock()
	defer s.mu.Unlock()
	users := []map[string]string{}
	for _, a := range s.Accounts {
		p := a.Profile
		if q != "" && (strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Email), q) ||
			strings.Contains(strings.ToLower(p.Username), q)) {
			users = append(users, map[string]string{"id": p.ID, "name": p.Name, "email": p.Email, "username": p.Username})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) checkUsers(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Emails []string `json:"emails"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	registered := []string{}
	for _, e := range body.Emails {
		for _, known := range s.Registered {
			if strings.EqualFold(e, known) {
				registered = append(registered, e)
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"registered": registered})
}

func (s *Server) invite(w http.ResponseWriter, r *http.Request) {
	var inv partner.Invitation
	if !decode(w, r, &inv) {
		return
	}
	s.mu.Lock()
	s.Invitations = append(s.Invitations, inv)
	s.mu.Unlock()
	s.ok(w, r)
}

func (s *Server) conversations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"conversations": s.Conversations})
}

func (s *Server) messages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"messages": s.Messages[id]})
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ConversationID string `json:"conversationId"`
		Recipient      string `json:"recipient"`
		Text           string `json:"text"`
		RequestID      string `json:"requestId"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := messaging.Message{
		ID:             uuid.NewString(),
		ConversationID: body.ConversationID,
		Sender:         s.Profile.DisplayName(),
		Recipient:      body.Recipient,
		Text:           body.Text,
		Timestamp:      time.Now().UTC(),
		RequestID:      body.RequestID,
	}
	s.Messages[body.ConversationID] = append(s.Messages[body.ConversationID], m)
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) conversationRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	for i := range s.Conversations {
		if s.Conversations[i].ID == id {
			s.Conversations[i].UnreadCount = 0
		}
	}
	s.mu.Unlock()
	s.ok(w, r)
}

func (s *Server) notifications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"notifications": s.Notifications})
}

func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"items": s.Feed})
}
