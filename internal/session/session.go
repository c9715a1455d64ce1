package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"spendpal/internal/domain/user"
	"spendpal/internal/infrastructure/backend"
	"spendpal/internal/infrastructure/tokenstore"
	"spendpal/internal/shared/auth"
	"spendpal/internal/store"
)

// Status of the client session
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
	// StatusOffline is a session started without the backend. Mutations
	// apply to the local store only.
	StatusOffline Status = "offline"
)

// Info is a point-in-time view of the session
type Info struct {
	Status     Status       `json:"status"`
	Profile    user.Profile `json:"profile"`
	Generation uint64       `json:"generation"`
}

// Session owns the store of one signed-in user and routes every user
// intent through the backend first when one is attached.
type Session struct {
	api    backend.ClientInterface
	tokens tokenstore.Store
	store  *store.Store
	now    func() time.Time

	loadWorkers int
	loadTimeout time.Duration

	mu         sync.Mutex
	status     Status
	profile    user.Profile
	cancelLoad context.CancelFunc
	loads      sync.WaitGroup
}

// Option configures a Session
type Option func(*Session)

// WithStore uses st instead of a fresh store.
func WithStore(st *store.Store) Option {
	return func(s *Session) { s.store = st }
}

// WithClock replaces the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLoader bounds the data load to workers concurrent fetches, each
// limited to timeout. Zero values keep the defaults: one worker per
// collection and no per-fetch limit.
func WithLoader(workers int, timeout time.Duration) Option {
	return func(s *Session) {
		s.loadWorkers = workers
		s.loadTimeout = timeout
	}
}

// New creates an unauthenticated session. api may be nil, in which case only
// offline sessions can be started.
func New(api backend.ClientInterface, tokens tokenstore.Store, opts ...Option) *Session {
	s := &Session{
		api:    api,
		tokens: tokens,
		now:    time.Now,
		status: StatusUnauthenticated,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = store.New()
	}
	if s.tokens == nil {
		s.tokens = tokenstore.NewMemory("")
	}
	return s
}

func (s *Session) Store() *store.Store {
	return s.store
}

// Snapshot returns the current store state.
func (s *Session) Snapshot() store.State {
	return s.store.Snapshot()
}

func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{Status: s.status, Profile: s.profile, Generation: s.store.Generation()}
}

// Authenticated reports whether a user, online or offline, is signed in.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status != StatusUnauthenticated
}

// Wait blocks until every data load started so far has finished or been cancelled.
func (s *Session) Wait() {
	s.loads.Wait()
}

// Close cancels any in-flight data load and waits for it to stop. The
// session stays signed in and its token is kept.
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.mu.Unlock()
	s.loads.Wait()
}

// Bootstrap restores a persisted session. Without a stored token it leaves
// the session unauthenticated and returns nil. An expired token is cleared
// without a network call. Otherwise the backend session is checked and the
// profile fetched; if either fails the session is signed out and the token
// cleared. Nothing is retried.
func (s *Session) Bootstrap(ctx context.Context) error {
	if s.api == nil {
		return nil
	}
	token, err := s.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to read session token: %w", err)
	}
	if token == "" {
		return nil
	}

	// Opaque tokens are not inspectable and go straight to the backend.
	if claims, err := auth.Inspect(token); err == nil {
		if err := claims.CheckExpiry(s.now()); err != nil {
			s.clearToken()
			return fmt.Errorf("failed to restore session: %w", err)
		}
	}

	if err := s.checkSession(ctx); err != nil {
		s.invalidate(ctx)
		return fmt.Errorf("failed to restore session: %w", err)
	}
	profile, err := s.api.GetProfile(ctx)
	if err != nil {
		s.invalidate(ctx)
		return fmt.Errorf("failed to restore session: %w", err)
	}

	s.authenticate(*profile, StatusAuthenticated)
	return nil
}

func (s *Session) checkSession(ctx context.Context) error {
	resp, err := s.api.GetSession(ctx)
	if err != nil {
		return err
	}
	if !resp.Valid || (resp.ExpiresAt != nil && !s.now().Before(*resp.ExpiresAt)) {
		return ErrSessionInvalid
	}
	return nil
}

// invalidate signs the stored session out and forgets its token.
func (s *Session) invalidate(ctx context.Context) {
	if err := s.api.SignOut(ctx); err != nil {
		log.Printf("Error signing out invalid session: %v", err)
	}
	s.clearToken()
}

// Login signs in against the backend and starts the data load.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if s.api == nil {
		return ErrBackendUnreachable
	}
	if s.Authenticated() {
		return ErrAlreadyAuthenticated
	}

	resp, err := s.api.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return classifyAuthError(ctx, opSignIn, err)
	}
	if err := s.tokens.Save(resp.Token); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	profile := resp.User
	if profile.Email == "" {
		profile.Email = email
	}
	s.authenticate(profile, StatusAuthenticated)
	return nil
}

// Register creates an account, checking username availability first, and
// signs the new user in.
func (s *Session) Register(ctx context.Context, p user.RegisterParams) error {
	if s.api == nil {
		return ErrBackendUnreachable
	}
	if s.Authenticated() {
		return ErrAlreadyAuthenticated
	}
	p.Email = strings.TrimSpace(p.Email)
	p.Username = strings.TrimSpace(p.Username)
	if err := p.Validate(); err != nil {
		return err
	}

	available, err := s.api.CheckUsername(ctx, p.Username)
	if err != nil {
		return classifyAuthError(ctx, opSignUp, err)
	}
	if !available {
		return ErrUsernameTaken
	}

	resp, err := s.api.SignUp(ctx, p)
	if err != nil {
		return classifyAuthError(ctx, opSignUp, err)
	}
	if err := s.tokens.Save(resp.Token); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	profile := resp.User
	if profile.Name == "" {
		profile.Name = p.Name
	}
	if profile.Email == "" {
		profile.Email = p.Email
	}
	s.authenticate(profile, StatusAuthenticated)
	return nil
}

// ContinueOffline starts a local-only session. Nothing is loaded and no
// mutation reaches the backend.
func (s *Session) ContinueOffline(name, email string) error {
	if s.Authenticated() {
		return ErrAlreadyAuthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest"
	}
	s.authenticate(user.Profile{Name: name, Email: strings.TrimSpace(email)}, StatusOffline)
	return nil
}

// Logout cancels any in-flight load, clears the store and forgets the token.
// Results of the cancelled load that still arrive are discarded by the store
// because they carry the old generation.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	status := s.status
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.store.Reset()
	s.status = StatusUnauthenticated
	s.profile = user.Profile{}
	s.mu.Unlock()

	if status == StatusAuthenticated && s.api != nil {
		if err := s.api.SignOut(ctx); err != nil {
			log.Printf("Error signing out: %v", err)
		}
	}
	if err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

// authenticate moves an unauthenticated session into status and, for
// backend sessions, starts exactly one data load for the new generation.
func (s *Session) authenticate(profile user.Profile, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusUnauthenticated {
		return
	}
	gen := s.store.Reset()
	s.status = status
	s.profile = profile
	log.Printf("Signed in as %s (%s)", profile.DisplayName(), status)

	if status != StatusAuthenticated {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelLoad = cancel
	s.loads.Add(1)
	go func() {
		defer s.loads.Done()
		s.load(ctx, gen)
	}()
}

func (s *Session) clearToken() {
	if err := s.tokens.Clear(); err != nil {
		log.Printf("Error clearing session token: %v", err)
	}
}

// begin returns the generation an action applies to and whether it goes
// through the backend.
func (s *Session) begin() (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusAuthenticated:
		return s.store.Generation(), s.api != nil, nil
	case StatusOffline:
		return s.store.Generation(), false, nil
	default:
		return 0, false, ErrNotAuthenticated
	}
}
