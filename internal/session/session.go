// Package session holds the signed-in state of the portal: the current user
// and the bearer token, mirrored to persistent storage so a restart keeps the
// caller signed in.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-portal/internal/apiclient"
	"github.com/wanderlust/travel-portal/internal/core/domain"
	"github.com/wanderlust/travel-portal/internal/core/ports"
	"github.com/wanderlust/travel-portal/internal/metrics"
)

// UserKey is the storage key of the cached user JSON.
const UserKey = "auth_user"

var (
	ErrMissingToken     = errors.New("authentication response carried no token")
	ErrSuperseded       = errors.New("superseded by a newer sign-in or sign-out")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// State is the lifecycle state of a Session.
type State int

const (
	Loading State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// AuthAPI is the slice of the backend client the session drives.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) apiclient.Response[domain.AuthResult]
	Register(ctx context.Context, in domain.RegisterInput) apiclient.Response[domain.AuthResult]
	CurrentUser(ctx context.Context) apiclient.Response[domain.User]
	RefreshToken(ctx context.Context) apiclient.Response[domain.TokenRefresh]
}

var _ AuthAPI = (*apiclient.Client)(nil)

// TokenHolder owns the bearer token. *apiclient.Credentials is the
// production implementation; the client reads from the same instance.
type TokenHolder interface {
	Token() string
	SetToken(ctx context.Context, token string)
}

var _ TokenHolder = (*apiclient.Credentials)(nil)

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	State State
	User  *domain.User
	Token string
}

// IsAdmin reports whether the snapshot's user is an administrator.
func (s Snapshot) IsAdmin() bool {
	return s.User != nil && s.User.IsAdmin
}

// Session is safe for concurrent use. Sign-in, registration and sign-out each
// take a new generation; a sign-in reply that arrives after a newer operation
// started is dropped with ErrSuperseded and writes nothing.
type Session struct {
	api    AuthAPI
	tokens TokenHolder
	store  ports.KeyValueStore
	log    zerolog.Logger
	now    func() time.Time

	mu    sync.Mutex
	state State
	user  *domain.User
	gen   uint64

	// subMu guards the subscriber set and the delivery queue. Snapshots are
	// queued while mu is held, so they queue in transition order.
	subMu      sync.Mutex
	subs       map[int]func(Snapshot)
	nextSub    int
	pending    []Snapshot
	delivering bool
}

// New returns a Session in the Loading state. Call Restore before use.
func New(api AuthAPI, tokens TokenHolder, store ports.KeyValueStore, log zerolog.Logger) *Session {
	return &Session{
		api:    api,
		tokens: tokens,
		store:  store,
		log:    log,
		now:    time.Now,
		state:  Loading,
		subs:   make(map[int]func(Snapshot)),
	}
}

// Restore rebuilds the session from storage without contacting the backend.
// A token and a readable user, with the token not past its JWT expiry, yield
// Authenticated. Anything else yields Unauthenticated and clears leftovers.
func (s *Session) Restore(ctx context.Context) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	token := s.tokens.Token()
	user, present := s.loadUser(ctx)

	s.mu.Lock()
	if gen != s.gen {
		// A sign-in or sign-out already decided the state.
		s.mu.Unlock()
		metrics.SessionTransitionsTotal.WithLabelValues("restore", "superseded").Inc()
		return
	}

	result := "ok"
	switch {
	case token != "" && user != nil && !s.expired(token):
		s.state = Authenticated
		s.user = user
	default:
		result = "rejected"
		if token != "" {
			s.tokens.SetToken(ctx, "")
		}
		if present {
			s.deleteUser(ctx)
		}
		s.state = Unauthenticated
		s.user = nil
	}
	snap := s.publishLocked()
	s.mu.Unlock()

	s.log.Debug().Str("state", snap.State.String()).Msg("session restored")
	metrics.SessionTransitionsTotal.WithLabelValues("restore", result).Inc()
	s.deliver()
}

// Login signs in with email and password. A rejected login returns the
// server's message verbatim and leaves the session untouched.
func (s *Session) Login(ctx context.Context, email, password string) error {
	gen := s.begin()
	return s.complete(ctx, "login", gen, s.api.Login(ctx, email, password))
}

// Register creates an account and signs in with it.
func (s *Session) Register(ctx context.Context, in domain.RegisterInput) error {
	gen := s.begin()
	return s.complete(ctx, "register", gen, s.api.Register(ctx, in))
}

// Logout clears the user and the token from memory and storage. It never
// fails and may be called repeatedly.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	s.state = Unauthenticated
	s.user = nil
	s.tokens.SetToken(ctx, "")
	s.deleteUser(ctx)
	s.publishLocked()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues("logout", "ok").Inc()
	s.deliver()
}

// Refresh re-reads the signed-in user from /auth/me.
func (s *Session) Refresh(ctx context.Context) error {
	gen, err := s.authenticatedGen()
	if err != nil {
		return err
	}

	res := s.api.CurrentUser(ctx)
	if err := res.Err(); err != nil {
		metrics.SessionTransitionsTotal.WithLabelValues("refresh", "rejected").Inc()
		return err
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		metrics.SessionTransitionsTotal.WithLabelValues("refresh", "superseded").Inc()
		return ErrSuperseded
	}
	user := *res.Data
	s.user = &user
	s.saveUser(ctx, user)
	s.publishLocked()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues("refresh", "ok").Inc()
	s.deliver()
	return nil
}

// RefreshToken swaps the bearer token for a fresh one from /auth/refresh.
func (s *Session) RefreshToken(ctx context.Context) error {
	gen, err := s.authenticatedGen()
	if err != nil {
		return err
	}

	res := s.api.RefreshToken(ctx)
	if err := res.Err(); err != nil {
		metrics.SessionTransitionsTotal.WithLabelValues("refresh", "rejected").Inc()
		return err
	}
	if res.Data.Token == "" {
		metrics.SessionTransitionsTotal.WithLabelValues("refresh", "rejected").Inc()
		return ErrMissingToken
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		metrics.SessionTransitionsTotal.WithLabelValues("refresh", "superseded").Inc()
		return ErrSuperseded
	}
	s.tokens.SetToken(ctx, res.Data.Token)
	s.publishLocked()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues("refresh", "ok").Inc()
	s.deliver()
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) IsLoading() bool {
	return s.State() == Loading
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == Authenticated
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.user)
}

func (s *Session) Token() string {
	return s.tokens.Token()
}

func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to run after every state change. Snapshots reach
// subscribers in the order the changes happened. The returned func removes it.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

func (s *Session) authenticatedGen() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticated {
		return 0, ErrNotAuthenticated
	}
	return s.gen, nil
}

func (s *Session) complete(ctx context.Context, op string, gen uint64, res apiclient.Response[domain.AuthResult]) error {
	if err := res.Err(); err != nil {
		metrics.SessionTransitionsTotal.WithLabelValues(op, "rejected").Inc()
		return err
	}
	if res.Data.Token == "" {
		metrics.SessionTransitionsTotal.WithLabelValues(op, "rejected").Inc()
		return ErrMissingToken
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.log.Debug().Str("op", op).Msg("discarding stale authentication reply")
		metrics.SessionTransitionsTotal.WithLabelValues(op, "superseded").Inc()
		return ErrSuperseded
	}

	user := res.Data.User
	s.saveUser(ctx, user)
	s.tokens.SetToken(ctx, res.Data.Token)
	s.state = Authenticated
	s.user = &user
	s.publishLocked()
	s.mu.Unlock()

	s.log.Info().Str("op", op).Str("user_id", user.ID).Msg("signed in")
	metrics.SessionTransitionsTotal.WithLabelValues(op, "ok").Inc()
	s.deliver()
	return nil
}

// expired reports whether token is a JWT whose exp claim has passed. Opaque
// tokens and JWTs without exp never expire locally.
func (s *Session) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}

// loadUser returns the stored user and whether the key exists at all; an
// unreadable value is present but yields a nil user.
func (s *Session) loadUser(ctx context.Context) (*domain.User, bool) {
	if s.store == nil {
		return nil, false
	}
	raw, ok, err := s.store.Get(ctx, UserKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("could not read stored user")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn().Err(err).Msg("stored user is not valid JSON")
		return nil, true
	}
	return &u, true
}

func (s *Session) saveUser(ctx context.Context, u domain.User) {
	if s.store == nil {
		return
	}
	raw, err := json.Marshal(u)
	if err == nil {
		err = s.store.Set(ctx, UserKey, string(raw))
	}
	if err != nil {
		s.log.Error().Err(err).Msg("could not persist user")
	}
}

func (s *Session) deleteUser(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, UserKey); err != nil {
		s.log.Error().Err(err).Msg("could not remove stored user")
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, User: copyUser(s.user), Token: s.tokens.Token()}
}

// publishLocked queues the current state for subscribers. Must hold s.mu.
func (s *Session) publishLocked() Snapshot {
	snap := s.snapshotLocked()
	s.subMu.Lock()
	s.pending = append(s.pending, snap)
	s.subMu.Unlock()
	return snap
}

// deliver hands queued snapshots to subscribers in order. One goroutine
// delivers at a time; a caller that finds delivery underway leaves its
// snapshot to that goroutine, which also covers subscribers that call back
// into the session.
func (s *Session) deliver() {
	s.subMu.Lock()
	if s.delivering {
		s.subMu.Unlock()
		return
	}
	s.delivering = true

	for len(s.pending) > 0 {
		snap := s.pending[0]
		s.pending = s.pending[1:]
		fns := make([]func(Snapshot), 0, len(s.subs))
		for _, fn := range s.subs {
			fns = append(fns, fn)
		}
		s.subMu.Unlock()
		for _, fn := range fns {
			fn(snap)
		}
		s.subMu.Lock()
	}
	s.delivering = false
	s.subMu.Unlock()
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
