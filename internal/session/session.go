// Package session holds the current identity and keeps it in sync with the
// persisted store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/jera/internal/logger"
	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/storage"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotReady         = errors.New("session is still loading")
	ErrNotAuthenticated = errors.New("not logged in, run 'jera auth login'")
)

// recordVersion is bumped when the persisted layout changes.
const recordVersion = 1

// record is the persisted session, always written as one value.
type record struct {
	Version       int         `json:"version"`
	User          *model.User `json:"user"`
	Token         string      `json:"token"`
	Authenticated bool        `json:"authenticated"`
	RememberMe    bool        `json:"remember_me"`
	SavedAt       time.Time   `json:"saved_at"`
}

// State is a snapshot of the store.
type State struct {
	User          *model.User
	Token         string
	Authenticated bool
	RememberMe    bool
	Loading       bool
}

// Store is the single in-memory source of identity. Pass it to whatever
// needs the current user; it is safe for concurrent use.
type Store struct {
	kv storage.KV

	mu     sync.RWMutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New returns a store in the loading state. Call Init before use.
func New(kv storage.KV) *Store {
	return &Store{
		kv:    kv,
		state: State{Loading: true},
		subs:  make(map[int]func(State)),
	}
}

// Init performs the initial Refresh and marks the store ready.
func (s *Store) Init(ctx context.Context) State {
	loaded := s.read(ctx)
	loaded.Loading = false
	s.set(loaded)
	return loaded
}

// Refresh re-reads persisted state. Missing or unreadable data yields the
// anonymous state; it never fails.
func (s *Store) Refresh(ctx context.Context) State {
	loaded := s.read(ctx)
	s.mu.RLock()
	loaded.Loading = s.state.Loading
	s.mu.RUnlock()
	s.set(loaded)
	return loaded
}

// Login persists the session and then updates memory.
func (s *Store) Login(ctx context.Context, user *model.User, token string, rememberMe bool) error {
	if user == nil || token == "" {
		return errors.New("login requires a user and a token")
	}

	rec := record{
		Version:       recordVersion,
		User:          user,
		Token:         token,
		Authenticated: true,
		RememberMe:    rememberMe,
		SavedAt:       time.Now().UTC(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Set(ctx, storage.KeySession, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.set(State{User: user, Token: token, Authenticated: true, RememberMe: rememberMe})
	logger.Info("Session started", logger.F("user_id", user.ID), logger.F("remember_me", rememberMe))
	return nil
}

// Logout removes every session key, including legacy ones. Memory is
// cleared even when the store fails.
func (s *Store) Logout(ctx context.Context) error {
	err := s.kv.Delete(ctx,
		storage.KeySession,
		storage.KeyAuthToken,
		storage.KeyCurrentUser,
		storage.KeyIsAuthenticated,
		storage.KeyRememberMe,
	)
	s.set(State{})
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	logger.Info("Session ended")
	return nil
}

// Subscribe registers fn for every state change and returns its removal.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns the current user, or nil when anonymous.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// UserID returns the current user's id, or nil when anonymous.
func (s *Store) UserID() *int64 {
	u := s.User()
	if u == nil {
		return nil
	}
	id := u.ID
	return &id
}

// Expiry reports the token's exp claim when the token is a JWT.
// The signature is not checked; the server remains the authority.
func (s *Store) Expiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) set(next State) {
	s.mu.Lock()
	s.state = next
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// read loads the versioned record, falling back to the legacy keys.
func (s *Store) read(ctx context.Context) State {
	raw, ok, err := s.kv.Get(ctx, storage.KeySession)
	if err != nil {
		logger.Warn("Failed to read session", logger.F("error", err))
		return State{}
	}
	if ok {
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			logger.Warn("Discarding unreadable session", logger.F("error", err))
			return State{}
		}
		if rec.Version < 1 || !rec.Authenticated || rec.User == nil || rec.Token == "" {
			return State{}
		}
		return State{User: rec.User, Token: rec.Token, Authenticated: true, RememberMe: rec.RememberMe}
	}
	return s.readLegacy(ctx)
}

// readLegacy needs both authToken and currentUser.
func (s *Store) readLegacy(ctx context.Context) State {
	token, okToken, err := s.kv.Get(ctx, storage.KeyAuthToken)
	if err != nil || !okToken || token == "" {
		return State{}
	}
	rawUser, okUser, err := s.kv.Get(ctx, storage.KeyCurrentUser)
	if err != nil || !okUser {
		return State{}
	}
	var user model.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		logger.Warn("Discarding unreadable legacy user", logger.F("error", err))
		return State{}
	}
	remember, _, _ := s.kv.Get(ctx, storage.KeyRememberMe)
	return State{User: &user, Token: token, Authenticated: true, RememberMe: remember == "true"}
}

// RequireAuth is the guard for protected views.
func RequireAuth(s *Store) error {
	st := s.State()
	if st.Loading {
		return ErrNotReady
	}
	if !st.Authenticated {
		return ErrNotAuthenticated
	}
	return nil
}
