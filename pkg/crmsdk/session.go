package crmsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
)

// StorageKey is where the session blob is persisted.
const StorageKey = "auth-storage"

// Status is the authentication state the route guard reads.
type Status int

const (
	// StatusLoading means bootstrap has not reached a terminal state.
	StatusLoading Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Snapshot is a read-only copy of the session. Profile is nil unless
// Status is StatusAuthenticated.
type Snapshot struct {
	Status   Status
	Profile  *Profile
	Business BusinessInfo
}

// clone deep copies the profile so a holder of the result cannot reach the
// store's state.
func (s Snapshot) clone() Snapshot {
	if s.Profile != nil {
		p := *s.Profile
		p.Role.Role = p.Role.Role.Clone()
		s.Profile = &p
	}
	return s
}

// Role returns the caller's role for predicate checks, or nil.
func (s Snapshot) Role() *Role {
	if s.Profile == nil {
		return nil
	}
	return &s.Profile.Role
}

// persistedSession is the JSON stored under StorageKey.
type persistedSession struct {
	State struct {
		Tokens *persistedTokens `json:"tokens"`
	} `json:"state"`
}

type persistedTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Store owns the client session. Components read it through Snapshot and
// Subscribe and change it only through its actions.
type Store struct {
	client  *SDKClient
	storage Storage

	mu      sync.RWMutex
	snap    Snapshot
	tokens  persistedTokens
	subs    map[int]func(Snapshot)
	nextSub int

	bootMu sync.Mutex
	booted bool
}

// NewStore creates a store in StatusLoading. Call Bootstrap once at start.
func NewStore(client *SDKClient, storage Storage) *Store {
	return &Store{
		client:  client,
		storage: storage,
		snap:    Snapshot{Status: StatusLoading},
		subs:    make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// AccessToken returns the token of the current session, if any.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

// Subscribe registers fn to receive a snapshot after every transition and
// returns a function that unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Bootstrap restores a persisted session. It completes once per store:
//   - no blob: unauthenticated, no request is made
//   - unreadable blob or no access token: the blob is removed
//   - otherwise one profile fetch; a 401 removes the blob
//
// If ctx is cancelled before the fetch returns its result is discarded, the
// store stays loading and a later call may try again. Other fetch failures
// leave the session unauthenticated and keep the blob for the next start.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.bootMu.Lock()
	defer s.bootMu.Unlock()
	if s.booted {
		return nil
	}

	raw, err := s.storage.Get(StorageKey)
	if err != nil {
		s.booted = true
		s.transition(Snapshot{Status: StatusUnauthenticated}, persistedTokens{})
		if errors.Is(err, ErrNotStored) {
			return nil
		}
		return err
	}

	tokens, ok := decodeSession(raw)
	if !ok {
		s.booted = true
		s.transition(Snapshot{Status: StatusUnauthenticated}, persistedTokens{})
		return s.storage.Remove(StorageKey)
	}

	profile, err := s.client.Profile(ctx, tokens.AccessToken)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.booted = true

	if err != nil {
		s.transition(Snapshot{Status: StatusUnauthenticated}, persistedTokens{})
		if IsUnauthorized(err) {
			return s.storage.Remove(StorageKey)
		}
		return err
	}

	s.transition(authenticated(profile), tokens)
	return nil
}

// Login authenticates, fetches the profile and persists the tokens. On
// failure the session is unchanged; IsOTPRequired(err) asks for a retry
// with a TOTP code.
func (s *Store) Login(ctx context.Context, username, password, otp string) error {
	tr, err := s.client.Login(ctx, username, password, otp)
	if err != nil {
		return err
	}
	tokens := persistedTokens{AccessToken: tr.AccessToken, RefreshToken: tr.RefreshToken}

	profile, err := s.client.Profile(ctx, tokens.AccessToken)
	if err != nil {
		return err
	}
	if err := s.persist(tokens); err != nil {
		return err
	}

	s.markBooted()
	s.transition(authenticated(profile), tokens)
	return nil
}

// Logout revokes the refresh token and clears the session. The local
// session is cleared even when the server call fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.RLock()
	refresh := s.tokens.RefreshToken
	s.mu.RUnlock()

	var serverErr error
	if refresh != "" {
		serverErr = s.client.Logout(ctx, refresh)
	}

	s.markBooted()
	s.transition(Snapshot{Status: StatusUnauthenticated}, persistedTokens{})
	if err := s.storage.Remove(StorageKey); err != nil {
		return err
	}
	return serverErr
}

// RefreshProfile re-reads the profile, for example after the user's role
// was edited. An expired access token is rotated once with the refresh
// token; if the server still answers 401 the session is cleared.
func (s *Store) RefreshProfile(ctx context.Context) error {
	s.mu.RLock()
	tokens := s.tokens
	s.mu.RUnlock()
	if tokens.AccessToken == "" {
		return &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeInvalidToken, Message: "not logged in"}
	}

	profile, err := s.client.Profile(ctx, tokens.AccessToken)
	if IsUnauthorized(err) && tokens.RefreshToken != "" {
		var tr *TokenResponse
		if tr, err = s.client.Refresh(ctx, tokens.RefreshToken); err == nil {
			tokens = persistedTokens{AccessToken: tr.AccessToken, RefreshToken: tr.RefreshToken}
			if err = s.persist(tokens); err != nil {
				return err
			}
			profile, err = s.client.Profile(ctx, tokens.AccessToken)
		}
	}
	if err != nil {
		if IsUnauthorized(err) {
			s.transition(Snapshot{Status: StatusUnauthenticated}, persistedTokens{})
			_ = s.storage.Remove(StorageKey)
		}
		return err
	}

	s.transition(authenticated(profile), tokens)
	return nil
}

// SetBusiness changes the business shown as current.
func (s *Store) SetBusiness(b BusinessInfo) {
	s.mu.RLock()
	snap, tokens := s.snap, s.tokens
	s.mu.RUnlock()

	snap.Business = b
	s.transition(snap, tokens)
}

// SaveRole sends the role to the server and returns what it stored. When
// the saved role is the caller's own, the session picks up the change.
func (s *Store) SaveRole(ctx context.Context, role Role) (Role, error) {
	saved, err := s.client.SaveRole(ctx, s.AccessToken(), role)
	if err != nil {
		return Role{}, err
	}

	s.mu.RLock()
	snap, tokens := s.snap, s.tokens
	s.mu.RUnlock()
	if snap.Profile != nil && snap.Profile.Role.ID == saved.ID {
		p := *snap.Profile
		p.Role = *saved
		snap.Profile = &p
		s.transition(snap, tokens)
	}
	return *saved, nil
}

// transition replaces the state and notifies subscribers outside the lock.
// Every subscriber gets its own copy.
func (s *Store) transition(next Snapshot, tokens persistedTokens) {
	next = next.clone()

	s.mu.Lock()
	s.snap = next
	s.tokens = tokens
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.clone())
	}
}

func (s *Store) markBooted() {
	s.bootMu.Lock()
	s.booted = true
	s.bootMu.Unlock()
}

func (s *Store) persist(tokens persistedTokens) error {
	var blob persistedSession
	blob.State.Tokens = &tokens
	raw, err := json.Marshal(blob)
	if err != nil {
		return err
	}
	return s.storage.Set(StorageKey, string(raw))
}

func decodeSession(raw string) (persistedTokens, bool) {
	var blob persistedSession
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return persistedTokens{}, false
	}
	if blob.State.Tokens == nil || strings.TrimSpace(blob.State.Tokens.AccessToken) == "" {
		return persistedTokens{}, false
	}
	return *blob.State.Tokens, true
}

func authenticated(p *Profile) Snapshot {
	return Snapshot{
		Status:   StatusAuthenticated,
		Profile:  p,
		Business: p.Business,
	}
}
