package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/velovis/velovis/auth"
	"github.com/velovis/velovis/auth/store"
	"golang.org/x/oauth2"
)

// Observer is notified synchronously after every effective state change
type Observer func(ctx context.Context, current, previous auth.State)

// Session holds the current credentials and profile.
// Every mutation replaces the whole state, readers never observe a partial update.
type Session struct {
	mux       sync.RWMutex
	state     auth.State
	store     store.Store
	observers map[int]Observer
	nextID    int
	logger    zerolog.Logger
}

// New creates a session, rehydrating it from the configured store
func New(ctx context.Context, options ...Option) (*Session, error) {
	ret := &Session{
		store:     store.NewMemoryStore(),
		observers: map[int]Observer{},
		logger:    log.Logger.With().Str("component", "session").Logger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	persisted, err := ret.store.Load(ctx)
	if err != nil {
		ret.logger.Warn().Err(err).Msg("failed to rehydrate session, starting anonymous")
		return ret, nil
	}
	if persisted == nil {
		return ret, nil
	}
	if !persisted.Consistent() {
		ret.logger.Warn().Msg("discarding inconsistent persisted session")
		ret.clearStorage(ctx)
		return ret, nil
	}
	ret.state = persisted.Clone()
	ret.logger.Debug().Bool("authenticated", ret.state.Authenticated).Msg("session rehydrated")
	return ret, nil
}

// Login replaces the session with an authenticated one
func (s *Session) Login(ctx context.Context, credentials auth.Credentials, profile auth.Profile) error {
	if !credentials.Valid() {
		return auth.ErrIncompleteCredentials
	}
	if !profile.Identified() {
		return auth.ErrMissingProfile
	}
	s.update(ctx, func(auth.State) (auth.State, bool) {
		return auth.NewState(&credentials, &profile), true
	})
	s.logger.Info().Str("user", profile.Username).Msg("logged in")
	return nil
}

// SetCredentials replaces the token pair only, keeping the profile
func (s *Session) SetCredentials(ctx context.Context, credentials auth.Credentials) error {
	if !credentials.Valid() {
		return auth.ErrIncompleteCredentials
	}
	s.update(ctx, func(current auth.State) (auth.State, bool) {
		return auth.NewState(&credentials, current.Profile), true
	})
	s.logger.Debug().Msg("credentials updated")
	return nil
}

// Logout clears the session. Logging out a cleared session changes nothing.
func (s *Session) Logout(ctx context.Context) {
	changed := s.update(ctx, func(current auth.State) (auth.State, bool) {
		return auth.State{}, !current.IsZero()
	})
	if changed {
		s.logger.Info().Msg("logged out")
	}
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() auth.State {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.state.Clone()
}

// Subscribe registers an observer and returns a function removing it
func (s *Session) Subscribe(observer Observer) func() {
	s.mux.Lock()
	defer s.mux.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = observer
	return func() {
		s.mux.Lock()
		defer s.mux.Unlock()
		delete(s.observers, id)
	}
}

// Token returns the current credentials as an oauth2 token
func (s *Session) Token() (*oauth2.Token, error) {
	state := s.Snapshot()
	if state.Credentials == nil {
		return nil, auth.ErrNotAuthenticated
	}
	return state.Credentials.Token(), nil
}

var _ oauth2.TokenSource = (*Session)(nil)

func (s *Session) update(ctx context.Context, fn func(current auth.State) (auth.State, bool)) bool {
	s.mux.Lock()
	previous := s.state
	next, ok := fn(previous)
	if !ok {
		s.mux.Unlock()
		return false
	}
	s.state = next
	if next.IsZero() {
		s.clearStorage(ctx)
	} else if err := s.store.Save(ctx, &next); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist session")
	}
	observers := make([]Observer, 0, len(s.observers))
	for i := 0; i < s.nextID; i++ {
		if observer, ok := s.observers[i]; ok {
			observers = append(observers, observer)
		}
	}
	s.mux.Unlock()

	for _, observer := range observers {
		observer(ctx, next.Clone(), previous.Clone())
	}
	return true
}

func (s *Session) clearStorage(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear persisted session")
	}
}
