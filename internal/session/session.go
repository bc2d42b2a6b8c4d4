package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/safar/artprint/internal/errs"
)

// TokenKey is the storage key the bearer token lives under.
const TokenKey = "token"

// Storage is a small persistent key/value store that survives restarts.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Session holds the signed-in user's token. One Session is shared by every
// consumer so sign-out is seen everywhere at once.
type Session struct {
	mu      sync.RWMutex
	storage Storage
	token   string
	hooks   []func()
	logger  zerolog.Logger
}

func New(storage Storage, logger zerolog.Logger) *Session {
	return &Session{
		storage: storage,
		logger:  logger.With().Str("component", "session").Logger(),
	}
}

// Init loads a token persisted by an earlier run.
func (s *Session) Init(ctx context.Context) error {
	token, ok, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.token = token
	}
	s.logger.Debug().Bool("signed_in", s.token != "").Msg("session loaded")
	return nil
}

func (s *Session) SignIn(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errs.Validation("token is required")
	}
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Info().Msg("signed in")
	return nil
}

// SignOut forgets the token and runs the teardown hooks registered with OnSignOut.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.storage.Remove(ctx, TokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}

	s.mu.Lock()
	s.token = ""
	hooks := append([]func(){}, s.hooks...)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	s.logger.Info().Msg("signed out")
	return nil
}

func (s *Session) OnSignOut(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SignedIn() bool {
	return s.Token() != ""
}

func (s *Session) Close() error {
	return s.storage.Close()
}
