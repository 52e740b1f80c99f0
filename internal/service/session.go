package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BloggingApp/post-web/internal/dto"
	"github.com/BloggingApp/post-web/internal/model"
	"github.com/BloggingApp/post-web/internal/repository"
	"github.com/BloggingApp/post-web/pkg/utils"
	"go.uber.org/zap"
)

// SessionState is a snapshot of a session. Role is set iff Token is set.
type SessionState struct {
	Token   string
	Role    model.Role
	Loading bool
}

func (s SessionState) Authenticated() bool {
	return s.Token != ""
}

// SessionStore holds the token of one client and its decoded role. The token
// is mirrored into a persisted slot so it survives restarts.
type SessionStore struct {
	logger *zap.Logger
	auth   AuthAPI
	slot   repository.TokenSlot
	key    string
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	token   string
	claims  *model.Claims
	loading bool
}

func NewSessionStore(logger *zap.Logger, auth AuthAPI, slot repository.TokenSlot, key string, ttl time.Duration) *SessionStore {
	return &SessionStore{
		logger:  logger,
		auth:    auth,
		slot:    slot,
		key:     key,
		ttl:     ttl,
		now:     time.Now,
		loading: true,
	}
}

// Init restores the session from the slot. Unreadable or expired tokens are
// removed from the slot. Loading is false once Init returns.
func (s *SessionStore) Init(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	token, err := s.slot.Load(ctx, s.key)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load session token(%s): %s", s.key, err.Error())
		return ErrInternal
	}
	if token == "" {
		return nil
	}

	claims, err := utils.DecodeClaims(token)
	if err == nil && claims.Expired(s.now()) {
		err = errors.New("token expired")
	}
	if err != nil {
		s.logger.Sugar().Infof("Dropping stored token(%s): %s", s.key, err.Error())
		if err := s.slot.Clear(ctx, s.key); err != nil {
			s.logger.Sugar().Errorf("failed to clear session token(%s): %s", s.key, err.Error())
		}
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.claims = claims
	s.mu.Unlock()

	return nil
}

// Login authenticates with the posts API. API errors are returned unchanged
// and leave the session untouched.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	resp, err := s.auth.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	return s.establish(ctx, resp.Token)
}

// Register creates an account and signs it in. The response is returned so
// the caller can show the server message.
func (s *SessionStore) Register(ctx context.Context, username, email, password string, role model.Role) (*dto.RegisterResponse, error) {
	resp, err := s.auth.Register(ctx, dto.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     string(role),
	})
	if err != nil {
		return nil, err
	}

	if err := s.establish(ctx, resp.Token); err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *SessionStore) establish(ctx context.Context, token string) error {
	claims, err := utils.DecodeClaims(token)
	if err != nil {
		s.logger.Sugar().Errorf("failed to decode token: %s", err.Error())
		return fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}

	if err := s.slot.Save(ctx, s.key, token, s.tokenTTL(claims)); err != nil {
		s.logger.Sugar().Errorf("failed to save session token(%s): %s", s.key, err.Error())
		return ErrInternal
	}

	s.mu.Lock()
	s.token = token
	s.claims = claims
	s.mu.Unlock()

	return nil
}

func (s *SessionStore) tokenTTL(claims *model.Claims) time.Duration {
	if claims.ExpiresAt.IsZero() {
		return s.ttl
	}
	left := claims.ExpiresAt.Sub(s.now())
	if s.ttl > 0 && left > s.ttl {
		return s.ttl
	}
	if left <= 0 {
		return time.Second
	}
	return left
}

// Logout clears the slot and the in-memory session. It never leaves a token
// behind in memory even when the slot cannot be cleared.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.claims = nil
	s.mu.Unlock()

	if err := s.slot.Clear(ctx, s.key); err != nil {
		s.logger.Sugar().Errorf("failed to clear session token(%s): %s", s.key, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := SessionState{
		Token:   s.token,
		Loading: s.loading,
	}
	if s.claims != nil {
		state.Role = s.claims.Role
	}
	return state
}

// Claims returns a copy of the decoded claims, or nil when signed out.
func (s *SessionStore) Claims() *model.Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.claims == nil {
		return nil
	}
	claims := *s.claims
	return &claims
}

// Sessions opens session stores bound to slots of one token repository.
type Sessions struct {
	logger *zap.Logger
	auth   AuthAPI
	slot   repository.TokenSlot
	ttl    time.Duration
}

func NewSessions(logger *zap.Logger, auth AuthAPI, slot repository.TokenSlot, ttl time.Duration) *Sessions {
	return &Sessions{
		logger: logger,
		auth:   auth,
		slot:   slot,
		ttl:    ttl,
	}
}

// Open returns an initialized store for key. A slot read failure yields a
// signed out store together with the error.
func (s *Sessions) Open(ctx context.Context, key string) (*SessionStore, error) {
	store := NewSessionStore(s.logger, s.auth, s.slot, key, s.ttl)
	err := store.Init(ctx)
	return store, err
}
