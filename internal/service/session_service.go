package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Zia-11/web-project/internal/auth"
	"github.com/Zia-11/web-project/internal/config"
	"github.com/Zia-11/web-project/internal/repository"
	apperrors "github.com/Zia-11/web-project/pkg/util"
)

// SessionService mediates session key/value access and login state.
type SessionService struct {
	sessions repository.SessionRepository
	cfg      config.SessionConfig
}

// NewSessionService builds the service.
func NewSessionService(cfg config.SessionConfig, sessions repository.SessionRepository) *SessionService {
	return &SessionService{sessions: sessions, cfg: cfg}
}

// MintToken creates a fresh opaque session token.
func (s *SessionService) MintToken() string {
	return uuid.NewString()
}

// CookieName returns the configured session cookie name.
func (s *SessionService) CookieName() string {
	return s.cfg.CookieName
}

// DefaultTTL returns the configured default session lifetime.
func (s *SessionService) DefaultTTL() time.Duration {
	return s.cfg.DefaultTTL()
}

// Set stores a key/value pair in the session.
func (s *SessionService) Set(ctx context.Context, token, key, value string) error {
	return s.sessions.Set(ctx, token, key, value)
}

// Get fetches a value by key, 404 when absent.
func (s *SessionService) Get(ctx context.Context, token, key string) (string, error) {
	value, err := s.sessions.Get(ctx, token, key)
	if errors.Is(err, repository.ErrSessionKeyNotFound) {
		return "", apperrors.NewNotFound("session key", map[string]any{"key": key})
	}
	return value, err
}

// Delete removes a key and returns the previous value, 404 when absent.
func (s *SessionService) Delete(ctx context.Context, token, key string) (string, error) {
	value, err := s.sessions.Delete(ctx, token, key)
	if errors.Is(err, repository.ErrSessionKeyNotFound) {
		return "", apperrors.NewNotFound("session key", map[string]any{"key": key})
	}
	return value, err
}

// SetExpiry sets the session lifetime. Zero means "until the client
// disconnects": the cookie becomes a browser-session cookie while the
// server-side record falls back to the default lifetime.
func (s *SessionService) SetExpiry(ctx context.Context, token string, seconds int) error {
	if seconds < 0 {
		return apperrors.NewValidationError("validation failed", apperrors.FieldErrors(map[string][]string{
			"seconds": {"must be a non-negative integer"},
		}))
	}
	ttl := s.cfg.DefaultTTL()
	if seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}
	return s.sessions.SetExpiry(ctx, token, ttl)
}

// EstablishLogin records the authenticated principal in the session.
func (s *SessionService) EstablishLogin(ctx context.Context, token string, principal *auth.Principal) error {
	return s.sessions.SetFields(ctx, token, principal.SessionFields())
}

// RotateToken mints a fresh token and moves any existing session state to
// it, invalidating the old token. Login calls this so a token fixed
// before authentication can never name an authenticated session.
func (s *SessionService) RotateToken(ctx context.Context, oldToken string) (string, error) {
	token := s.MintToken()
	if oldToken == "" {
		return token, nil
	}
	fields, err := s.sessions.Fields(ctx, oldToken)
	if err != nil {
		return "", err
	}
	if len(fields) > 0 {
		if err := s.sessions.SetFields(ctx, token, fields); err != nil {
			return "", err
		}
	}
	if err := s.sessions.Destroy(ctx, oldToken); err != nil {
		return "", err
	}
	return token, nil
}

// Logout destroys the session entirely.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}
