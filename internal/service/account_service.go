package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Zia-11/web-project/internal/auth"
	"github.com/Zia-11/web-project/internal/config"
	"github.com/Zia-11/web-project/internal/domain"
	"github.com/Zia-11/web-project/internal/repository"
	apperrors "github.com/Zia-11/web-project/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AccountService coordinates registration and login flows.
type AccountService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAccountService builds the service.
func NewAccountService(cfg config.AuthConfig, users repository.UserRepository) *AccountService {
	return &AccountService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account. The staff flag and role set are never
// caller-controlled at registration.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	fields := map[string][]string{}
	username = strings.TrimSpace(username)
	if username == "" {
		fields["username"] = append(fields["username"], "this field is required")
	} else if len(username) > 150 {
		fields["username"] = append(fields["username"], "ensure this field has no more than 150 characters")
	}
	email = strings.TrimSpace(email)
	if email != "" && !emailPattern.MatchString(email) {
		fields["email"] = append(fields["email"], "enter a valid email address")
	}
	if password == "" {
		fields["password"] = append(fields["password"], "this field is required")
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("validation failed", apperrors.FieldErrors(fields))
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		fields["username"] = append(fields["username"], "a user with that username already exists")
		return nil, apperrors.NewValidationError("validation failed", apperrors.FieldErrors(fields))
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a username/password pair. The failure never reveals
// which of the two was wrong.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAuthFailed()
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewAuthFailed()
	}
	return user, nil
}

// IssueToken signs a bearer token for API clients.
func (s *AccountService) IssueToken(principal *auth.Principal) (string, time.Time, error) {
	return s.tokenMgr.GenerateToken(principal)
}

// ListUsers returns a page of accounts.
func (s *AccountService) ListUsers(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 1000
	}
	return s.users.List(ctx, pageSize, (page-1)*pageSize)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
