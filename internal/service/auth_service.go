package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"routine_tracker/internal/domain"
	"routine_tracker/internal/logger"

	"github.com/go-playground/validator/v10"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

// RegisterInput mirrors the sign-up form.
type RegisterInput struct {
	Username        string `json:"username" validate:"required,max=150,username"`
	Email           string `json:"email" validate:"required,max=254,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// Session is an issued login: the signed token plus its claims.
type Session struct {
	Token  string
	Claims *SessionClaims
}

// RequestInfo carries client details for the audit trail.
type RequestInfo struct {
	IP        string
	UserAgent string
}

// AuthService handles account registration, login and logout.
type AuthService struct {
	users    UserStore
	hasher   *PasswordHasher
	tokens   *TokenManager
	sessions *SessionStore
	audit    *AuditService
	validate *validator.Validate
}

func NewAuthService(users UserStore, hasher *PasswordHasher, tokens *TokenManager, sessions *SessionStore, audit *AuditService) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
		audit:    audit,
		validate: newValidator(),
	}
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, info RequestInfo) (*domain.User, *Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.Struct(in); err != nil {
		return nil, nil, toValidationError(err)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, nil, domain.NewValidationError("password", fmt.Sprintf("ensure this value has at most %d bytes", maxPasswordBytes))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Username: in.Username, Email: in.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, nil, fmt.Errorf("username %q: %w", in.Username, domain.ErrConflict)
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}
	s.audit.LogAuth(ctx, user.ID, domain.AuditActionRegister, info.IP, info.UserAgent)

	session, err := s.issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Login checks credentials. Unknown user and wrong password are the same error.
func (s *AuthService) Login(ctx context.Context, username, password string, info RequestInfo) (*domain.User, *Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, domain.ErrInvalidCredentials
	}
	s.audit.LogAuth(ctx, user.ID, domain.AuditActionLogin, info.IP, info.UserAgent)

	session, err := s.issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout revokes the session until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *SessionClaims, info RequestInfo) error {
	if claims.ExpiresAt != nil {
		if err := s.sessions.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("revoke session: %w", err)
		}
	}
	s.audit.LogAuth(ctx, claims.UserID, domain.AuditActionLogout, info.IP, info.UserAgent)
	return nil
}

// Authenticate verifies a session token and that it was not logged out.
// A revocation store failure does not lock users out.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*SessionClaims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.WarnContext(ctx, "session revocation check failed", "error", err)
		return claims, nil
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *AuthService) User(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// SessionTTL is how long issued sessions stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) issue(userID int64) (*Session, error) {
	token, claims, err := s.tokens.Generate(userID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &Session{Token: token, Claims: claims}, nil
}
