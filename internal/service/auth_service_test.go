package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"routine_tracker/internal/domain"
	"routine_tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(
		repository.NewMemoryUserRepository(),
		NewPasswordHasher(bcrypt.MinCost),
		NewTokenManager("test-secret", time.Hour),
		NewSessionStore(nil),
		NewAuditService(nil),
	)
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "correct horse",
		PasswordConfirm: "correct horse",
	}
}

func TestAuthService_RegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	user, session, err := svc.Register(ctx, validRegistration(), RequestInfo{})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	require.NotNil(t, session)

	claims, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, login, err := svc.Login(ctx, "alice", "correct horse", RequestInfo{IP: "127.0.0.1"})
	require.NoError(t, err)
	assert.NotEqual(t, session.Claims.ID, login.Claims.ID)

	require.NoError(t, svc.Logout(ctx, login.Claims, RequestInfo{}))
	_, err = svc.Authenticate(ctx, login.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// the registration session is independent
	_, err = svc.Authenticate(ctx, session.Token)
	assert.NoError(t, err)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{"missing username", func(in *RegisterInput) { in.Username = " " }, "username"},
		{"bad username chars", func(in *RegisterInput) { in.Username = "al ice!" }, "username"},
		{"long username", func(in *RegisterInput) { in.Username = strings.Repeat("u", 151) }, "username"},
		{"bad email", func(in *RegisterInput) { in.Email = "alice@" }, "email"},
		{"short password", func(in *RegisterInput) { in.Password, in.PasswordConfirm = "short", "short" }, "password"},
		{"mismatch", func(in *RegisterInput) { in.PasswordConfirm = "something else" }, "password_confirm"},
		{"password over 72 bytes", func(in *RegisterInput) {
			p := strings.Repeat("p", 73)
			in.Password, in.PasswordConfirm = p, p
		}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newAuthService(t)
			in := validRegistration()
			tc.mutate(&in)

			_, _, err := svc.Register(ctx, in, RequestInfo{})
			require.ErrorIs(t, err, domain.ErrValidation)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestAuthService_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)

	_, _, err := svc.Register(ctx, validRegistration(), RequestInfo{})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, validRegistration(), RequestInfo{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t)
	_, _, err := svc.Register(ctx, validRegistration(), RequestInfo{})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong password", RequestInfo{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "bob", "correct horse", RequestInfo{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "", "", RequestInfo{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_AuthenticateRejectsGarbage(t *testing.T) {
	svc := newAuthService(t)
	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
