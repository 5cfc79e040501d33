package authsvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oms-labs/order-svc/internal/service/errs"
	"github.com/oms-labs/order-svc/internal/service/models/auditevent"
	"github.com/oms-labs/order-svc/internal/service/models/user"
	"github.com/oms-labs/order-svc/internal/service/services/authsvc"
	"github.com/oms-labs/order-svc/internal/tokens"
)

type memUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*user.User{}}
}

func (r *memUserRepo) Insert(_ context.Context, u *user.User) error {
	r.users[u.ID()] = u

	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}

	return nil, nil
}

type auditRecorder struct {
	events []auditevent.AuditEvent
	err    error
}

func (a *auditRecorder) Append(_ context.Context, event auditevent.AuditEvent) error {
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, event)

	return nil
}

func newService(users *memUserRepo, audit *auditRecorder) *authsvc.AuthService {
	return authsvc.MustNewAuthService(
		authsvc.WithUserRepository(users),
		authsvc.WithTokenIssuer(tokens.NewIssuer([]byte("test-secret"), "order-svc", time.Hour)),
		authsvc.WithAuditService(audit),
	)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates user and issues token", func(t *testing.T) {
		users := newMemUserRepo()
		audit := &auditRecorder{}
		svc := newService(users, audit)

		res, err := svc.Register(context.Background(), "Alice@Example.com", "s3cret", "Alice")
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.True(t, res.ExpiresAtUTC.After(time.Now()))

		stored, err := users.GetByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "alice@example.com", stored.Email())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash()), []byte("s3cret")))

		require.Len(t, audit.events, 1)
		assert.Equal(t, "UserRegistered", audit.events[0].Action)
	})

	t.Run("duplicate email regardless of case", func(t *testing.T) {
		users := newMemUserRepo()
		svc := newService(users, &auditRecorder{})

		_, err := svc.Register(context.Background(), "alice@example.com", "s3cret", "Alice")
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "ALICE@example.com", "other", "Alice")
		assert.ErrorIs(t, err, errs.ErrAlreadyExists)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := newService(newMemUserRepo(), &auditRecorder{})

		_, err := svc.Register(context.Background(), "not-an-email", "s3cret", "Alice")
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	users := newMemUserRepo()
	audit := &auditRecorder{}
	svc := newService(users, audit)

	_, err := svc.Register(context.Background(), "alice@example.com", "s3cret", "Alice")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		res, err := svc.Login(context.Background(), "Alice@Example.com", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.True(t, res.ExpiresAtUTC.After(time.Now()))

		last := audit.events[len(audit.events)-1]
		assert.Equal(t, "UserLoggedIn", last.Action)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "alice@example.com", "wrong")
		assert.ErrorIs(t, err, errs.ErrAuthenticationFailed)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
		assert.ErrorIs(t, err, errs.ErrAuthenticationFailed)
	})

	t.Run("audit failure does not fail the login", func(t *testing.T) {
		audit.err = assert.AnError

		res, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
	})
}
