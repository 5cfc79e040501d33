package authsvc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/oms-labs/order-svc/internal/dal/interfaces/iuserrepo"
	"github.com/oms-labs/order-svc/internal/service/errs"
	"github.com/oms-labs/order-svc/internal/service/models/auditevent"
	"github.com/oms-labs/order-svc/internal/service/models/user"
)

// tokenIssuer signs access tokens for authenticated users.
type tokenIssuer interface {
	Issue(userID uuid.UUID, email string) (string, time.Time, error)
}

// auditor appends audit events after a committed mutation.
type auditor interface {
	Append(ctx context.Context, event auditevent.AuditEvent) error
}

// AuthResult is an issued access token and its expiry.
type AuthResult struct {
	AccessToken  string
	ExpiresAtUTC time.Time
}

// AuthService registers and authenticates users. Passwords only ever exist
// here as bcrypt hashes; verification goes through bcrypt's own compare,
// never string equality.
type AuthService struct {
	users  iuserrepo.IUserRepository
	issuer tokenIssuer
	audit  auditor
}

// option is a function that configures the AuthService.
type option func(*AuthService)

// MustNewAuthService creates a new AuthService.
func MustNewAuthService(opts ...option) *AuthService {
	s := &AuthService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.users == nil || s.issuer == nil || s.audit == nil {
		panic("authsvc: user repository, token issuer and audit service are required")
	}

	return s
}

// WithUserRepository sets the user store.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(users iuserrepo.IUserRepository) option {
	return func(s *AuthService) {
		s.users = users
	}
}

// WithTokenIssuer sets the token issuing capability.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTokenIssuer(issuer tokenIssuer) option {
	return func(s *AuthService) {
		s.issuer = issuer
	}
}

// WithAuditService sets the audit sink.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditService(audit auditor) option {
	return func(s *AuthService) {
		s.audit = audit
	}
}

// Register creates an account and returns a fresh token. A duplicate email
// (case-insensitive) fails with ErrAlreadyExists.
func (s *AuthService) Register(
	ctx context.Context,
	email, password, fullName string,
) (AuthResult, error) {
	folded := strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.GetByEmail(ctx, folded)
	if err != nil {
		return AuthResult{}, err
	}
	if existing != nil {
		return AuthResult{}, fmt.Errorf("%w: email already in use", errs.ErrAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := user.New(email, string(hash), fullName)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.users.Insert(ctx, u); err != nil {
		return AuthResult{}, err
	}

	s.appendAudit(ctx, u, "UserRegistered")

	return s.issue(u)
}

// Login verifies credentials and returns a fresh token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	folded := strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, folded)
	if err != nil {
		return AuthResult{}, err
	}
	if u == nil {
		return AuthResult{}, errs.ErrAuthenticationFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)); err != nil {
		return AuthResult{}, errs.ErrAuthenticationFailed
	}

	s.appendAudit(ctx, u, "UserLoggedIn")

	return s.issue(u)
}

func (s *AuthService) issue(u *user.User) (AuthResult, error) {
	token, expiresAt, err := s.issuer.Issue(u.ID(), u.Email())
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{AccessToken: token, ExpiresAtUTC: expiresAt}, nil
}

func (s *AuthService) appendAudit(ctx context.Context, u *user.User, action string) {
	userID := u.ID()
	event, err := auditevent.New(&userID, action, nil, struct {
		Email string `json:"email"`
	}{u.Email()})
	if err == nil {
		err = s.audit.Append(ctx, event)
	}
	if err != nil {
		// The registration/login itself already succeeded; an audit problem
		// must not fail it.
		slog.Warn("audit append failed", "action", action, "error", err)
	}
}
