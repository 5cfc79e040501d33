package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oms-labs/order-svc/internal/service/errs"
)

// User is an account record. The password hash is opaque here: hashing and
// verification live in the auth service, the entity only refuses to hold an
// empty hash.
type User struct {
	id           uuid.UUID
	email        string
	passwordHash string
	fullName     string
	createdAt    time.Time
	updatedAt    *time.Time
}

func New(email, passwordHash, fullName string) (*User, error) {
	u := &User{
		id:        uuid.New(),
		fullName:  strings.TrimSpace(fullName),
		createdAt: time.Now().UTC(),
	}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	if err := u.SetPasswordHash(passwordHash); err != nil {
		return nil, err
	}
	u.updatedAt = nil

	return u, nil
}

// Restore rehydrates a user from storage.
func Restore(
	id uuid.UUID,
	email string,
	passwordHash string,
	fullName string,
	createdAt time.Time,
	updatedAt *time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		fullName:     fullName,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID          { return u.id }
func (u *User) Email() string          { return u.email }
func (u *User) PasswordHash() string   { return u.passwordHash }
func (u *User) FullName() string       { return u.fullName }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) UpdatedAt() *time.Time  { return u.updatedAt }

// SetEmail validates, trims and case-folds the address. Lookups are
// case-insensitive because the stored form is always lowercase.
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email", errs.ErrValidation)
	}
	u.email = strings.ToLower(email)
	u.touch()

	return nil
}

func (u *User) SetPasswordHash(hash string) error {
	if strings.TrimSpace(hash) == "" {
		return fmt.Errorf("%w: password hash is required", errs.ErrValidation)
	}
	u.passwordHash = hash
	u.touch()

	return nil
}

func (u *User) touch() {
	now := time.Now().UTC()
	u.updatedAt = &now
}
