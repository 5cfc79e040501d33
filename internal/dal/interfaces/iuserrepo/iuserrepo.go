package iuserrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/oms-labs/order-svc/internal/service/models/user"
)

// IUserRepository is the persistence port for users. Lookups return
// (nil, nil) when no row matches; email lookups expect the case-folded form.
type IUserRepository interface {
	Insert(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}
