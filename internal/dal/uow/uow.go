package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oms-labs/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/oms-labs/order-svc/internal/dal/interfaces/iuserrepo"
	"github.com/oms-labs/order-svc/internal/dal/postgres"
	orderrepo "github.com/oms-labs/order-svc/internal/dal/repositories/order/postgres"
	userrepo "github.com/oms-labs/order-svc/internal/dal/repositories/user/postgres"
)

// unitOfWork scopes the repositories to one pgx transaction. Before Begin
// (and for read-only use) the repositories run directly on the pool.
type unitOfWork struct {
	pool      *pgxpool.Pool
	tx        pgx.Tx
	orderRepo iorderrepo.IOrderRepository
	userRepo  iuserrepo.IUserRepository
}

func NewUnitOfWork(db *postgres.Client) *unitOfWork {
	return &unitOfWork{
		pool:      db.Pool(),
		orderRepo: orderrepo.NewPostgresOrderRepository(db.Pool()),
		userRepo:  userrepo.NewPostgresUserRepository(db.Pool()),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) UserRepository() iuserrepo.IUserRepository {
	return u.userRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.userRepo = userrepo.NewPostgresUserRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback(ctx)
}
