package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oms-labs/order-svc/internal/service/models/user"
)

// UserDal represents the user data access layer model.
type UserDal struct {
	Id           uuid.UUID  `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	FullName     string     `db:"full_name"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// ToModel converts UserDal to the service layer User.
func (u *UserDal) ToModel() *user.User {
	return user.Restore(u.Id, u.Email, u.PasswordHash, u.FullName, u.CreatedAt, u.UpdatedAt)
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx.
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresUserRepository persists users.
type PostgresUserRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresUserRepository creates a new Postgres user repository.
func NewPostgresUserRepository(conn GenericConn) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var userColumns = []string{"id", "email", "password_hash", "full_name", "created_at", "updated_at"}

// Insert stores a new user row.
func (r *PostgresUserRepository) Insert(ctx context.Context, u *user.User) error {
	query, args, err := r.sb.
		Insert("users").
		Columns(userColumns...).
		Values(u.ID(), u.Email(), u.PasswordHash(), u.FullName(), u.CreatedAt(), u.UpdatedAt()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID loads one user; a missing row is (nil, nil).
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

// GetByEmail loads one user by the stored (lowercased) email; a missing row
// is (nil, nil).
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, sq.Eq{"email": email})
}

func (r *PostgresUserRepository) getOne(ctx context.Context, where sq.Eq) (*user.User, error) {
	query, args, err := r.sb.
		Select(userColumns...).
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var dal UserDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.Email,
		&dal.PasswordHash,
		&dal.FullName,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return dal.ToModel(), nil
}
