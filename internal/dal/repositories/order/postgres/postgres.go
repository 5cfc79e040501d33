package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/service/models/orderitem"
	"github.com/oms-labs/order-svc/internal/service/models/status"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id        uuid.UUID  `db:"id"`
	UserId    uuid.UUID  `db:"user_id"`
	Status    string     `db:"status"`
	Total     string     `db:"total"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// ToModel converts OrderDal plus its items to the service layer Order.
func (o *OrderDal) ToModel(items []*orderitem.OrderItem) (*order.Order, error) {
	st, err := status.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(o.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order total: %w", err)
	}

	return order.Restore(o.Id, o.UserId, st, total, items, o.CreatedAt, o.UpdatedAt), nil
}

// OrderItemDal represents the order item data access layer model.
type OrderItemDal struct {
	Id        uuid.UUID  `db:"id"`
	OrderId   uuid.UUID  `db:"order_id"`
	Name      string     `db:"name"`
	Quantity  int        `db:"quantity"`
	UnitPrice string     `db:"unit_price"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// ToModel converts OrderItemDal to the service layer OrderItem.
func (oi *OrderItemDal) ToModel() (*orderitem.OrderItem, error) {
	price, err := decimal.NewFromString(oi.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to parse item unit price: %w", err)
	}

	return orderitem.Restore(oi.Id, oi.OrderId, oi.Name, oi.Quantity, price, oi.CreatedAt, oi.UpdatedAt), nil
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx.
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOrderRepository persists the order aggregate.
type PostgresOrderRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var orderColumns = []string{"id", "user_id", "status", "total::text", "created_at", "updated_at"}

var itemColumns = []string{"id", "order_id", "name", "quantity", "unit_price::text", "created_at", "updated_at"}

// Insert stores a new order row. Items travel separately via InsertItem.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o *order.Order) error {
	query, args, err := r.sb.
		Insert("orders").
		Columns("id", "user_id", "status", "total", "created_at", "updated_at").
		Values(o.ID(), o.UserID(), o.Status().String(), o.Total().StringFixed(2), o.CreatedAt(), o.UpdatedAt()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build order insert: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// GetByID loads one order together with its items. A missing order is
// (nil, nil).
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query, args, err := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build order query: %w", err)
	}

	var dal OrderDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.UserId,
		&dal.Status,
		&dal.Total,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.queryItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	return dal.ToModel(items[id])
}

// ListByUser loads all orders of one user with their items, newest first.
func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	builder := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	return r.queryOrders(ctx, builder)
}

// QueryByUser loads one page of a user's orders plus the total row count for
// the same filter. The count and page queries run concurrently.
func (r *PostgresOrderRepository) QueryByUser(
	ctx context.Context,
	userID uuid.UUID,
	q *order.QueryOrdersModel,
) ([]*order.Order, int64, error) {
	where := sq.Eq{"user_id": userID}
	if q.Status != nil {
		where["status"] = q.Status.String()
	}

	builder := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(where).
		OrderBy(orderBy(q)).
		Limit(uint64(q.PageSize)).
		Offset(uint64(q.Offset()))

	var (
		orders []*order.Order
		total  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = r.queryOrders(gctx, builder)

		return err
	})
	g.Go(func() error {
		countQuery, args, err := r.sb.Select("count(*)").From("orders").Where(where).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build count query: %w", err)
		}

		return r.conn.QueryRow(gctx, countQuery, args...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Update saves the order row (status, total, updated_at).
func (r *PostgresOrderRepository) Update(ctx context.Context, o *order.Order) error {
	query, args, err := r.sb.
		Update("orders").
		Set("status", o.Status().String()).
		Set("total", o.Total().StringFixed(2)).
		Set("updated_at", o.UpdatedAt()).
		Where(sq.Eq{"id": o.ID()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build order update: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	return nil
}

// InsertItem stores one item row.
func (r *PostgresOrderRepository) InsertItem(ctx context.Context, item *orderitem.OrderItem) error {
	query, args, err := r.sb.
		Insert("order_items").
		Columns("id", "order_id", "name", "quantity", "unit_price", "created_at", "updated_at").
		Values(
			item.ID(),
			item.OrderID(),
			item.Name(),
			item.Quantity(),
			item.UnitPrice().StringFixed(2),
			item.CreatedAt(),
			item.UpdatedAt(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build item insert: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}

	return nil
}

// DeleteItem removes one item row of the given order.
func (r *PostgresOrderRepository) DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	query, args, err := r.sb.
		Delete("order_items").
		Where(sq.Eq{"order_id": orderID, "id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build item delete: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}

	return nil
}

func orderBy(q *order.QueryOrdersModel) string {
	field := map[string]string{
		order.SortFieldCreatedAt: "created_at",
		order.SortFieldTotal:     "total",
		order.SortFieldStatus:    "status",
	}[q.SortField]
	if field == "" {
		field = "created_at"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	return field + " " + dir
}

func (r *PostgresOrderRepository) queryOrders(
	ctx context.Context,
	builder sq.SelectBuilder,
) ([]*order.Order, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build orders query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var dals []OrderDal
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.UserId,
			&dal.Status,
			&dal.Total,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		dals = append(dals, dal)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(dals) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]uuid.UUID, len(dals))
	for i, dal := range dals {
		ids[i] = dal.Id
	}
	itemsByOrder, err := r.queryItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*order.Order, 0, len(dals))
	for i := range dals {
		model, err := dals[i].ToModel(itemsByOrder[dals[i].Id])
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, model)
	}

	return result, nil
}

func (r *PostgresOrderRepository) queryItems(
	ctx context.Context,
	orderIDs []uuid.UUID,
) (map[uuid.UUID][]*orderitem.OrderItem, error) {
	query, args, err := r.sb.
		Select(itemColumns...).
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build items query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]*orderitem.OrderItem, len(orderIDs))
	for rows.Next() {
		var dal OrderItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.Name,
			&dal.Quantity,
			&dal.UnitPrice,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert item dal to model: %w", err)
		}
		result[dal.OrderId] = append(result[dal.OrderId], model)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
