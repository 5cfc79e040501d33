package ordersvc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oms-labs/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/oms-labs/order-svc/internal/dal/interfaces/iuserrepo"
	"github.com/oms-labs/order-svc/internal/service/errs"
	"github.com/oms-labs/order-svc/internal/service/models/auditevent"
	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/service/models/orderitem"
	"github.com/oms-labs/order-svc/internal/service/models/status"
	"github.com/oms-labs/order-svc/internal/service/models/user"
)

type memOrderRepo struct {
	orders    map[uuid.UUID]*order.Order
	lastQuery *order.QueryOrdersModel
	updates   int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[uuid.UUID]*order.Order{}}
}

func (r *memOrderRepo) Insert(_ context.Context, o *order.Order) error {
	r.orders[o.ID()] = o

	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	return r.orders[id], nil
}

func (r *memOrderRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range r.orders {
		if o.UserID() == userID {
			out = append(out, o)
		}
	}

	return out, nil
}

func (r *memOrderRepo) QueryByUser(
	ctx context.Context,
	userID uuid.UUID,
	q *order.QueryOrdersModel,
) ([]*order.Order, int64, error) {
	r.lastQuery = q
	orders, err := r.ListByUser(ctx, userID)

	return orders, int64(len(orders)), err
}

func (r *memOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.updates++
	r.orders[o.ID()] = o

	return nil
}

func (r *memOrderRepo) InsertItem(_ context.Context, _ *orderitem.OrderItem) error { return nil }

func (r *memOrderRepo) DeleteItem(_ context.Context, _, _ uuid.UUID) error { return nil }

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

type fakeUOW struct {
	orders *memOrderRepo
	users  *memUserRepo

	begins    int
	commits   int
	rollbacks int
}

func (f *fakeUOW) Begin(context.Context) error    { f.begins++; return nil }
func (f *fakeUOW) Commit(context.Context) error   { f.commits++; return nil }
func (f *fakeUOW) Rollback(context.Context) error { f.rollbacks++; return nil }

func (f *fakeUOW) OrderRepository() iorderrepo.IOrderRepository { return f.orders }
func (f *fakeUOW) UserRepository() iuserrepo.IUserRepository    { return f.users }

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

func (a *auditRecorder) actions() []string {
	out := make([]string, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}

	return out
}

type fixture struct {
	svc    *OrderService
	work   *fakeUOW
	audit  *auditRecorder
	userID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	work := &fakeUOW{orders: newMemOrderRepo(), users: newMemUserRepo()}
	audit := &auditRecorder{}
	svc := MustNewOrderService(
		WithUnitOfWorkFactory(func() unitOfWork { return work }),
		WithAuditService(audit),
	)

	owner, err := user.New("alice@example.com", "hash", "Alice")
	require.NoError(t, err)
	require.NoError(t, work.users.Insert(context.Background(), owner))

	return &fixture{svc: svc, work: work, audit: audit, userID: owner.ID()}
}

func (f *fixture) draftOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := f.svc.CreateForUser(context.Background(), f.userID)
	require.NoError(t, err)

	return o
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOrderService_CreateForUser(t *testing.T) {
	t.Run("creates draft and audits", func(t *testing.T) {
		f := newFixture(t)

		o, err := f.svc.CreateForUser(context.Background(), f.userID)
		require.NoError(t, err)

		assert.Equal(t, status.StatusDraft, o.Status())
		assert.Equal(t, f.userID, o.UserID())
		assert.Contains(t, f.work.orders.orders, o.ID())

		require.Len(t, f.audit.events, 1)
		event := f.audit.events[0]
		assert.Equal(t, "OrderCreated", event.Action)
		require.NotNil(t, event.UserID)
		assert.Equal(t, f.userID, *event.UserID)
		require.NotNil(t, event.OrderID)
		assert.Equal(t, o.ID(), *event.OrderID)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateForUser(context.Background(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.Empty(t, f.work.orders.orders)
		assert.Empty(t, f.audit.events)
	})
}

func TestOrderService_Get(t *testing.T) {
	f := newFixture(t)
	o := f.draftOrder(t)

	t.Run("owned order", func(t *testing.T) {
		opt, err := f.svc.Get(context.Background(), f.userID, o.ID())
		require.NoError(t, err)
		require.True(t, opt.IsPresent())
		assert.Equal(t, o.ID(), opt.MustGet().ID())
	})

	t.Run("missing order is absent", func(t *testing.T) {
		opt, err := f.svc.Get(context.Background(), f.userID, uuid.New())
		require.NoError(t, err)
		assert.True(t, opt.IsAbsent())
	})

	t.Run("foreign order is absent, not forbidden", func(t *testing.T) {
		opt, err := f.svc.Get(context.Background(), uuid.New(), o.ID())
		require.NoError(t, err)
		assert.True(t, opt.IsAbsent())
	})
}

func TestOrderService_AddItem(t *testing.T) {
	t.Run("adds item and audits", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)

		opt, err := f.svc.AddItem(context.Background(), f.userID, o.ID(), "Widget", 2, price("9.99"))
		require.NoError(t, err)
		require.True(t, opt.IsPresent())

		got := opt.MustGet()
		assert.Len(t, got.Items(), 1)
		assert.Equal(t, "19.98", got.Total().StringFixed(2))
		assert.Equal(t, 1, f.work.commits)

		require.Equal(t, []string{"OrderCreated", "ItemAdded"}, f.audit.actions())
		var details struct {
			Name      string  `json:"name"`
			Quantity  int     `json:"quantity"`
			UnitPrice float64 `json:"unitPrice"`
			NewTotal  float64 `json:"newTotal"`
		}
		require.NoError(t, json.Unmarshal(f.audit.events[1].Details, &details))
		assert.Equal(t, "Widget", details.Name)
		assert.Equal(t, 2, details.Quantity)
		assert.InDelta(t, 9.99, details.UnitPrice, 0.001)
		assert.InDelta(t, 19.98, details.NewTotal, 0.001)
	})

	t.Run("invalid item never opens a transaction", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)

		_, err := f.svc.AddItem(context.Background(), f.userID, o.ID(), "", 1, price("1.00"))
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Zero(t, f.work.begins)
	})

	t.Run("foreign order is absent", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)

		opt, err := f.svc.AddItem(context.Background(), uuid.New(), o.ID(), "Widget", 1, price("1.00"))
		require.NoError(t, err)
		assert.True(t, opt.IsAbsent())
		assert.Empty(t, o.Items())
	})

	t.Run("submitted order rejects items", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)
		_, err := f.svc.Submit(context.Background(), f.userID, o.ID())
		require.NoError(t, err)
		commits := f.work.commits

		_, err = f.svc.AddItem(context.Background(), f.userID, o.ID(), "Widget", 1, price("1.00"))
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, commits, f.work.commits)
	})
}

func TestOrderService_RemoveItem(t *testing.T) {
	t.Run("removes item and audits", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)
		opt, err := f.svc.AddItem(context.Background(), f.userID, o.ID(), "Widget", 2, price("9.99"))
		require.NoError(t, err)
		itemID := opt.MustGet().Items()[0].ID()

		opt, err = f.svc.RemoveItem(context.Background(), f.userID, o.ID(), itemID)
		require.NoError(t, err)
		require.True(t, opt.IsPresent())
		assert.Empty(t, opt.MustGet().Items())
		assert.True(t, opt.MustGet().Total().IsZero())
		assert.Equal(t, []string{"OrderCreated", "ItemAdded", "ItemRemoved"}, f.audit.actions())
	})

	t.Run("unknown item is a silent no-op", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)
		_, err := f.svc.AddItem(context.Background(), f.userID, o.ID(), "Widget", 1, price("1.00"))
		require.NoError(t, err)

		opt, err := f.svc.RemoveItem(context.Background(), f.userID, o.ID(), uuid.New())
		require.NoError(t, err)
		require.True(t, opt.IsPresent())
		assert.Len(t, opt.MustGet().Items(), 1)
		assert.Equal(t, []string{"OrderCreated", "ItemAdded"}, f.audit.actions())
	})
}

func TestOrderService_Transitions(t *testing.T) {
	t.Run("submit then complete", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)

		opt, err := f.svc.Submit(context.Background(), f.userID, o.ID())
		require.NoError(t, err)
		assert.Equal(t, status.StatusSubmitted, opt.MustGet().Status())

		opt, err = f.svc.Complete(context.Background(), f.userID, o.ID())
		require.NoError(t, err)
		assert.Equal(t, status.StatusCompleted, opt.MustGet().Status())

		assert.Equal(t, []string{"OrderCreated", "OrderSubmitted", "OrderCompleted"}, f.audit.actions())
	})

	t.Run("submit records item count and total", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)
		_, err := f.svc.AddItem(context.Background(), f.userID, o.ID(), "Widget", 2, price("9.99"))
		require.NoError(t, err)

		_, err = f.svc.Submit(context.Background(), f.userID, o.ID())
		require.NoError(t, err)

		var details struct {
			OldStatus string  `json:"oldStatus"`
			NewStatus string  `json:"newStatus"`
			Items     int     `json:"items"`
			Total     float64 `json:"total"`
		}
		last := f.audit.events[len(f.audit.events)-1]
		require.Equal(t, "OrderSubmitted", last.Action)
		require.NoError(t, json.Unmarshal(last.Details, &details))
		assert.Equal(t, "Draft", details.OldStatus)
		assert.Equal(t, "Submitted", details.NewStatus)
		assert.Equal(t, 1, details.Items)
		assert.InDelta(t, 19.98, details.Total, 0.001)
	})

	t.Run("complete requires submitted", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)

		_, err := f.svc.Complete(context.Background(), f.userID, o.ID())
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, status.StatusDraft, o.Status())
	})

	t.Run("cancel is idempotent and audited each time", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)

		_, err := f.svc.Cancel(context.Background(), f.userID, o.ID())
		require.NoError(t, err)
		_, err = f.svc.Cancel(context.Background(), f.userID, o.ID())
		require.NoError(t, err)

		assert.Equal(t, status.StatusCancelled, o.Status())
		assert.Equal(t, []string{"OrderCreated", "OrderCancelled", "OrderCancelled"}, f.audit.actions())
	})

	t.Run("foreign order is absent", func(t *testing.T) {
		f := newFixture(t)
		o := f.draftOrder(t)

		opt, err := f.svc.Submit(context.Background(), uuid.New(), o.ID())
		require.NoError(t, err)
		assert.True(t, opt.IsAbsent())
		assert.Equal(t, status.StatusDraft, o.Status())
	})
}

func TestOrderService_AuditFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t)
	o := f.draftOrder(t)
	f.audit.err = assert.AnError

	opt, err := f.svc.Submit(context.Background(), f.userID, o.ID())

	require.ErrorIs(t, err, errs.ErrAuditAppend)
	require.True(t, opt.IsPresent(), "the persisted result must accompany the audit error")
	assert.Equal(t, status.StatusSubmitted, opt.MustGet().Status())
	assert.Equal(t, 1, f.work.commits)
}

func TestOrderService_ListForUserPaged(t *testing.T) {
	f := newFixture(t)
	f.draftOrder(t)
	f.draftOrder(t)

	orders, total, err := f.svc.ListForUserPaged(context.Background(), f.userID, &order.QueryOrdersModel{})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.EqualValues(t, 2, total)

	q := f.work.orders.lastQuery
	require.NotNil(t, q)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)
	assert.Equal(t, order.SortFieldCreatedAt, q.SortField)
	assert.True(t, q.SortDesc)
}
