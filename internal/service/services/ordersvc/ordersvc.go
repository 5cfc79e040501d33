package ordersvc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/oms-labs/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/oms-labs/order-svc/internal/dal/interfaces/iuserrepo"
	"github.com/oms-labs/order-svc/internal/dal/postgres"
	"github.com/oms-labs/order-svc/internal/dal/uow"
	"github.com/oms-labs/order-svc/internal/service/errs"
	"github.com/oms-labs/order-svc/internal/service/models/auditevent"
	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/service/models/orderitem"
	"github.com/oms-labs/order-svc/internal/service/models/status"
)

// auditor appends audit events after a committed mutation.
type auditor interface {
	Append(ctx context.Context, event auditevent.AuditEvent) error
}

// unitOfWork scopes order and user repositories to one transaction.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	UserRepository() iuserrepo.IUserRepository
}

// OrderService orchestrates the order lifecycle: ownership checks, the
// load-mutate-save cycle, and the audit trail.
//
// Every order-scoped operation masks "does not exist" and "not owned by the
// caller" into the same absent result, so callers cannot probe for other
// users' orders. Audit appends run after the commit; a failed append is
// reported as errs.ErrAuditAppend next to the already persisted result and
// is never rolled back or retried.
type OrderService struct {
	pgClient   *postgres.Client
	uowFactory func() unitOfWork
	audit      auditor
}

func (s *OrderService) newUOW() unitOfWork {
	if s.uowFactory != nil {
		return s.uowFactory()
	}

	return uow.NewUnitOfWork(s.pgClient)
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.pgClient == nil && s.uowFactory == nil {
		panic("ordersvc: a Postgres client or a unit-of-work factory is required")
	}
	if s.audit == nil {
		panic("ordersvc: an audit service is required")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithUnitOfWorkFactory overrides how transactions are created, used by
// tests to substitute in-memory repositories.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.uowFactory = factory
	}
}

// WithAuditService sets the audit sink for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditService(audit auditor) option {
	return func(s *OrderService) {
		s.audit = audit
	}
}

// CreateForUser creates a new draft order owned by userID.
func (s *OrderService) CreateForUser(ctx context.Context, userID uuid.UUID) (*order.Order, error) {
	work := s.newUOW()

	owner, err := work.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: user does not exist", errs.ErrNotFound)
	}

	o, err := order.New(userID)
	if err != nil {
		return nil, err
	}

	if err := work.OrderRepository().Insert(ctx, o); err != nil {
		return nil, err
	}

	if err := s.appendAudit(ctx, &userID, "OrderCreated", o.ID(), struct {
		OrderID uuid.UUID `json:"orderId"`
	}{o.ID()}); err != nil {
		return o, err
	}

	return o, nil
}

// Get returns the order when it exists and belongs to userID, absent
// otherwise.
func (s *OrderService) Get(
	ctx context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
) (mo.Option[*order.Order], error) {
	work := s.newUOW()

	return s.loadOwned(ctx, work, userID, orderID)
}

// ListForUser returns all orders owned by userID with their items, newest
// first.
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	work := s.newUOW()

	return work.OrderRepository().ListByUser(ctx, userID)
}

// ListForUserPaged returns one page of the user's orders plus the total
// count for the applied filter.
func (s *OrderService) ListForUserPaged(
	ctx context.Context,
	userID uuid.UUID,
	query *order.QueryOrdersModel,
) ([]*order.Order, int64, error) {
	query.Normalize()
	work := s.newUOW()

	return work.OrderRepository().QueryByUser(ctx, userID, query)
}

// AddItem validates and appends an item to an owned draft order.
func (s *OrderService) AddItem(
	ctx context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
	name string,
	quantity int,
	unitPrice decimal.Decimal,
) (mo.Option[*order.Order], error) {
	item, err := orderitem.New(name, quantity, unitPrice)
	if err != nil {
		return mo.None[*order.Order](), err
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return mo.None[*order.Order](), err
	}
	defer func() { _ = work.Rollback(ctx) }()

	opt, err := s.loadOwned(ctx, work, userID, orderID)
	if err != nil || opt.IsAbsent() {
		return opt, err
	}
	o := opt.MustGet()

	if err := o.AddItem(item); err != nil {
		return mo.None[*order.Order](), err
	}

	if err := work.OrderRepository().InsertItem(ctx, item); err != nil {
		return mo.None[*order.Order](), err
	}
	if err := work.OrderRepository().Update(ctx, o); err != nil {
		return mo.None[*order.Order](), err
	}
	if err := work.Commit(ctx); err != nil {
		return mo.None[*order.Order](), err
	}

	if err := s.appendAudit(ctx, &userID, "ItemAdded", o.ID(), struct {
		Name      string  `json:"name"`
		Quantity  int     `json:"quantity"`
		UnitPrice float64 `json:"unitPrice"`
		NewTotal  float64 `json:"newTotal"`
	}{item.Name(), item.Quantity(), item.UnitPrice().InexactFloat64(), o.Total().InexactFloat64()}); err != nil {
		return mo.Some(o), err
	}

	return mo.Some(o), nil
}

// RemoveItem removes an item from an owned draft order. An unknown item is
// a no-op: the current order state is returned and nothing is audited.
func (s *OrderService) RemoveItem(
	ctx context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
	itemID uuid.UUID,
) (mo.Option[*order.Order], error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return mo.None[*order.Order](), err
	}
	defer func() { _ = work.Rollback(ctx) }()

	opt, err := s.loadOwned(ctx, work, userID, orderID)
	if err != nil || opt.IsAbsent() {
		return opt, err
	}
	o := opt.MustGet()

	removed, err := o.RemoveItem(itemID)
	if err != nil {
		return mo.None[*order.Order](), err
	}
	if !removed {
		return mo.Some(o), work.Commit(ctx)
	}

	if err := work.OrderRepository().DeleteItem(ctx, o.ID(), itemID); err != nil {
		return mo.None[*order.Order](), err
	}
	if err := work.OrderRepository().Update(ctx, o); err != nil {
		return mo.None[*order.Order](), err
	}
	if err := work.Commit(ctx); err != nil {
		return mo.None[*order.Order](), err
	}

	if err := s.appendAudit(ctx, &userID, "ItemRemoved", o.ID(), struct {
		ItemID   uuid.UUID `json:"itemId"`
		NewTotal float64   `json:"newTotal"`
	}{itemID, o.Total().InexactFloat64()}); err != nil {
		return mo.Some(o), err
	}

	return mo.Some(o), nil
}

// Submit moves an owned order from Draft to Submitted.
func (s *OrderService) Submit(
	ctx context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
) (mo.Option[*order.Order], error) {
	return s.transition(ctx, userID, orderID, "OrderSubmitted", (*order.Order).Submit)
}

// Complete moves an owned order from Submitted to Completed.
func (s *OrderService) Complete(
	ctx context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
) (mo.Option[*order.Order], error) {
	return s.transition(ctx, userID, orderID, "OrderCompleted", (*order.Order).Complete)
}

// Cancel moves an owned non-Completed order to Cancelled.
func (s *OrderService) Cancel(
	ctx context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
) (mo.Option[*order.Order], error) {
	return s.transition(ctx, userID, orderID, "OrderCancelled", (*order.Order).Cancel)
}

func (s *OrderService) transition(
	ctx context.Context,
	userID uuid.UUID,
	orderID uuid.UUID,
	action string,
	apply func(*order.Order) error,
) (mo.Option[*order.Order], error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return mo.None[*order.Order](), err
	}
	defer func() { _ = work.Rollback(ctx) }()

	opt, err := s.loadOwned(ctx, work, userID, orderID)
	if err != nil || opt.IsAbsent() {
		return opt, err
	}
	o := opt.MustGet()
	oldStatus := o.Status()

	if err := apply(o); err != nil {
		return mo.None[*order.Order](), err
	}

	if err := work.OrderRepository().Update(ctx, o); err != nil {
		return mo.None[*order.Order](), err
	}
	if err := work.Commit(ctx); err != nil {
		return mo.None[*order.Order](), err
	}

	if err := s.appendAudit(ctx, &userID, action, o.ID(), transitionDetails(action, oldStatus, o)); err != nil {
		return mo.Some(o), err
	}

	return mo.Some(o), nil
}

// transitionDetails mirrors what the audit trail records per transition:
// submits additionally capture the item count and total.
func transitionDetails(action string, oldStatus status.Status, o *order.Order) any {
	if action == "OrderSubmitted" {
		return struct {
			OldStatus string  `json:"oldStatus"`
			NewStatus string  `json:"newStatus"`
			Items     int     `json:"items"`
			Total     float64 `json:"total"`
		}{oldStatus.String(), o.Status().String(), len(o.Items()), o.Total().InexactFloat64()}
	}

	return struct {
		OldStatus string `json:"oldStatus"`
		NewStatus string `json:"newStatus"`
	}{oldStatus.String(), o.Status().String()}
}

// loadOwned fetches the order and applies the ownership mask: a missing
// order and someone else's order are both absent.
func (s *OrderService) loadOwned(
	ctx context.Context,
	work unitOfWork,
	userID uuid.UUID,
	orderID uuid.UUID,
) (mo.Option[*order.Order], error) {
	o, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return mo.None[*order.Order](), err
	}
	if o == nil || o.UserID() != userID {
		return mo.None[*order.Order](), nil
	}

	return mo.Some(o), nil
}

func (s *OrderService) appendAudit(
	ctx context.Context,
	userID *uuid.UUID,
	action string,
	orderID uuid.UUID,
	details any,
) error {
	event, err := auditevent.New(userID, action, &orderID, details)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrAuditAppend, err)
	}
	if err := s.audit.Append(ctx, event); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrAuditAppend, err)
	}

	return nil
}
