package order_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oms-labs/order-svc/internal/service/errs"
	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/service/models/orderitem"
	"github.com/oms-labs/order-svc/internal/service/models/status"
)

func mustItem(t *testing.T, name string, qty int, price string) *orderitem.OrderItem {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	item, err := orderitem.New(name, qty, p)
	require.NoError(t, err)

	return item
}

func TestNew(t *testing.T) {
	t.Run("creates draft with zero total", func(t *testing.T) {
		o, err := order.New(uuid.New())
		require.NoError(t, err)

		assert.Equal(t, status.StatusDraft, o.Status())
		assert.True(t, o.Total().IsZero())
		assert.Empty(t, o.Items())
		assert.Nil(t, o.UpdatedAt())
	})

	t.Run("rejects nil user id", func(t *testing.T) {
		_, err := order.New(uuid.Nil)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestOrder_AddItem(t *testing.T) {
	t.Run("recalculates total", func(t *testing.T) {
		o, err := order.New(uuid.New())
		require.NoError(t, err)

		require.NoError(t, o.AddItem(mustItem(t, "Widget", 2, "9.99")))
		assert.Equal(t, "19.98", o.Total().StringFixed(2))

		// 5.005 rounds half away from zero to 5.01.
		require.NoError(t, o.AddItem(mustItem(t, "Gadget", 1, "5.005")))
		assert.Equal(t, "24.99", o.Total().StringFixed(2))
	})

	t.Run("binds item to order", func(t *testing.T) {
		o, err := order.New(uuid.New())
		require.NoError(t, err)

		item := mustItem(t, "Widget", 1, "1.00")
		require.NoError(t, o.AddItem(item))
		assert.Equal(t, o.ID(), item.OrderID())
	})

	t.Run("fails on non-draft order", func(t *testing.T) {
		o, err := order.New(uuid.New())
		require.NoError(t, err)
		require.NoError(t, o.Submit())

		err = o.AddItem(mustItem(t, "Widget", 1, "1.00"))
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Empty(t, o.Items())
		assert.True(t, o.Total().IsZero())
	})

	t.Run("rejects nil item", func(t *testing.T) {
		o, err := order.New(uuid.New())
		require.NoError(t, err)

		assert.ErrorIs(t, o.AddItem(nil), errs.ErrValidation)
	})
}

func TestOrder_RemoveItem(t *testing.T) {
	t.Run("removes and recalculates", func(t *testing.T) {
		o, err := order.New(uuid.New())
		require.NoError(t, err)

		item := mustItem(t, "Widget", 2, "9.99")
		require.NoError(t, o.AddItem(item))
		require.NoError(t, o.AddItem(mustItem(t, "Gadget", 1, "5.00")))

		removed, err := o.RemoveItem(item.ID())
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Len(t, o.Items(), 1)
		assert.Equal(t, "5.00", o.Total().StringFixed(2))
	})

	t.Run("unknown item is a no-op", func(t *testing.T) {
		o, err := order.New(uuid.New())
		require.NoError(t, err)
		require.NoError(t, o.AddItem(mustItem(t, "Widget", 1, "1.50")))

		removed, err := o.RemoveItem(uuid.New())
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Len(t, o.Items(), 1)
		assert.Equal(t, "1.50", o.Total().StringFixed(2))
	})

	t.Run("fails on non-draft order", func(t *testing.T) {
		o, err := order.New(uuid.New())
		require.NoError(t, err)

		item := mustItem(t, "Widget", 1, "1.00")
		require.NoError(t, o.AddItem(item))
		require.NoError(t, o.Submit())

		_, err = o.RemoveItem(item.ID())
		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Len(t, o.Items(), 1)
	})
}

func TestOrder_Transitions(t *testing.T) {
	newOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o, err := order.New(uuid.New())
		require.NoError(t, err)

		return o
	}

	t.Run("draft to submitted to completed", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Submit())
		assert.Equal(t, status.StatusSubmitted, o.Status())

		require.NoError(t, o.Complete())
		assert.Equal(t, status.StatusCompleted, o.Status())
	})

	t.Run("submit requires draft", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Submit())

		assert.ErrorIs(t, o.Submit(), errs.ErrInvalidState)
		assert.Equal(t, status.StatusSubmitted, o.Status())
	})

	t.Run("complete requires submitted", func(t *testing.T) {
		o := newOrder(t)

		assert.ErrorIs(t, o.Complete(), errs.ErrInvalidState)
		assert.Equal(t, status.StatusDraft, o.Status())
	})

	t.Run("cancel from draft and submitted", func(t *testing.T) {
		draft := newOrder(t)
		require.NoError(t, draft.Cancel())
		assert.Equal(t, status.StatusCancelled, draft.Status())

		submitted := newOrder(t)
		require.NoError(t, submitted.Submit())
		require.NoError(t, submitted.Cancel())
		assert.Equal(t, status.StatusCancelled, submitted.Status())
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Cancel())
		require.NoError(t, o.Cancel())
		assert.Equal(t, status.StatusCancelled, o.Status())
	})

	t.Run("completed cannot be cancelled", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Submit())
		require.NoError(t, o.Complete())

		assert.ErrorIs(t, o.Cancel(), errs.ErrInvalidState)
		assert.Equal(t, status.StatusCompleted, o.Status())
	})
}

func TestOrder_TotalInvariant(t *testing.T) {
	o, err := order.New(uuid.New())
	require.NoError(t, err)

	items := []*orderitem.OrderItem{
		mustItem(t, "A", 3, "0.335"), // price stored as 0.34, line 1.02
		mustItem(t, "B", 1, "10.00"),
		mustItem(t, "C", 7, "2.49"), // line 17.43
	}

	expected := decimal.Zero
	for _, item := range items {
		require.NoError(t, o.AddItem(item))
		expected = expected.Add(item.LineTotal())
		assert.True(t, o.Total().Equal(expected.Round(2)),
			"total %s != %s after adding %s", o.Total(), expected.Round(2), item.Name())
	}

	for _, item := range items {
		_, err := o.RemoveItem(item.ID())
		require.NoError(t, err)
		expected = expected.Sub(item.LineTotal())
		assert.True(t, o.Total().Equal(expected.Round(2)))
	}

	assert.True(t, o.Total().IsZero())
}
