package listorderspaged

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/service/models/status"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		in    string
		field string
		desc  bool
	}{
		{in: "", field: order.SortFieldCreatedAt, desc: true},
		{in: "total", field: order.SortFieldTotal, desc: false},
		{in: "-total", field: order.SortFieldTotal, desc: true},
		{in: "Status", field: order.SortFieldStatus, desc: false},
		{in: "-createdAtUtc", field: order.SortFieldCreatedAt, desc: true},
		{in: "  createdAtUtc  ", field: order.SortFieldCreatedAt, desc: false},
	}
	for _, tt := range tests {
		field, desc := parseSort(tt.in)
		assert.Equal(t, tt.field, field, "sort=%q", tt.in)
		assert.Equal(t, tt.desc, desc, "sort=%q", tt.in)
	}
}

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"draft", "Draft", "DRAFT", " submitted ", "Completed", "cancelled"} {
		st, err := parseStatus(in)
		require.NoError(t, err, "status=%q", in)
		assert.NotEmpty(t, st)
	}

	st, err := parseStatus("submitted")
	require.NoError(t, err)
	assert.Equal(t, status.StatusSubmitted, st)

	for _, in := range []string{"", "shipped", "drafted"} {
		_, err := parseStatus(in)
		assert.Error(t, err, "status=%q", in)
	}
}
