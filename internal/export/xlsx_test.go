package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/Skotchmaster/crochet_store/internal/order"
)

func TestOrders(t *testing.T) {
	orders := []order.Order{{
		ID:        "o1",
		Customer:  order.Customer{FullName: "Ali", Email: "ali@x.pk", Phone: "03001234567", Address: "Street 1", City: "Lahore"},
		Items:     []order.Item{{Name: "Baby Booties", Quantity: 2}, {Name: "Heart Garland", Quantity: 1}},
		Payment:   order.Payment{Method: order.MethodCOD, Total: 18845},
		Status:    order.StatusPending,
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, Orders(&buf, orders))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	rows := f.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Order ID", rows[0].Cells[0].Value)
	assert.Equal(t, "o1", rows[1].Cells[0].Value)
	assert.Equal(t, "2025-01-02T03:04:05Z", rows[1].Cells[1].Value)
	assert.Equal(t, "Baby Booties x2, Heart Garland x1", rows[1].Cells[8].Value)
	assert.Equal(t, "18845", rows[1].Cells[10].Value)
}
