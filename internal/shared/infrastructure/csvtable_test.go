package infrastructure

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVTable(t *testing.T) {
	input := "\ufeffPO_ID, Supplier_ID,Extra\nPO-1,SUP-001,x\nPO-2,SUP-002\n"

	table, err := ReadCSVTable(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.True(t, table.Has("PO_ID"))
	assert.True(t, table.Has("Supplier_ID"))
	assert.Equal(t, "SUP-001", table.Field(0, "Supplier_ID"))
	assert.Equal(t, "", table.Field(1, "Extra"))
	assert.Equal(t, "", table.Field(0, "Unknown"))

	err = table.Require("PO_ID", "Order_Date", "Quantity_Ordered")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Order_Date, Quantity_Ordered")
}

func TestReadCSVTable_Empty(t *testing.T) {
	_, err := ReadCSVTable(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2024-01-15", "2024/01/15", "01/15/2024", "2024-01-15T00:00:00Z"} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}

	withTime, err := ParseDate("2024-01-15 08:30:00")
	require.NoError(t, err)
	assert.Equal(t, 8, withTime.Hour())

	_, err = ParseDate("not a date")
	assert.Error(t, err)
	_, err = ParseDate("  ")
	assert.Error(t, err)
}

func TestParseNumbers(t *testing.T) {
	f, err := ParseFloat("49.90")
	require.NoError(t, err)
	assert.Equal(t, 49.9, f)

	n, err := ParseInt("100.0")
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	_, err = ParseInt("100.5")
	assert.Error(t, err)
	_, err = ParseInt("")
	assert.Error(t, err)
	_, err = ParseFloat("abc")
	assert.Error(t, err)
}
