package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shareddomain "supplyperf/internal/shared/domain"
)

func newSupplier(t *testing.T, id string, price float64, category, region string) *Supplier {
	t.Helper()
	money, err := shareddomain.NewMoney(price, "USD")
	require.NoError(t, err)
	sid, err := NewSupplierID(id)
	require.NoError(t, err)
	s, err := NewSupplier(sid, "", money, category, region)
	require.NoError(t, err)
	return s
}

func TestDirectory_LookupKnownSupplier(t *testing.T) {
	dir := NewDirectory()
	dir.Put(newSupplier(t, "SUP-001", 120.5, "Electronics", "Asia"))

	p := dir.Lookup("SUP-001")
	assert.True(t, p.Known)
	assert.Equal(t, 120.5, p.BasePrice)
	assert.Equal(t, "Electronics", p.Category)
	assert.Equal(t, "Asia", p.Region)
}

func TestDirectory_LookupUnknownSupplierUsesDefaults(t *testing.T) {
	dir := NewDirectory()

	p := dir.Lookup("SUP-999")
	assert.False(t, p.Known)
	assert.Equal(t, 50.0, p.BasePrice)
	assert.Equal(t, "Other", p.Category)
	assert.Equal(t, "Other", p.Region)

	var missing *Directory
	assert.Equal(t, p, missing.Lookup("SUP-999"))
	assert.Equal(t, 0, missing.Len())
}

func TestDirectory_BlankLabelsPassThrough(t *testing.T) {
	dir := NewDirectory()
	dir.Put(newSupplier(t, "SUP-002", 10, "  ", ""))

	p := dir.Lookup("SUP-002")
	assert.True(t, p.Known)
	assert.Equal(t, 10.0, p.BasePrice)
	assert.Empty(t, p.Category)
	assert.Empty(t, p.Region)
}

func TestDirectory_DuplicateKeepsLast(t *testing.T) {
	dir := NewDirectory()
	assert.False(t, dir.Put(newSupplier(t, "SUP-003", 10, "Raw", "EU")))
	assert.True(t, dir.Put(newSupplier(t, "SUP-003", 20, "Raw", "US")))

	assert.Equal(t, 1, dir.Len())
	assert.Equal(t, "US", dir.Lookup("SUP-003").Region)
}

func TestDirectory_IDsSorted(t *testing.T) {
	dir := NewDirectory()
	dir.Put(newSupplier(t, "SUP-010", 1, "", ""))
	dir.Put(newSupplier(t, "SUP-002", 1, "", ""))

	assert.Equal(t, []SupplierID{"SUP-002", "SUP-010"}, dir.IDs())
}

func TestNewSupplierID(t *testing.T) {
	_, err := NewSupplierID("   ")
	assert.Error(t, err)

	id, err := NewSupplierID(" SUP-1 ")
	require.NoError(t, err)
	assert.Equal(t, SupplierID("SUP-1"), id)
}
