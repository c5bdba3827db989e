package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/smallbiznis/hotelbill/internal/kvstore"
	"github.com/smallbiznis/hotelbill/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripPreservesBook(t *testing.T) {
	ctx := context.Background()
	r := New(kvstore.NewMemoryStore())
	invoices, lines := seed.Invoices()

	require.NoError(t, r.SaveInvoices(ctx, invoices))
	require.NoError(t, r.SaveLines(ctx, lines))

	gotInvoices, err := r.LoadInvoices(ctx)
	require.NoError(t, err)
	gotLines, err := r.LoadLines(ctx)
	require.NoError(t, err)

	require.Len(t, gotInvoices, len(invoices))
	for i := range invoices {
		want, got := invoices[i], gotInvoices[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.InvoiceNumber, got.InvoiceNumber)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, want.Status, got.Status)
		assert.True(t, want.TotalAmount.Equal(got.TotalAmount))
		assert.Equal(t, want.CreatedBy, got.CreatedBy)
		assert.Equal(t, want.TableNumber, got.TableNumber)
		assert.Equal(t, want.Notes, got.Notes)
		assert.Equal(t, want.OrderType, got.OrderType)
		assert.Equal(t, want.EmployeeID, got.EmployeeID)
	}

	require.Len(t, gotLines, len(lines))
	for i := range lines {
		want, got := lines[i], gotLines[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.InvoiceID, got.InvoiceID)
		assert.Equal(t, want.ProductID, got.ProductID)
		assert.Equal(t, want.Description, got.Description)
		assert.True(t, want.Quantity.Equal(got.Quantity))
		assert.True(t, want.UnitPrice.Equal(got.UnitPrice))
		assert.True(t, want.TaxRate.Equal(got.TaxRate))
		assert.True(t, want.DiscountAmount.Equal(got.DiscountAmount))
		assert.True(t, want.LineTotalExclTax.Equal(got.LineTotalExclTax))
		assert.True(t, want.LineTaxAmount.Equal(got.LineTaxAmount))
		assert.True(t, want.LineTotalInclTax.Equal(got.LineTotalInclTax))
	}
}

func TestLoadMissingKeys(t *testing.T) {
	r := New(kvstore.NewMemoryStore())

	_, err := r.LoadInvoices(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
	_, err = r.LoadLines(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestLoadRejectsMalformedDocuments(t *testing.T) {
	cases := []struct {
		name string
		key  string
		raw  string
	}{
		{"invoices not json", InvoicesKey, "{oops"},
		{"invoices wrong shape", InvoicesKey, `{"id":1}`},
		{"invoice without id", InvoicesKey, `[{"invoice_number":"INV-1","created_at":"2024-01-01T00:00:00Z","status":"paid","order_type":"dine-in","total_amount":"1"}]`},
		{"invoice bad status", InvoicesKey, `[{"id":1,"invoice_number":"INV-1","created_at":"2024-01-01T00:00:00Z","status":"lost","order_type":"dine-in","total_amount":"1"}]`},
		{"duplicate invoice ids", InvoicesKey, `[{"id":1,"invoice_number":"INV-1","created_at":"2024-01-01T00:00:00Z","status":"paid","order_type":"dine-in","total_amount":"1"},{"id":1,"invoice_number":"INV-2","created_at":"2024-01-01T00:00:00Z","status":"paid","order_type":"dine-in","total_amount":"1"}]`},
		{"lines not json", InvoiceItemsKey, "]["},
		{"line without invoice", InvoiceItemsKey, `[{"id":1,"product_id":2,"quantity":"1"}]`},
		{"duplicate line ids", InvoiceItemsKey, `[{"id":1,"invoice_id":1},{"id":1,"invoice_id":2}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := kvstore.NewMemoryStore()
			require.NoError(t, store.Set(context.Background(), tc.key, []byte(tc.raw)))
			r := New(store)

			var err error
			if tc.key == InvoicesKey {
				_, err = r.LoadInvoices(context.Background())
			} else {
				_, err = r.LoadLines(context.Background())
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
			assert.NotErrorIs(t, err, ErrNoSnapshot)
		})
	}
}

type unavailableStore struct {
	kvstore.Store
}

func (unavailableStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("dial tcp 10.0.0.5:6379: connect: connection refused")
}

func TestLoadSurfacesStoreFailures(t *testing.T) {
	r := New(unavailableStore{Store: kvstore.NewMemoryStore()})

	_, err := r.LoadInvoices(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot)
	assert.NotErrorIs(t, err, ErrCorruptSnapshot)

	_, err = r.LoadLines(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorruptSnapshot)
}

func TestLoadTreatsDamagedCompressionAsCorrupt(t *testing.T) {
	inner := kvstore.NewMemoryStore()
	require.NoError(t, inner.Set(context.Background(), InvoicesKey, append([]byte("\xffsnp"), 0xff, 0xff, 0xff)))

	_, err := New(kvstore.NewSnappyStore(inner)).LoadInvoices(context.Background())
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}
