package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	invoicedomain "github.com/smallbiznis/hotelbill/internal/invoice/domain"
	"github.com/smallbiznis/hotelbill/internal/kvstore"
)

const (
	InvoicesKey     = "invoices"
	InvoiceItemsKey = "invoiceItems"
)

var (
	// ErrNoSnapshot means the key has never been written.
	ErrNoSnapshot = errors.New("invoice_snapshot_missing")
	// ErrCorruptSnapshot means the key holds data that does not decode into a
	// valid collection. Any other load error is a store failure.
	ErrCorruptSnapshot = errors.New("invoice_snapshot_corrupt")
)

// Repository persists the invoice book as two independently keyed JSON
// documents. Each key loads and fails on its own.
type Repository interface {
	LoadInvoices(ctx context.Context) ([]invoicedomain.Invoice, error)
	LoadLines(ctx context.Context) ([]invoicedomain.InvoiceLine, error)
	SaveInvoices(ctx context.Context, invoices []invoicedomain.Invoice) error
	SaveLines(ctx context.Context, lines []invoicedomain.InvoiceLine) error
}

type repo struct {
	store kvstore.Store
}

func New(store kvstore.Store) Repository {
	return &repo{store: store}
}

func (r *repo) LoadInvoices(ctx context.Context) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	if err := r.load(ctx, InvoicesKey, &invoices); err != nil {
		return nil, err
	}
	if err := validateInvoices(invoices); err != nil {
		return nil, corrupt(InvoicesKey, err)
	}
	return invoices, nil
}

func (r *repo) LoadLines(ctx context.Context) ([]invoicedomain.InvoiceLine, error) {
	var lines []invoicedomain.InvoiceLine
	if err := r.load(ctx, InvoiceItemsKey, &lines); err != nil {
		return nil, err
	}
	if err := validateLines(lines); err != nil {
		return nil, corrupt(InvoiceItemsKey, err)
	}
	return lines, nil
}

func (r *repo) SaveInvoices(ctx context.Context, invoices []invoicedomain.Invoice) error {
	return r.save(ctx, InvoicesKey, invoices)
}

func (r *repo) SaveLines(ctx context.Context, lines []invoicedomain.InvoiceLine) error {
	return r.save(ctx, InvoiceItemsKey, lines)
}

func (r *repo) load(ctx context.Context, key string, out any) error {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, kvstore.ErrNotFound):
			return ErrNoSnapshot
		case errors.Is(err, kvstore.ErrCorruptValue):
			return corrupt(key, err)
		default:
			return fmt.Errorf("read %s: %w", key, err)
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return corrupt(key, err)
	}
	return nil
}

func corrupt(key string, err error) error {
	return fmt.Errorf("decode %s: %w: %w", key, ErrCorruptSnapshot, err)
}

func (r *repo) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, raw)
}

func validateInvoices(invoices []invoicedomain.Invoice) error {
	ids := make(map[int64]struct{}, len(invoices))
	numbers := make(map[string]struct{}, len(invoices))
	for i, inv := range invoices {
		if inv.ID <= 0 {
			return fmt.Errorf("invoice[%d]: missing id", i)
		}
		if _, dup := ids[inv.ID]; dup {
			return fmt.Errorf("invoice[%d]: duplicate id %d", i, inv.ID)
		}
		ids[inv.ID] = struct{}{}

		if inv.InvoiceNumber == "" {
			return fmt.Errorf("invoice[%d]: missing invoice_number", i)
		}
		if _, dup := numbers[inv.InvoiceNumber]; dup {
			return fmt.Errorf("invoice[%d]: duplicate invoice_number %q", i, inv.InvoiceNumber)
		}
		numbers[inv.InvoiceNumber] = struct{}{}

		if inv.CreatedAt.IsZero() {
			return fmt.Errorf("invoice[%d]: missing created_at", i)
		}
		if !inv.Status.Valid() {
			return fmt.Errorf("invoice[%d]: unknown status %q", i, inv.Status)
		}
		if !inv.OrderType.Valid() {
			return fmt.Errorf("invoice[%d]: unknown order_type %q", i, inv.OrderType)
		}
	}
	return nil
}

func validateLines(lines []invoicedomain.InvoiceLine) error {
	ids := make(map[int64]struct{}, len(lines))
	for i, line := range lines {
		if line.ID <= 0 {
			return fmt.Errorf("line[%d]: missing id", i)
		}
		if _, dup := ids[line.ID]; dup {
			return fmt.Errorf("line[%d]: duplicate id %d", i, line.ID)
		}
		ids[line.ID] = struct{}{}

		if line.InvoiceID <= 0 {
			return fmt.Errorf("line[%d]: missing invoice_id", i)
		}
	}
	return nil
}
