package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/hotelbill/internal/catalog/domain"
	invoicedomain "github.com/smallbiznis/hotelbill/internal/invoice/domain"
	"github.com/smallbiznis/hotelbill/internal/invoice/pricing"
)

const dateLayout = "2006-01-02"

// List returns invoices most recent first, narrowed by every filter set on req.
func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) ([]invoicedomain.Invoice, error) {
	var names map[int64]string
	wantName := strings.ToLower(strings.TrimSpace(req.EmployeeName))
	if wantName != "" {
		employees, err := s.catalog.ListEmployees(ctx)
		if err != nil {
			return nil, err
		}
		names = make(map[int64]string, len(employees))
		for _, e := range employees {
			names[e.ID] = strings.ToLower(e.FullName)
		}
	}
	date := strings.TrimSpace(req.Date)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]invoicedomain.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		if date != "" && inv.CreatedAt.Format(dateLayout) != date {
			continue
		}
		if wantName != "" {
			if inv.EmployeeID == nil || !strings.Contains(names[*inv.EmployeeID], wantName) {
				continue
			}
		}
		if req.Status != nil && inv.Status != *req.Status {
			continue
		}
		if req.MinTotal != nil && inv.TotalAmount.LessThan(*req.MinTotal) {
			continue
		}
		if req.MaxTotal != nil && inv.TotalAmount.GreaterThan(*req.MaxTotal) {
			continue
		}
		out = append(out, inv.Clone())
	}
	return out, nil
}

// GetDetails resolves an invoice into the complete record receipts print.
func (s *Service) GetDetails(ctx context.Context, id int64) (invoicedomain.InvoiceDetails, error) {
	s.mu.RLock()
	idx := s.invoiceIndex(id)
	if idx < 0 {
		s.mu.RUnlock()
		return invoicedomain.InvoiceDetails{}, invoicedomain.ErrInvoiceNotFound
	}
	inv := s.invoices[idx].Clone()
	lines := s.linesOf(id)
	s.mu.RUnlock()

	totals := make([]pricing.LineTotals, 0, len(lines))
	for _, line := range lines {
		totals = append(totals, line.Totals())
	}

	details := invoicedomain.InvoiceDetails{
		Invoice: inv,
		Items:   lines,
		Totals:  pricing.ComputeInvoiceTotals(totals),
	}
	if inv.EmployeeID != nil {
		employee, err := s.catalog.GetEmployee(ctx, *inv.EmployeeID)
		switch {
		case err == nil:
			details.EmployeeName = employee.FullName
		case errors.Is(err, catalogdomain.ErrNotFound):
			details.EmployeeName = catalogdomain.UnknownName
		default:
			return invoicedomain.InvoiceDetails{}, err
		}
	}
	return details, nil
}

// Stats summarizes the book for the dashboard. Revenue counts paid invoices only.
func (s *Service) Stats(ctx context.Context) (invoicedomain.Stats, error) {
	active, err := s.catalog.ListActiveProducts(ctx)
	if err != nil {
		return invoicedomain.Stats{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	revenue := decimal.Zero
	for _, inv := range s.invoices {
		if inv.Status == invoicedomain.StatusPaid {
			revenue = revenue.Add(inv.TotalAmount)
		}
	}
	return invoicedomain.Stats{
		TotalRevenue:  revenue,
		TotalBills:    len(s.invoices),
		TotalProducts: len(active),
	}, nil
}
