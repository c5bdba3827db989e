package seed

import (
	"time"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/hotelbill/internal/catalog/domain"
	invoicedomain "github.com/smallbiznis/hotelbill/internal/invoice/domain"
	"github.com/smallbiznis/hotelbill/internal/invoice/pricing"
)

type seedLine struct {
	productID int64
	qty       int64
	discount  decimal.Decimal
}

type seedInvoice struct {
	number    string
	createdBy string
	createdAt time.Time
	status    invoicedomain.Status
	orderType invoicedomain.OrderType
	table     string
	employee  int64
	notes     string
	lines     []seedLine
}

var seedInvoices = []seedInvoice{
	{
		number:    "INV-2024-001",
		createdBy: "STAFF001",
		createdAt: time.Date(2024, 1, 15, 13, 5, 0, 0, time.UTC),
		status:    invoicedomain.StatusPaid,
		orderType: invoicedomain.OrderTypeDineIn,
		table:     "T4",
		employee:  2,
		lines:     []seedLine{{productID: 2, qty: 2}, {productID: 4, qty: 3}},
	},
	{
		number:    "INV-2024-002",
		createdBy: "STAFF002",
		createdAt: time.Date(2024, 1, 16, 20, 10, 0, 0, time.UTC),
		status:    invoicedomain.StatusPaid,
		orderType: invoicedomain.OrderTypeTakeaway,
		employee:  3,
		lines:     []seedLine{{productID: 1, qty: 1}, {productID: 6, qty: 2}},
	},
	{
		number:    "INV-2024-003",
		createdBy: "STAFF001",
		createdAt: time.Date(2024, 1, 17, 19, 30, 0, 0, time.UTC),
		status:    invoicedomain.StatusPreparing,
		orderType: invoicedomain.OrderTypeDineIn,
		table:     "T2",
		employee:  2,
		notes:     "Less spicy",
		lines:     []seedLine{{productID: 3, qty: 2}, {productID: 5, qty: 4}},
	},
}

// Invoices returns the fixture invoice book, most recent first, priced
// against the fixture catalog.
func Invoices() ([]invoicedomain.Invoice, []invoicedomain.InvoiceLine) {
	products := productViews()

	invoices := make([]invoicedomain.Invoice, 0, len(seedInvoices))
	lines := make([]invoicedomain.InvoiceLine, 0)
	var lineID int64

	for i, s := range seedInvoices {
		invoiceID := int64(i + 1)
		total := decimal.Zero

		for _, l := range s.lines {
			p := products[l.productID]
			qty := decimal.NewFromInt(l.qty)
			totals := pricing.ComputeLineTotals(&p, qty, l.discount)
			lineID++
			lines = append(lines, invoicedomain.InvoiceLine{
				ID:               lineID,
				InvoiceID:        invoiceID,
				ProductID:        p.ID,
				Description:      p.Name,
				Quantity:         qty,
				UnitPrice:        p.CurrentUnitPrice,
				TaxRate:          p.TaxRate,
				DiscountAmount:   l.discount,
				LineTotalExclTax: totals.ExclTax,
				LineTaxAmount:    totals.Tax,
				LineTotalInclTax: totals.InclTax,
			})
			total = total.Add(totals.InclTax)
		}

		createdBy := s.createdBy
		employee := s.employee
		inv := invoicedomain.Invoice{
			ID:            invoiceID,
			InvoiceNumber: s.number,
			CreatedBy:     &createdBy,
			CreatedAt:     s.createdAt,
			Status:        s.status,
			TotalAmount:   total,
			OrderType:     s.orderType,
			EmployeeID:    &employee,
		}
		if s.table != "" {
			table := s.table
			inv.TableNumber = &table
		}
		if s.notes != "" {
			notes := s.notes
			inv.Notes = &notes
		}
		invoices = append([]invoicedomain.Invoice{inv}, invoices...)
	}
	return invoices, lines
}

func productViews() map[int64]catalogdomain.ProductView {
	slabs := make(map[int64]catalogdomain.TaxSlab)
	for _, s := range TaxSlabs() {
		slabs[s.ID] = s
	}
	out := make(map[int64]catalogdomain.ProductView)
	for _, p := range Products() {
		out[p.ID] = catalogdomain.ProductView{Product: p, TaxRate: slabs[p.TaxSlabID].Rate}
	}
	return out
}
