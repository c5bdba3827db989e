// Package domain contains the invoice book types shared by the engine,
// its persistence and the receipt renderers.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/hotelbill/internal/invoice/pricing"
)

// Status is operator-set; any status may follow any other.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPreparing Status = "preparing"
	StatusServed    Status = "served"
	StatusFinalized Status = "finalized"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{
	StatusDraft,
	StatusPreparing,
	StatusServed,
	StatusFinalized,
	StatusPaid,
	StatusCancelled,
}

func (s Status) Valid() bool {
	for _, candidate := range Statuses {
		if s == candidate {
			return true
		}
	}
	return false
}

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

func (o OrderType) Valid() bool {
	switch o {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	default:
		return false
	}
}

// Invoice is one customer bill.
type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CreatedBy     *string         `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	Status        Status          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Notes         *string         `json:"notes"`
	TableNumber   *string         `json:"table_number"`
	OrderType     OrderType       `json:"order_type"`
	EmployeeID    *int64          `json:"employee_id"`
}

// Clone returns a copy that shares no pointer fields with inv.
func (inv Invoice) Clone() Invoice {
	out := inv
	out.CreatedBy = clonePtr(inv.CreatedBy)
	out.Notes = clonePtr(inv.Notes)
	out.TableNumber = clonePtr(inv.TableNumber)
	out.EmployeeID = clonePtr(inv.EmployeeID)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// InvoiceLine is a priced product entry. Description, unit price and tax
// rate are copies taken when the line was written.
type InvoiceLine struct {
	ID               int64           `json:"id"`
	InvoiceID        int64           `json:"invoice_id"`
	ProductID        int64           `json:"product_id"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	LineTotalExclTax decimal.Decimal `json:"line_total_excl_tax"`
	LineTaxAmount    decimal.Decimal `json:"line_tax_amount"`
	LineTotalInclTax decimal.Decimal `json:"line_total_incl_tax"`
}

func (l InvoiceLine) Totals() pricing.LineTotals {
	return pricing.LineTotals{
		ExclTax: l.LineTotalExclTax,
		Tax:     l.LineTaxAmount,
		InclTax: l.LineTotalInclTax,
	}
}

// Identity is the signed-in user acting on the invoice book.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// InvoiceDetails is the fully resolved record handed to receipt renderers.
type InvoiceDetails struct {
	Invoice      Invoice               `json:"invoice"`
	Items        []InvoiceLine         `json:"items"`
	EmployeeName string                `json:"employee_name"`
	Totals       pricing.InvoiceTotals `json:"totals"`
}

type Stats struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalBills    int             `json:"total_bills"`
	TotalProducts int             `json:"total_products"`
}
