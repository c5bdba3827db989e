package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/hotelbill/internal/invoice/pricing"
)

type LineRequest struct {
	ProductID      int64           `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// InvoiceRequest carries the header fields and full line set of a bill.
// An empty Status means draft on create.
type InvoiceRequest struct {
	Status      Status        `json:"status"`
	Notes       *string       `json:"notes"`
	TableNumber *string       `json:"table_number"`
	OrderType   OrderType     `json:"order_type"`
	EmployeeID  *int64        `json:"employee_id"`
	Items       []LineRequest `json:"items"`
}

// UpdateInvoiceRequest patches header fields only; lines and total stay.
type UpdateInvoiceRequest struct {
	Status      *Status    `json:"status"`
	Notes       *string    `json:"notes"`
	TableNumber *string    `json:"table_number"`
	OrderType   *OrderType `json:"order_type"`
	EmployeeID  *int64     `json:"employee_id"`
}

type ListInvoiceRequest struct {
	// Date matches the YYYY-MM-DD of created_at.
	Date         string
	EmployeeName string
	Status       *Status
	MinTotal     *decimal.Decimal
	MaxTotal     *decimal.Decimal
}

type QuoteLine struct {
	ProductID      int64              `json:"product_id"`
	Description    string             `json:"description"`
	Resolved       bool               `json:"resolved"`
	Quantity       decimal.Decimal    `json:"quantity"`
	UnitPrice      decimal.Decimal    `json:"unit_price"`
	TaxRate        decimal.Decimal    `json:"tax_rate"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Totals         pricing.LineTotals `json:"totals"`
}

type Quote struct {
	Lines  []QuoteLine           `json:"lines"`
	Totals pricing.InvoiceTotals `json:"totals"`
}

type Service interface {
	Quote(ctx context.Context, items []LineRequest) (Quote, error)
	Create(ctx context.Context, identity Identity, req InvoiceRequest) (Invoice, error)
	UpdateWithItems(ctx context.Context, id int64, req InvoiceRequest) (Invoice, error)
	Update(ctx context.Context, id int64, req UpdateInvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Invoice, error)
	GetDetails(ctx context.Context, id int64) (InvoiceDetails, error)
	List(ctx context.Context, req ListInvoiceRequest) ([]Invoice, error)
	Lines(ctx context.Context, invoiceID int64) ([]InvoiceLine, error)
	Stats(ctx context.Context) (Stats, error)
}

var (
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrInvalidLine      = errors.New("invalid_line")
	ErrProductNotFound  = errors.New("product_not_found")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidDiscount  = errors.New("invalid_discount")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidOrderType = errors.New("invalid_order_type")
	ErrInvalidEmployee  = errors.New("invalid_employee")
)

// LineError reports which requested line failed validation.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("items[%d]: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func (e *LineError) Is(target error) bool {
	return target == ErrInvalidLine
}
