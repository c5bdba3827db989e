package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	CategoryID       int64           `json:"category_id"`
	CurrentUnitPrice decimal.Decimal `json:"current_unit_price"`
	TaxSlabID        int64           `json:"tax_slab_id"`
	IsActive         *bool           `json:"is_active"`
}

type UpdateProductRequest struct {
	SKU              *string          `json:"sku"`
	Name             *string          `json:"name"`
	CategoryID       *int64           `json:"category_id"`
	CurrentUnitPrice *decimal.Decimal `json:"current_unit_price"`
	TaxSlabID        *int64           `json:"tax_slab_id"`
	IsActive         *bool            `json:"is_active"`
}

type Service interface {
	GetProduct(ctx context.Context, id int64) (ProductView, error)
	ListProducts(ctx context.Context) ([]ProductView, error)
	ListActiveProducts(ctx context.Context) ([]ProductView, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (ProductView, error)
	UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (ProductView, error)
	DeleteProduct(ctx context.Context, id int64) error

	GetTaxSlab(ctx context.Context, id int64) (TaxSlab, error)
	ListTaxSlabs(ctx context.Context) ([]TaxSlab, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetUserAccount(ctx context.Context, id string) (UserAccount, error)
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidSKU      = errors.New("invalid_sku")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidTaxSlab  = errors.New("invalid_tax_slab")
	ErrDuplicateSKU    = errors.New("duplicate_sku")
)
