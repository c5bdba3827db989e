// Package domain contains the reference catalog types: menu products, tax
// slabs, categories, employees and the user accounts allowed to sign in.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleStaff
}

// Product is a menu entry. Invoices copy price, rate and name at billing time.
type Product struct {
	ID               int64           `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	CategoryID       int64           `json:"category_id"`
	CurrentUnitPrice decimal.Decimal `json:"current_unit_price"`
	TaxSlabID        int64           `json:"tax_slab_id"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductView is a product joined with its tax slab and category.
type ProductView struct {
	Product
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxSlabName  string          `json:"tax_slab_name"`
	CategoryName string          `json:"category_name"`
}

type TaxSlab struct {
	ID   int64           `json:"id"`
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Employee struct {
	ID       int64  `json:"id"`
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type UserAccount struct {
	ID           string `json:"id"`
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	EmployeeID   *int64 `json:"employee_id,omitempty"`
	PasswordHash string `json:"-"`
}

// UnknownName is shown when a product references a missing category or slab.
const UnknownName = "Unknown"
