// Package seed holds the fixture data the catalog and invoice book start
// from when nothing has been persisted yet.
package seed

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/hotelbill/internal/auth/password"
	catalogdomain "github.com/smallbiznis/hotelbill/internal/catalog/domain"
)

var catalogEpoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func TaxSlabs() []catalogdomain.TaxSlab {
	return []catalogdomain.TaxSlab{
		{ID: 1, Name: "GST 0%", Rate: decimal.Zero},
		{ID: 2, Name: "GST 5%", Rate: decimal.NewFromInt(5)},
		{ID: 3, Name: "GST 12%", Rate: decimal.NewFromInt(12)},
		{ID: 4, Name: "GST 18%", Rate: decimal.NewFromInt(18)},
	}
}

func Categories() []catalogdomain.Category {
	return []catalogdomain.Category{
		{ID: 1, Name: "Main Course"},
		{ID: 2, Name: "Beverages"},
		{ID: 3, Name: "Dessert"},
	}
}

func Products() []catalogdomain.Product {
	type row struct {
		name     string
		category int64
		price    int64
		slab     int64
	}
	rows := []row{
		{"Butter Chicken", 1, 320, 2},
		{"Dal Makhani", 1, 250, 2},
		{"Biryani", 1, 280, 2},
		{"Coca Cola", 2, 50, 3},
		{"Mineral Water", 2, 20, 3},
		{"Gulab Jamun", 3, 80, 2},
		{"Ice Cream", 3, 120, 2},
		{"Rice", 1, 100, 2},
	}

	out := make([]catalogdomain.Product, 0, len(rows))
	for i, r := range rows {
		out = append(out, catalogdomain.Product{
			ID:               int64(i + 1),
			SKU:              slug.Make(r.name),
			Name:             r.name,
			CategoryID:       r.category,
			CurrentUnitPrice: decimal.NewFromInt(r.price),
			TaxSlabID:        r.slab,
			IsActive:         true,
			CreatedAt:        catalogEpoch,
			UpdatedAt:        catalogEpoch,
		})
	}
	return out
}

func Employees() []catalogdomain.Employee {
	return []catalogdomain.Employee{
		{ID: 1, UserID: "OWNER001", FullName: "Rajesh Kumar", Role: "Owner", Phone: "+91-98450-11111"},
		{ID: 2, UserID: "STAFF001", FullName: "Priya Sharma", Role: "Waiter", Phone: "+91-98450-22222"},
		{ID: 3, UserID: "STAFF002", FullName: "Amit Patel", Role: "Cashier", Phone: "+91-98450-33333"},
	}
}

// UserAccounts returns the sign-in accounts with freshly hashed passwords.
func UserAccounts() ([]catalogdomain.UserAccount, error) {
	type row struct {
		id       string
		name     string
		role     catalogdomain.Role
		secret   string
		employee int64
	}
	rows := []row{
		{"OWNER001", "Rajesh Kumar", catalogdomain.RoleOwner, "owner123", 1},
		{"STAFF001", "Priya Sharma", catalogdomain.RoleStaff, "staff123", 2},
		{"STAFF002", "Amit Patel", catalogdomain.RoleStaff, "staff123", 3},
	}

	out := make([]catalogdomain.UserAccount, 0, len(rows))
	for _, r := range rows {
		hash, err := password.Hash(r.secret)
		if err != nil {
			return nil, err
		}
		employeeID := r.employee
		out = append(out, catalogdomain.UserAccount{
			ID:           r.id,
			ExternalID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte("hotelbill:"+r.id)).String(),
			Name:         r.name,
			Role:         r.role,
			EmployeeID:   &employeeID,
			PasswordHash: hash,
		})
	}
	return out, nil
}
