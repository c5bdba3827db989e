package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/hotelbill/internal/catalog/domain"
	"github.com/smallbiznis/hotelbill/internal/catalog/repository"
	"github.com/smallbiznis/hotelbill/internal/clock"
	obslogger "github.com/smallbiznis/hotelbill/internal/observability/logger"
	"github.com/smallbiznis/hotelbill/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Repo  repository.Repository
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	repo  repository.Repository
	clock clock.Clock

	mu         sync.RWMutex
	products   []catalogdomain.Product
	taxSlabs   []catalogdomain.TaxSlab
	categories []catalogdomain.Category
	employees  []catalogdomain.Employee
	users      []catalogdomain.UserAccount
}

func New(p Params) (catalogdomain.Service, error) {
	users, err := seed.UserAccounts()
	if err != nil {
		return nil, err
	}

	svc := &Service{
		log:        p.Log.Named("catalog.service"),
		repo:       p.Repo,
		clock:      p.Clock,
		taxSlabs:   seed.TaxSlabs(),
		categories: seed.Categories(),
		employees:  seed.Employees(),
		users:      users,
	}
	products, err := svc.loadProducts(context.Background())
	if err != nil {
		return nil, err
	}
	svc.products = products
	return svc, nil
}

// loadProducts falls back to the fixture menu only when nothing usable is
// stored. A store failure is returned so startup stops before a later write
// can replace the stored menu.
func (s *Service) loadProducts(ctx context.Context) ([]catalogdomain.Product, error) {
	products, err := s.repo.LoadProducts(ctx)
	switch {
	case err == nil:
		return products, nil
	case errors.Is(err, repository.ErrNoSnapshot):
		return seed.Products(), nil
	case errors.Is(err, repository.ErrCorruptSnapshot):
		s.log.Warn("stored products corrupt, using fixtures", zap.Error(err))
		return seed.Products(), nil
	default:
		return nil, fmt.Errorf("restore %s: %w", repository.ProductsKey, err)
	}
}

func (s *Service) GetProduct(ctx context.Context, id int64) (catalogdomain.ProductView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return catalogdomain.ProductView{}, catalogdomain.ErrNotFound
	}
	return s.view(s.products[idx]), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]catalogdomain.ProductView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalogdomain.ProductView, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, s.view(p))
	}
	return out, nil
}

func (s *Service) ListActiveProducts(ctx context.Context) ([]catalogdomain.ProductView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalogdomain.ProductView, 0, len(s.products))
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		out = append(out, s.view(p))
	}
	return out, nil
}

func (s *Service) CreateProduct(ctx context.Context, req catalogdomain.CreateProductRequest) (catalogdomain.ProductView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return catalogdomain.ProductView{}, catalogdomain.ErrInvalidName
	}
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		sku = slug.Make(name)
	}
	if sku == "" {
		return catalogdomain.ProductView{}, catalogdomain.ErrInvalidSKU
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateRefs(req.CategoryID, req.TaxSlabID, req.CurrentUnitPrice); err != nil {
		return catalogdomain.ProductView{}, err
	}
	if s.skuTaken(sku, 0) {
		return catalogdomain.ProductView{}, catalogdomain.ErrDuplicateSKU
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	var maxID int64
	for _, p := range s.products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	now := s.clock.Now()
	product := catalogdomain.Product{
		ID:               maxID + 1,
		SKU:              sku,
		Name:             name,
		CategoryID:       req.CategoryID,
		CurrentUnitPrice: req.CurrentUnitPrice,
		TaxSlabID:        req.TaxSlabID,
		IsActive:         active,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.products = append(s.products, product)
	s.persist(ctx)

	obslogger.WithContext(ctx, s.log).Info("product created", zap.Int64("product_id", product.ID), zap.String("sku", product.SKU))
	return s.view(product), nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, req catalogdomain.UpdateProductRequest) (catalogdomain.ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return catalogdomain.ProductView{}, catalogdomain.ErrNotFound
	}
	product := s.products[idx]

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return catalogdomain.ProductView{}, catalogdomain.ErrInvalidName
		}
		product.Name = name
	}
	if req.SKU != nil {
		sku := strings.TrimSpace(*req.SKU)
		if sku == "" {
			return catalogdomain.ProductView{}, catalogdomain.ErrInvalidSKU
		}
		if s.skuTaken(sku, id) {
			return catalogdomain.ProductView{}, catalogdomain.ErrDuplicateSKU
		}
		product.SKU = sku
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.TaxSlabID != nil {
		product.TaxSlabID = *req.TaxSlabID
	}
	if req.CurrentUnitPrice != nil {
		product.CurrentUnitPrice = *req.CurrentUnitPrice
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := s.validateRefs(product.CategoryID, product.TaxSlabID, product.CurrentUnitPrice); err != nil {
		return catalogdomain.ProductView{}, err
	}

	product.UpdatedAt = s.clock.Now()
	s.products[idx] = product
	s.persist(ctx)

	return s.view(product), nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return catalogdomain.ErrNotFound
	}
	s.products = append(s.products[:idx:idx], s.products[idx+1:]...)
	s.persist(ctx)

	obslogger.WithContext(ctx, s.log).Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *Service) GetTaxSlab(ctx context.Context, id int64) (catalogdomain.TaxSlab, error) {
	for _, slab := range s.taxSlabs {
		if slab.ID == id {
			return slab, nil
		}
	}
	return catalogdomain.TaxSlab{}, catalogdomain.ErrNotFound
}

func (s *Service) ListTaxSlabs(ctx context.Context) ([]catalogdomain.TaxSlab, error) {
	return append([]catalogdomain.TaxSlab(nil), s.taxSlabs...), nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (catalogdomain.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return catalogdomain.Category{}, catalogdomain.ErrNotFound
}

func (s *Service) ListCategories(ctx context.Context) ([]catalogdomain.Category, error) {
	return append([]catalogdomain.Category(nil), s.categories...), nil
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (catalogdomain.Employee, error) {
	for _, e := range s.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return catalogdomain.Employee{}, catalogdomain.ErrNotFound
}

func (s *Service) ListEmployees(ctx context.Context) ([]catalogdomain.Employee, error) {
	return append([]catalogdomain.Employee(nil), s.employees...), nil
}

func (s *Service) GetUserAccount(ctx context.Context, id string) (catalogdomain.UserAccount, error) {
	id = strings.TrimSpace(id)
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return catalogdomain.UserAccount{}, catalogdomain.ErrNotFound
}

// view joins p with its slab and category. Dangling references show as
// Unknown with a zero rate.
func (s *Service) view(p catalogdomain.Product) catalogdomain.ProductView {
	v := catalogdomain.ProductView{
		Product:      p,
		TaxRate:      decimal.Zero,
		TaxSlabName:  catalogdomain.UnknownName,
		CategoryName: catalogdomain.UnknownName,
	}
	for _, slab := range s.taxSlabs {
		if slab.ID == p.TaxSlabID {
			v.TaxRate = slab.Rate
			v.TaxSlabName = slab.Name
			break
		}
	}
	for _, c := range s.categories {
		if c.ID == p.CategoryID {
			v.CategoryName = c.Name
			break
		}
	}
	return v
}

func (s *Service) productIndex(id int64) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) skuTaken(sku string, exceptID int64) bool {
	for _, p := range s.products {
		if p.ID != exceptID && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	return false
}

func (s *Service) validateRefs(categoryID, taxSlabID int64, price decimal.Decimal) error {
	if price.IsNegative() {
		return catalogdomain.ErrInvalidPrice
	}
	if _, err := s.GetCategory(context.Background(), categoryID); err != nil {
		return catalogdomain.ErrInvalidCategory
	}
	if _, err := s.GetTaxSlab(context.Background(), taxSlabID); err != nil {
		return catalogdomain.ErrInvalidTaxSlab
	}
	return nil
}

// persist writes the product list. Failures are logged; the in-memory edit stands.
func (s *Service) persist(ctx context.Context) {
	if err := s.repo.SaveProducts(ctx, s.products); err != nil {
		s.log.Error("failed to persist products", zap.Error(err))
	}
}
