package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/hotelbill/internal/catalog/domain"
	"github.com/smallbiznis/hotelbill/internal/clock"
	"github.com/smallbiznis/hotelbill/internal/config"
	invoicedomain "github.com/smallbiznis/hotelbill/internal/invoice/domain"
	"github.com/smallbiznis/hotelbill/internal/invoice/format"
	"github.com/smallbiznis/hotelbill/internal/invoice/pricing"
	"github.com/smallbiznis/hotelbill/internal/invoice/repository"
	obslogger "github.com/smallbiznis/hotelbill/internal/observability/logger"
	"github.com/smallbiznis/hotelbill/internal/observability/metrics"
	"github.com/smallbiznis/hotelbill/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Config  config.Config
	Clock   clock.Clock
	Repo    repository.Repository
	Catalog catalogdomain.Service
	Metrics *metrics.Metrics `optional:"true"`
}

// Service owns the invoice book. Writers hold mu exclusively because ids are
// assigned as max+1.
type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	repo    repository.Repository
	catalog catalogdomain.Service
	metrics *metrics.Metrics
	seq     *format.Sequencer

	mu       sync.RWMutex
	invoices []invoicedomain.Invoice
	lines    []invoicedomain.InvoiceLine
}

func NewService(p ServiceParam) (invoicedomain.Service, error) {
	template := strings.TrimSpace(p.Config.InvoiceNumberTemplate)
	if template == "" {
		template = format.DefaultInvoiceNumberTemplate
	}
	if err := format.ValidateTemplate(template); err != nil {
		return nil, fmt.Errorf("invoice number template: %w", err)
	}

	s := &Service{
		log:     p.Log.Named("invoice.service"),
		clock:   p.Clock,
		repo:    p.Repo,
		catalog: p.Catalog,
		metrics: p.Metrics,
		seq:     format.NewSequencer(template),
	}
	if err := s.restore(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// restore loads both collections independently. A missing or corrupt key
// falls back to its fixture collection. Any other load error aborts startup
// so the next write cannot replace the stored book with fixtures.
func (s *Service) restore(ctx context.Context) error {
	fixtureInvoices, fixtureLines := seed.Invoices()

	invoices, err := s.repo.LoadInvoices(ctx)
	if err != nil {
		if !canFallBack(err) {
			return fmt.Errorf("restore %s: %w", repository.InvoicesKey, err)
		}
		invoices = fixtureInvoices
		s.noteFallback(repository.InvoicesKey, err)
	}
	lines, err := s.repo.LoadLines(ctx)
	if err != nil {
		if !canFallBack(err) {
			return fmt.Errorf("restore %s: %w", repository.InvoiceItemsKey, err)
		}
		lines = fixtureLines
		s.noteFallback(repository.InvoiceItemsKey, err)
	}

	known := make(map[int64]struct{}, len(invoices))
	for _, inv := range invoices {
		known[inv.ID] = struct{}{}
	}
	kept := lines[:0:0]
	for _, line := range lines {
		if _, ok := known[line.InvoiceID]; !ok {
			s.log.Warn("dropping orphan invoice line",
				zap.Int64("line_id", line.ID),
				zap.Int64("invoice_id", line.InvoiceID),
			)
			continue
		}
		kept = append(kept, line)
	}

	s.invoices = invoices
	s.lines = kept
	return nil
}

func canFallBack(err error) bool {
	return errors.Is(err, repository.ErrNoSnapshot) || errors.Is(err, repository.ErrCorruptSnapshot)
}

func (s *Service) noteFallback(key string, err error) {
	if errors.Is(err, repository.ErrNoSnapshot) {
		s.log.Debug("no stored snapshot, using fixtures", zap.String("key", key))
		return
	}
	s.log.Warn("stored snapshot corrupt, using fixtures", zap.String("key", key), zap.Error(err))
	s.metrics.IncPersistFallback(key, "corrupt")
}

// persist writes both collections. Failures are logged and counted only; the
// in-memory state stays authoritative.
func (s *Service) persist(ctx context.Context) {
	if err := s.repo.SaveInvoices(ctx, s.invoices); err != nil {
		s.log.Error("failed to persist invoices", zap.String("key", repository.InvoicesKey), zap.Error(err))
		s.metrics.IncPersistFailure(repository.InvoicesKey)
	}
	if err := s.repo.SaveLines(ctx, s.lines); err != nil {
		s.log.Error("failed to persist invoice lines", zap.String("key", repository.InvoiceItemsKey), zap.Error(err))
		s.metrics.IncPersistFailure(repository.InvoiceItemsKey)
	}
}

func (s *Service) Create(ctx context.Context, identity invoicedomain.Identity, req invoicedomain.InvoiceRequest) (invoicedomain.Invoice, error) {
	if req.Status == "" {
		req.Status = invoicedomain.StatusDraft
	}
	if req.OrderType == "" {
		req.OrderType = invoicedomain.OrderTypeDineIn
	}
	if err := s.validateHeader(ctx, &req.Status, &req.OrderType, req.EmployeeID); err != nil {
		s.metrics.IncInvoiceRejected(metrics.OperationCreate, reasonOf(err))
		return invoicedomain.Invoice{}, err
	}
	priced, err := s.priceLines(ctx, req.Items)
	if err != nil {
		s.metrics.IncInvoiceRejected(metrics.OperationCreate, reasonOf(err))
		return invoicedomain.Invoice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	number, err := s.seq.Next(now, s.numberTaken)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	inv := invoicedomain.Invoice{
		ID:            s.maxInvoiceID() + 1,
		InvoiceNumber: number,
		CreatedAt:     now,
		Status:        req.Status,
		Notes:         req.Notes,
		TableNumber:   req.TableNumber,
		OrderType:     req.OrderType,
		EmployeeID:    req.EmployeeID,
	}
	if identity.UserID != "" {
		createdBy := identity.UserID
		inv.CreatedBy = &createdBy
	}

	newLines := s.assignLines(inv.ID, priced)
	inv.TotalAmount = sumIncl(newLines)

	s.invoices = append([]invoicedomain.Invoice{inv.Clone()}, s.invoices...)
	s.lines = append(newLines, s.lines...)
	s.persist(ctx)

	s.metrics.IncInvoiceOperation(metrics.OperationCreate)
	obslogger.WithContext(ctx, s.log).Info("invoice created",
		zap.Int64("invoice_id", inv.ID),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("lines", len(newLines)),
		zap.String("total", inv.TotalAmount.String()),
	)
	return inv.Clone(), nil
}

func (s *Service) UpdateWithItems(ctx context.Context, id int64, req invoicedomain.InvoiceRequest) (invoicedomain.Invoice, error) {
	if err := s.validateHeader(ctx, &req.Status, &req.OrderType, req.EmployeeID); err != nil {
		s.metrics.IncInvoiceRejected(metrics.OperationUpdate, reasonOf(err))
		return invoicedomain.Invoice{}, err
	}
	priced, err := s.priceLines(ctx, req.Items)
	if err != nil {
		s.metrics.IncInvoiceRejected(metrics.OperationUpdate, reasonOf(err))
		return invoicedomain.Invoice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		s.metrics.IncInvoiceRejected(metrics.OperationUpdate, "not_found")
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}

	remaining := s.lines[:0:0]
	for _, line := range s.lines {
		if line.InvoiceID != id {
			remaining = append(remaining, line)
		}
	}
	s.lines = remaining
	newLines := s.assignLines(id, priced)
	s.lines = append(s.lines, newLines...)

	inv := s.invoices[idx]
	if req.Status != "" {
		inv.Status = req.Status
	}
	if req.OrderType != "" {
		inv.OrderType = req.OrderType
	}
	inv.Notes = req.Notes
	inv.TableNumber = req.TableNumber
	inv.EmployeeID = req.EmployeeID
	inv.TotalAmount = sumIncl(newLines)
	s.invoices[idx] = inv.Clone()
	s.persist(ctx)

	s.metrics.IncInvoiceOperation(metrics.OperationUpdate)
	obslogger.WithContext(ctx, s.log).Info("invoice updated",
		zap.Int64("invoice_id", id),
		zap.Int("lines", len(newLines)),
		zap.String("total", inv.TotalAmount.String()),
	)
	return inv.Clone(), nil
}

// Update patches header fields. Lines and total_amount are untouched.
func (s *Service) Update(ctx context.Context, id int64, req invoicedomain.UpdateInvoiceRequest) (invoicedomain.Invoice, error) {
	operation := metrics.OperationUpdate
	if req.Status != nil && req.Notes == nil && req.TableNumber == nil && req.OrderType == nil && req.EmployeeID == nil {
		operation = metrics.OperationUpdateStatus
	}

	var status invoicedomain.Status
	if req.Status != nil {
		status = *req.Status
		if status == "" {
			s.metrics.IncInvoiceRejected(operation, "invalid_status")
			return invoicedomain.Invoice{}, invoicedomain.ErrInvalidStatus
		}
	}
	var orderType invoicedomain.OrderType
	if req.OrderType != nil {
		orderType = *req.OrderType
		if orderType == "" {
			s.metrics.IncInvoiceRejected(operation, "invalid_order_type")
			return invoicedomain.Invoice{}, invoicedomain.ErrInvalidOrderType
		}
	}
	if err := s.validateHeader(ctx, &status, &orderType, req.EmployeeID); err != nil {
		s.metrics.IncInvoiceRejected(operation, reasonOf(err))
		return invoicedomain.Invoice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		s.metrics.IncInvoiceRejected(operation, "not_found")
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}

	inv := s.invoices[idx]
	if req.Status != nil {
		inv.Status = status
	}
	if req.OrderType != nil {
		inv.OrderType = orderType
	}
	if req.Notes != nil {
		inv.Notes = req.Notes
	}
	if req.TableNumber != nil {
		inv.TableNumber = req.TableNumber
	}
	if req.EmployeeID != nil {
		inv.EmployeeID = req.EmployeeID
	}
	s.invoices[idx] = inv.Clone()
	s.persist(ctx)

	s.metrics.IncInvoiceOperation(operation)
	obslogger.WithContext(ctx, s.log).Info("invoice patched", zap.Int64("invoice_id", id), zap.String("status", string(inv.Status)))
	return inv.Clone(), nil
}

// Delete removes the invoice and its lines. An unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		s.log.Debug("delete of unknown invoice ignored", zap.Int64("invoice_id", id))
		return nil
	}

	s.invoices = append(s.invoices[:idx:idx], s.invoices[idx+1:]...)
	kept := s.lines[:0:0]
	removed := 0
	for _, line := range s.lines {
		if line.InvoiceID == id {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	s.lines = kept
	s.persist(ctx)

	s.metrics.IncInvoiceOperation(metrics.OperationDelete)
	obslogger.WithContext(ctx, s.log).Info("invoice deleted", zap.Int64("invoice_id", id), zap.Int("lines_removed", removed))
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (invoicedomain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
	}
	return s.invoices[idx].Clone(), nil
}

func (s *Service) Lines(ctx context.Context, invoiceID int64) ([]invoicedomain.InvoiceLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.invoiceIndex(invoiceID) < 0 {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	return s.linesOf(invoiceID), nil
}

// Quote prices a draft line set without touching the book. Unresolved
// products price as zero lines instead of failing.
func (s *Service) Quote(ctx context.Context, items []invoicedomain.LineRequest) (invoicedomain.Quote, error) {
	out := invoicedomain.Quote{Lines: make([]invoicedomain.QuoteLine, 0, len(items))}
	totals := make([]pricing.LineTotals, 0, len(items))

	for _, item := range items {
		line := invoicedomain.QuoteLine{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			DiscountAmount: item.DiscountAmount,
			UnitPrice:      decimal.Zero,
			TaxRate:        decimal.Zero,
		}

		var product *catalogdomain.ProductView
		view, err := s.catalog.GetProduct(ctx, item.ProductID)
		switch {
		case err == nil:
			product = &view
			line.Resolved = true
			line.Description = view.Name
			line.UnitPrice = view.CurrentUnitPrice
			line.TaxRate = view.TaxRate
		case errors.Is(err, catalogdomain.ErrNotFound):
		default:
			return invoicedomain.Quote{}, err
		}

		line.Totals = pricing.ComputeLineTotals(product, item.Quantity, item.DiscountAmount)
		totals = append(totals, line.Totals)
		out.Lines = append(out.Lines, line)
	}

	out.Totals = pricing.ComputeInvoiceTotals(totals)
	return out, nil
}

type pricedLine struct {
	product  catalogdomain.ProductView
	quantity decimal.Decimal
	discount decimal.Decimal
	totals   pricing.LineTotals
}

// priceLines resolves and prices every requested line, failing on the first
// invalid one. It never touches the book.
func (s *Service) priceLines(ctx context.Context, items []invoicedomain.LineRequest) ([]pricedLine, error) {
	out := make([]pricedLine, 0, len(items))
	for i, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, &invoicedomain.LineError{Index: i, Err: invoicedomain.ErrInvalidQuantity}
		}
		if item.DiscountAmount.IsNegative() {
			return nil, &invoicedomain.LineError{Index: i, Err: invoicedomain.ErrInvalidDiscount}
		}

		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalogdomain.ErrNotFound) {
				return nil, &invoicedomain.LineError{Index: i, Err: invoicedomain.ErrProductNotFound}
			}
			return nil, err
		}

		out = append(out, pricedLine{
			product:  product,
			quantity: item.Quantity,
			discount: item.DiscountAmount,
			totals:   pricing.ComputeLineTotals(&product, item.Quantity, item.DiscountAmount),
		})
	}
	return out, nil
}

// assignLines snapshots priced lines under invoiceID with ids continuing from
// the current max line id. Callers hold mu.
func (s *Service) assignLines(invoiceID int64, priced []pricedLine) []invoicedomain.InvoiceLine {
	next := s.maxLineID() + 1
	out := make([]invoicedomain.InvoiceLine, 0, len(priced))
	for _, p := range priced {
		out = append(out, invoicedomain.InvoiceLine{
			ID:               next,
			InvoiceID:        invoiceID,
			ProductID:        p.product.ID,
			Description:      p.product.Name,
			Quantity:         p.quantity,
			UnitPrice:        p.product.CurrentUnitPrice,
			TaxRate:          p.product.TaxRate,
			DiscountAmount:   p.discount,
			LineTotalExclTax: p.totals.ExclTax,
			LineTaxAmount:    p.totals.Tax,
			LineTotalInclTax: p.totals.InclTax,
		})
		next++
	}
	return out
}

func (s *Service) validateHeader(ctx context.Context, status *invoicedomain.Status, orderType *invoicedomain.OrderType, employeeID *int64) error {
	if *status != "" && !status.Valid() {
		return invoicedomain.ErrInvalidStatus
	}
	if *orderType != "" && !orderType.Valid() {
		return invoicedomain.ErrInvalidOrderType
	}
	if employeeID != nil {
		if _, err := s.catalog.GetEmployee(ctx, *employeeID); err != nil {
			if errors.Is(err, catalogdomain.ErrNotFound) {
				return invoicedomain.ErrInvalidEmployee
			}
			return err
		}
	}
	return nil
}

func (s *Service) numberTaken(number string) bool {
	for _, inv := range s.invoices {
		if inv.InvoiceNumber == number {
			return true
		}
	}
	return false
}

func (s *Service) invoiceIndex(id int64) int {
	for i, inv := range s.invoices {
		if inv.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) linesOf(invoiceID int64) []invoicedomain.InvoiceLine {
	out := make([]invoicedomain.InvoiceLine, 0)
	for _, line := range s.lines {
		if line.InvoiceID == invoiceID {
			out = append(out, line)
		}
	}
	return out
}

func (s *Service) maxInvoiceID() int64 {
	var highest int64
	for _, inv := range s.invoices {
		if inv.ID > highest {
			highest = inv.ID
		}
	}
	return highest
}

func (s *Service) maxLineID() int64 {
	var highest int64
	for _, line := range s.lines {
		if line.ID > highest {
			highest = line.ID
		}
	}
	return highest
}

func sumIncl(lines []invoicedomain.InvoiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotalInclTax)
	}
	return total
}

func reasonOf(err error) string {
	var lineErr *invoicedomain.LineError
	if errors.As(err, &lineErr) {
		return lineErr.Err.Error()
	}
	return err.Error()
}
