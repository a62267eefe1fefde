package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motofix/internal/dto"
	"motofix/internal/metrics"
	"motofix/internal/model"
	"motofix/internal/repository"
	"motofix/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PaymentMethods accepted at checkout.
var PaymentMethods = map[string]bool{"Cash": true, "Transfer": true, "Debit": true, "QRIS": true}

type SaleService interface {
	// RecordSale persists a checkout atomically: the sale row, every line
	// item, the stock decrement of each product line and the customer's
	// last-service stamp either all commit or none do.
	RecordSale(ctx context.Context, cashierID *uuid.UUID, req dto.RecordSaleRequest) (*dto.RecordSaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleListItem, *dto.ListMeta, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleDetailResponse, error)
}

// SaleOptions tunes the recorder. Zero values are filled by NewSaleService.
type SaleOptions struct {
	Invoices           InvoiceGenerator
	AllowNegativeStock bool
	Now                func() time.Time
}

type saleService struct {
	repo       repository.SaleRepository
	products   repository.ProductRepository
	services   repository.ServiceRepository
	dispatcher *worker.Dispatcher
	rdb        *redis.Client
	opts       SaleOptions
}

// NewSaleService wires the recorder. dispatcher and rdb may be nil (tests);
// receipt jobs and cache invalidation are then skipped.
func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	services repository.ServiceRepository,
	dispatcher *worker.Dispatcher,
	rdb *redis.Client,
	opts SaleOptions,
) SaleService {
	if opts.Invoices == nil {
		opts.Invoices = SequenceInvoices{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &saleService{
		repo:       repo,
		products:   products,
		services:   services,
		dispatcher: dispatcher,
		rdb:        rdb,
		opts:       opts,
	}
}

// saleLine is a validated cart line.
type saleLine struct {
	kind     string
	itemID   uuid.UUID
	quantity int
	price    decimal.Decimal
	subtotal decimal.Decimal
}

type saleInput struct {
	customerID *uuid.UUID
	mechanicID *uuid.UUID
	lines      []saleLine
}

// parseSale checks everything that can be checked without the database.
func parseSale(req dto.RecordSaleRequest) (*saleInput, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptySale
	}
	if req.TotalAmount.IsNegative() || req.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: total and discount must not be negative", ErrInvalidAmount)
	}
	if !PaymentMethods[req.PaymentMethod] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	in := &saleInput{lines: make([]saleLine, 0, len(req.Items))}
	var err error
	if in.customerID, err = parseOptionalID(req.CustomerID); err != nil {
		return nil, fmt.Errorf("%w: customer_id", ErrInvalidID)
	}
	if in.mechanicID, err = parseOptionalID(req.MechanicID); err != nil {
		return nil, fmt.Errorf("%w: mechanic_id", ErrInvalidID)
	}

	for i, it := range req.Items {
		if it.Type != model.ItemKindProduct && it.Type != model.ItemKindService {
			return nil, fmt.Errorf("%w: item %d: unknown type %q", ErrInvalidLineItem, i+1, it.Type)
		}
		id, err := uuid.Parse(it.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: bad id", ErrInvalidLineItem, i+1)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d: quantity must be positive", ErrInvalidLineItem, i+1)
		}
		if it.Price.IsNegative() || it.Subtotal.IsNegative() {
			return nil, fmt.Errorf("%w: item %d: negative price", ErrInvalidLineItem, i+1)
		}
		in.lines = append(in.lines, saleLine{
			kind:     it.Type,
			itemID:   id,
			quantity: it.Quantity,
			price:    it.Price,
			subtotal: it.Subtotal,
		})
	}
	return in, nil
}

func parseOptionalID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (s *saleService) RecordSale(ctx context.Context, cashierID *uuid.UUID, req dto.RecordSaleRequest) (*dto.RecordSaleResponse, error) {
	in, err := parseSale(req)
	if err != nil {
		metrics.ObserveSaleFailure("validation")
		return nil, err
	}

	now := s.opts.Now()
	var (
		sale    model.Sale
		changes []repository.StockChange
	)

	err = s.repo.WithTx(ctx, func(tx repository.SaleTx) error {
		changes = changes[:0]

		invoice, err := s.opts.Invoices.Next(ctx, tx, now)
		if err != nil {
			return err
		}

		if in.mechanicID != nil {
			if err := mustExist(tx.MechanicExists(ctx, *in.mechanicID)); err != nil {
				return wrapMissing(err, ErrMechanicNotFound, *in.mechanicID)
			}
		}
		if in.customerID != nil {
			if err := mustExist(tx.CustomerExists(ctx, *in.customerID)); err != nil {
				return wrapMissing(err, ErrCustomerNotFound, *in.customerID)
			}
		}

		sale = model.Sale{
			ID:            uuid.New(),
			InvoiceNo:     invoice,
			CustomerID:    in.customerID,
			MechanicID:    in.mechanicID,
			CashierID:     cashierID,
			TotalAmount:   req.TotalAmount,
			Discount:      req.Discount,
			PaymentMethod: req.PaymentMethod,
			CreatedAt:     now,
		}
		if err := tx.CreateSale(ctx, &sale); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: %s", ErrDuplicateInvoice, invoice)
			}
			return fmt.Errorf("insert sale: %w", err)
		}

		for i, l := range in.lines {
			if l.kind == model.ItemKindService {
				if err := mustExist(tx.ServiceExists(ctx, l.itemID)); err != nil {
					return wrapMissing(err, ErrServiceNotFound, l.itemID)
				}
			}

			item := model.SaleItem{
				ID:        uuid.New(),
				SaleID:    sale.ID,
				Position:  i + 1,
				ItemType:  l.kind,
				ItemID:    l.itemID,
				Quantity:  l.quantity,
				Price:     l.price,
				Subtotal:  l.subtotal,
				CreatedAt: now,
			}
			if err := tx.CreateItem(ctx, &item); err != nil {
				return fmt.Errorf("insert item %d: %w", i+1, err)
			}
			sale.Items = append(sale.Items, item)

			if l.kind != model.ItemKindProduct {
				continue
			}
			ch, err := tx.DecrementStock(ctx, l.itemID, l.quantity, s.opts.AllowNegativeStock)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("%w: %s", ErrProductNotFound, l.itemID)
			case errors.Is(err, repository.ErrInsufficientStock):
				return fmt.Errorf("%w: product %s, requested %d", ErrInsufficientStock, l.itemID, l.quantity)
			case err != nil:
				return fmt.Errorf("decrement stock of %s: %w", l.itemID, err)
			}

			ref := sale.ID
			if err := tx.CreateMovement(ctx, &model.StockMovement{
				ID:          uuid.New(),
				ProductID:   l.itemID,
				Kind:        model.MovementSale,
				Quantity:    -l.quantity,
				StockBefore: ch.Before,
				StockAfter:  ch.After,
				Reason:      "Sale " + invoice,
				ReferenceID: &ref,
				CreatedAt:   now,
			}); err != nil {
				return fmt.Errorf("record stock movement: %w", err)
			}
			changes = append(changes, ch)
		}

		if in.customerID != nil {
			if err := tx.TouchCustomer(ctx, *in.customerID, now); err != nil {
				return wrapMissing(err, ErrCustomerNotFound, *in.customerID)
			}
		}
		return nil
	})
	if err != nil {
		metrics.ObserveSaleFailure(failureReason(err))
		return nil, err
	}

	s.afterCommit(ctx, &sale, changes)

	return &dto.RecordSaleResponse{
		ID:        sale.ID.String(),
		InvoiceNo: sale.InvoiceNo,
		CreatedAt: sale.CreatedAt.Format(time.RFC3339),
	}, nil
}

// afterCommit runs the best-effort side effects. None of them can fail the sale.
func (s *saleService) afterCommit(ctx context.Context, sale *model.Sale, changes []repository.StockChange) {
	metrics.ObserveSale(sale.PaymentMethod, sale.TotalAmount)

	codes := make([]string, 0, len(changes))
	for _, ch := range changes {
		codes = append(codes, ch.Code)
		if ch.After < 0 {
			log.Warn().Str("product_code", ch.Code).Int("stock", ch.After).Msg("sale drove stock negative")
		}
	}
	invalidateLookup(ctx, s.rdb, codes...)

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{SaleID: sale.ID.String()}); err != nil {
			log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to enqueue receipt job")
		}
	}

	log.Info().
		Str("sale_id", sale.ID.String()).
		Str("invoice_no", sale.InvoiceNo).
		Int("items", len(sale.Items)).
		Str("total", sale.TotalAmount.String()).
		Msg("sale recorded")
}

func mustExist(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

func wrapMissing(err, sentinel error, id uuid.UUID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", sentinel, id)
	}
	return err
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrDuplicateInvoice):
		return "duplicate_invoice"
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrServiceNotFound),
		errors.Is(err, ErrCustomerNotFound), errors.Is(err, ErrMechanicNotFound):
		return "missing_reference"
	default:
		return "store"
	}
}

// ── queries ──────────────────────────────────────────────────────────────────

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleListItem, *dto.ListMeta, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Date != "" {
		if _, err := time.Parse("2006-01-02", filter.Date); err != nil {
			return nil, nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRange)
		}
	}

	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	out := make([]dto.SaleListItem, 0, len(sales))
	for i := range sales {
		out = append(out, saleToListItem(&sales[i]))
	}
	return out, &dto.ListMeta{Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleDetailResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	names, err := resolveItemNames(ctx, s.products, s.services, sale.Items)
	if err != nil {
		return nil, err
	}

	resp := &dto.SaleDetailResponse{SaleListItem: saleToListItem(sale)}
	resp.Items = make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		price, subtotal := it.Price, it.Subtotal
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			Position: it.Position,
			Type:     it.ItemType,
			ID:       it.ItemID.String(),
			Name:     names[it.ItemID],
			Quantity: it.Quantity,
			Price:    &price,
			Subtotal: &subtotal,
		})
	}
	return resp, nil
}

// resolveItemNames looks up display names for the products and services
// referenced by items. Deleted catalog entries resolve to "(deleted)".
func resolveItemNames(ctx context.Context, products repository.ProductRepository, services repository.ServiceRepository, items []model.SaleItem) (map[uuid.UUID]string, error) {
	var productIDs, serviceIDs []uuid.UUID
	for _, it := range items {
		if it.ItemType == model.ItemKindProduct {
			productIDs = append(productIDs, it.ItemID)
		} else {
			serviceIDs = append(serviceIDs, it.ItemID)
		}
	}

	names := make(map[uuid.UUID]string, len(items))
	ps, err := products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		names[p.ID] = p.Name
	}
	ss, err := services.FindByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}
	for _, sv := range ss {
		names[sv.ID] = sv.Name
	}
	for _, it := range items {
		if _, ok := names[it.ItemID]; !ok {
			names[it.ItemID] = "(deleted)"
		}
	}
	return names, nil
}

func saleToListItem(s *model.Sale) dto.SaleListItem {
	total, discount := s.TotalAmount, s.Discount
	item := dto.SaleListItem{
		ID:            s.ID.String(),
		InvoiceNo:     s.InvoiceNo,
		TotalAmount:   &total,
		Discount:      &discount,
		PaymentMethod: s.PaymentMethod,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
	if s.CustomerID != nil {
		id := s.CustomerID.String()
		item.CustomerID = &id
	}
	if s.Customer != nil {
		item.CustomerName = s.Customer.Name
	}
	if s.MechanicID != nil {
		id := s.MechanicID.String()
		item.MechanicID = &id
	}
	if s.Mechanic != nil {
		item.MechanicName = s.Mechanic.Name
	}
	return item
}
