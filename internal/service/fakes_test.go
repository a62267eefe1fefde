package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"motofix/internal/dto"
	"motofix/internal/model"
	"motofix/internal/repository"

	"github.com/google/uuid"
)

// ── In-memory store ──────────────────────────────────────────────────────────

// memStore is an in-memory stand-in for the database. WithTx works on a copy
// of the state and only swaps it in when fn succeeds, so rollback behaves like
// a real transaction. The invoice sequence is not transactional, as in
// PostgreSQL.
type memStore struct {
	mu sync.Mutex

	products  map[uuid.UUID]model.Product
	services  map[uuid.UUID]model.Service
	customers map[uuid.UUID]model.Customer
	mechanics map[uuid.UUID]model.Mechanic
	sales     map[uuid.UUID]model.Sale
	items     []model.SaleItem
	movements []model.StockMovement
	seq       int64

	// failItemAt makes CreateItem fail for the line at that 1-based position.
	failItemAt int
	touches    int
	// afterProductRead runs once, outside the lock, after the next product
	// FindByID. Tests use it to commit a sale between a read and a write.
	afterProductRead func()
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uuid.UUID]model.Product),
		services:  make(map[uuid.UUID]model.Service),
		customers: make(map[uuid.UUID]model.Customer),
		mechanics: make(map[uuid.UUID]model.Mechanic),
		sales:     make(map[uuid.UUID]model.Sale),
	}
}

func (s *memStore) addProduct(code string, stock int) model.Product {
	p := model.Product{ID: uuid.New(), Code: code, Name: "Part " + code, Stock: stock, MinStock: 1}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addService(name string) model.Service {
	sv := model.Service{ID: uuid.New(), Name: name}
	s.services[sv.ID] = sv
	return sv
}

func (s *memStore) addCustomer(name string) model.Customer {
	c := model.Customer{ID: uuid.New(), Name: name, Status: model.StatusActive}
	s.customers[c.ID] = c
	return c
}

func (s *memStore) addMechanic(name string) model.Mechanic {
	m := model.Mechanic{ID: uuid.New(), Name: name, Status: model.StatusActive}
	s.mechanics[m.ID] = m
	return m
}

func (s *memStore) stock(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) customer(id uuid.UUID) model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customers[id]
}

func (s *memStore) saleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

func (s *memStore) itemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

type memState struct {
	products  map[uuid.UUID]model.Product
	customers map[uuid.UUID]model.Customer
	sales     map[uuid.UUID]model.Sale
	items     []model.SaleItem
	movements []model.StockMovement
	touches   int
}

func (s *memStore) snapshot() *memState {
	st := &memState{
		products:  make(map[uuid.UUID]model.Product, len(s.products)),
		customers: make(map[uuid.UUID]model.Customer, len(s.customers)),
		sales:     make(map[uuid.UUID]model.Sale, len(s.sales)),
		items:     append([]model.SaleItem(nil), s.items...),
		movements: append([]model.StockMovement(nil), s.movements...),
		touches:   s.touches,
	}
	for k, v := range s.products {
		st.products[k] = v
	}
	for k, v := range s.customers {
		st.customers[k] = v
	}
	for k, v := range s.sales {
		st.sales[k] = v
	}
	return st
}

func (s *memStore) commit(st *memState) {
	s.products = st.products
	s.customers = st.customers
	s.sales = st.sales
	s.items = st.items
	s.movements = st.movements
	s.touches = st.touches
}

// ── repository.SaleRepository ────────────────────────────────────────────────

func (s *memStore) WithTx(_ context.Context, fn func(tx repository.SaleTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.snapshot()
	if err := fn(&memTx{store: s, st: st}); err != nil {
		return err
	}
	s.commit(st)
	return nil
}

func (s *memStore) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sale.Items = nil
	for _, it := range s.items {
		if it.SaleID == id {
			sale.Items = append(sale.Items, it)
		}
	}
	sort.Slice(sale.Items, func(i, j int) bool { return sale.Items[i].Position < sale.Items[j].Position })
	if sale.CustomerID != nil {
		c := s.customers[*sale.CustomerID]
		sale.Customer = &c
	}
	if sale.MechanicID != nil {
		m := s.mechanics[*sale.MechanicID]
		sale.Mechanic = &m
	}
	return &sale, nil
}

func (s *memStore) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.Sale
	for _, sale := range s.sales {
		if filter.Date != "" && sale.CreatedAt.Format("2006-01-02") != filter.Date {
			continue
		}
		all = append(all, sale)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.SaleRepository = (*memStore)(nil)

// ── repository.SaleTx ────────────────────────────────────────────────────────

type memTx struct {
	store *memStore
	st    *memState
}

func (t *memTx) NextInvoiceSeq(context.Context) (int64, error) {
	t.store.seq++
	return t.store.seq, nil
}

func (t *memTx) CustomerExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := t.st.customers[id]
	return ok, nil
}

func (t *memTx) MechanicExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := t.store.mechanics[id]
	return ok, nil
}

func (t *memTx) ServiceExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := t.store.services[id]
	return ok, nil
}

func (t *memTx) CreateSale(_ context.Context, sale *model.Sale) error {
	for _, existing := range t.st.sales {
		if existing.InvoiceNo == sale.InvoiceNo {
			return fmt.Errorf("%w: invoice_no", repository.ErrDuplicate)
		}
	}
	t.st.sales[sale.ID] = *sale
	return nil
}

func (t *memTx) CreateItem(_ context.Context, item *model.SaleItem) error {
	if t.store.failItemAt != 0 && item.Position == t.store.failItemAt {
		return errors.New("disk full")
	}
	t.st.items = append(t.st.items, *item)
	return nil
}

func (t *memTx) DecrementStock(_ context.Context, id uuid.UUID, qty int, allowNegative bool) (repository.StockChange, error) {
	p, ok := t.st.products[id]
	if !ok {
		return repository.StockChange{}, repository.ErrNotFound
	}
	if !allowNegative && p.Stock < qty {
		return repository.StockChange{}, repository.ErrInsufficientStock
	}
	before := p.Stock
	p.Stock -= qty
	t.st.products[id] = p
	return repository.StockChange{ProductID: id, Code: p.Code, Before: before, After: p.Stock}, nil
}

func (t *memTx) CreateMovement(_ context.Context, m *model.StockMovement) error {
	t.st.movements = append(t.st.movements, *m)
	return nil
}

func (t *memTx) TouchCustomer(_ context.Context, id uuid.UUID, at time.Time) error {
	c, ok := t.st.customers[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.LastService = &at
	t.st.customers[id] = c
	t.st.touches++
	return nil
}

var _ repository.SaleTx = (*memTx)(nil)

// ── repository.ProductRepository / ServiceRepository views ───────────────────

type memProducts struct{ store *memStore }

func (r memProducts) Create(_ context.Context, p *model.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.products {
		if existing.Code == p.Code {
			return fmt.Errorf("%w: code", repository.ErrDuplicate)
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.store.products[p.ID] = *p
	return nil
}

func (r memProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.store.mu.Lock()
	p, ok := r.store.products[id]
	hook := r.store.afterProductRead
	r.store.afterProductRead = nil
	r.store.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) FindByCode(_ context.Context, code string) (*model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.store.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Product
	for _, p := range r.store.products {
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Code), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.LowStock && !p.LowStock() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memProducts) Update(_ context.Context, id uuid.UUID, edit func(p *model.Product) error) (*model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	before := p.Stock
	if err := edit(&p); err != nil {
		return nil, err
	}
	for otherID, other := range r.store.products {
		if otherID != id && other.Code == p.Code {
			return nil, fmt.Errorf("%w: code", repository.ErrDuplicate)
		}
	}
	r.store.products[id] = p
	if p.Stock != before {
		r.store.movements = append(r.store.movements, model.StockMovement{
			ID: uuid.New(), ProductID: id, Kind: model.MovementAdjustment,
			Quantity: p.Stock - before, StockBefore: before, StockAfter: p.Stock,
			Reason: "Manual adjustment",
		})
	}
	return &p, nil
}

func (r memProducts) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.products, id)
	return nil
}

func (r memProducts) ListMovements(_ context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.StockMovement
	for i := len(r.store.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.store.movements[i].ProductID == productID {
			out = append(out, r.store.movements[i])
		}
	}
	return out, nil
}

var _ repository.ProductRepository = memProducts{}

type memServices struct{ store *memStore }

func (r memServices) Create(_ context.Context, sv *model.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sv.ID = uuid.New()
	r.store.services[sv.ID] = *sv
	return nil
}

func (r memServices) FindByID(_ context.Context, id uuid.UUID) (*model.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sv, ok := r.store.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sv, nil
}

func (r memServices) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Service
	for _, id := range ids {
		if sv, ok := r.store.services[id]; ok {
			out = append(out, sv)
		}
	}
	return out, nil
}

func (r memServices) List(context.Context) ([]model.Service, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Service
	for _, sv := range r.store.services {
		out = append(out, sv)
	}
	return out, nil
}

func (r memServices) Update(_ context.Context, sv *model.Service) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.services[sv.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.services[sv.ID] = *sv
	return nil
}

func (r memServices) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.services, id)
	return nil
}

var _ repository.ServiceRepository = memServices{}
