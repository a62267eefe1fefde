package service_test

import (
	"context"
	"testing"

	"motofix/internal/dto"
	"motofix/internal/model"
	"motofix/internal/repository"
	"motofix/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCategoryRepo struct {
	cats map[uuid.UUID]model.Category
}

func newStubCategoryRepo(names ...string) *stubCategoryRepo {
	r := &stubCategoryRepo{cats: make(map[uuid.UUID]model.Category)}
	for _, n := range names {
		c := model.Category{ID: uuid.New(), Name: n}
		r.cats[c.ID] = c
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	for _, existing := range r.cats {
		if existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	c.ID = uuid.New()
	r.cats[c.ID] = *c
	return nil
}

func (r *stubCategoryRepo) List(context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.cats {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.cats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.cats {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

func (r *stubCategoryRepo) first() model.Category {
	for _, c := range r.cats {
		return c
	}
	return model.Category{}
}

func productRequest(code string, stock int) dto.ProductRequest {
	return dto.ProductRequest{
		Code:      code,
		Name:      "Busi " + code,
		BuyPrice:  decimal.NewFromInt(15000),
		SellPrice: decimal.NewFromInt(25000),
		Stock:     stock,
		MinStock:  2,
	}
}

func TestProductService_CreateAndDuplicateCode(t *testing.T) {
	store := newMemStore()
	cats := newStubCategoryRepo("Sparepart")
	svc := service.NewProductService(memProducts{store}, cats, nil)

	req := productRequest("NGK-C7", 10)
	catID := cats.first().ID.String()
	req.CategoryID = &catID

	p, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Sparepart", p.CategoryName)
	require.NotNil(t, p.BuyPrice)
	assert.Equal(t, "15000", p.BuyPrice.String())

	_, err = svc.Create(context.Background(), productRequest("NGK-C7", 1))
	assert.ErrorIs(t, err, service.ErrDuplicate)
}

func TestProductService_CreateUnknownCategory(t *testing.T) {
	svc := service.NewProductService(memProducts{newMemStore()}, newStubCategoryRepo(), nil)
	req := productRequest("X1", 1)
	missing := uuid.NewString()
	req.CategoryID = &missing

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)
}

func TestProductService_UpdateRecordsAdjustment(t *testing.T) {
	store := newMemStore()
	svc := service.NewProductService(memProducts{store}, newStubCategoryRepo(), nil)

	created, err := svc.Create(context.Background(), productRequest("BAN-80", 4))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.Update(context.Background(), id, productRequest("BAN-80", 12))
	require.NoError(t, err)
	assert.Equal(t, 12, store.stock(id))

	moves, err := svc.Movements(context.Background(), id, 10)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, model.MovementAdjustment, moves[0].Kind)
	assert.Equal(t, 8, moves[0].Quantity)
	assert.Equal(t, 4, moves[0].StockBefore)
	assert.Equal(t, 12, moves[0].StockAfter)

	// Same stock again: no new movement.
	_, err = svc.Update(context.Background(), id, productRequest("BAN-80", 12))
	require.NoError(t, err)
	moves, err = svc.Movements(context.Background(), id, 10)
	require.NoError(t, err)
	assert.Len(t, moves, 1)
}

func TestProductService_UpdateKeepsSaleCommittedAfterRead(t *testing.T) {
	store := newMemStore()
	p := store.addProduct("KAMPAS-01", 10)
	svc := service.NewProductService(memProducts{store}, newStubCategoryRepo(), nil)
	sales := buildSaleSvc(store, service.SaleOptions{})

	store.afterProductRead = func() {
		_, err := sales.RecordSale(context.Background(), nil, saleRequest(productLine(p, 2, 30000)))
		require.NoError(t, err)
	}

	// Rename only; the form still shows the stock it loaded.
	req := productRequest("KAMPAS-01", 10)
	req.Name = "Kampas Rem Depan"
	resp, err := svc.Update(context.Background(), p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Kampas Rem Depan", resp.Name)
	assert.Equal(t, 8, resp.Stock)
	assert.Equal(t, 8, store.stock(p.ID))

	moves, err := svc.Movements(context.Background(), p.ID, 10)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, model.MovementSale, moves[0].Kind)
}

func TestProductService_UpdateRestockComposesWithConcurrentSale(t *testing.T) {
	store := newMemStore()
	p := store.addProduct("RANTAI-01", 10)
	svc := service.NewProductService(memProducts{store}, newStubCategoryRepo(), nil)
	sales := buildSaleSvc(store, service.SaleOptions{})

	store.afterProductRead = func() {
		_, err := sales.RecordSale(context.Background(), nil, saleRequest(productLine(p, 2, 90000)))
		require.NoError(t, err)
	}

	_, err := svc.Update(context.Background(), p.ID, productRequest("RANTAI-01", 15))
	require.NoError(t, err)
	assert.Equal(t, 13, store.stock(p.ID))

	moves, err := svc.Movements(context.Background(), p.ID, 10)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, model.MovementAdjustment, moves[0].Kind)
	assert.Equal(t, 5, moves[0].Quantity)
	assert.Equal(t, 8, moves[0].StockBefore)
	assert.Equal(t, 13, moves[0].StockAfter)
}

func TestProductService_UpdateRejectsAdjustmentBelowZero(t *testing.T) {
	store := newMemStore()
	p := store.addProduct("AKI-01", 3)
	svc := service.NewProductService(memProducts{store}, newStubCategoryRepo(), nil)
	sales := buildSaleSvc(store, service.SaleOptions{})

	store.afterProductRead = func() {
		_, err := sales.RecordSale(context.Background(), nil, saleRequest(productLine(p, 2, 250000)))
		require.NoError(t, err)
	}

	// Read 3, sale takes 2, caller asks for 0: a removal of 3 from 1.
	_, err := svc.Update(context.Background(), p.ID, productRequest("AKI-01", 0))
	assert.ErrorIs(t, err, service.ErrInsufficientStock)
	assert.Equal(t, 1, store.stock(p.ID))
}

func TestProductService_LookupWithoutCache(t *testing.T) {
	store := newMemStore()
	p := store.addProduct("OLI-MPX", 7)
	svc := service.NewProductService(memProducts{store}, newStubCategoryRepo(), nil)

	got, err := svc.Lookup(context.Background(), "OLI-MPX")
	require.NoError(t, err)
	assert.Equal(t, p.ID.String(), got.ID)
	assert.Equal(t, 7, got.Stock)

	_, err = svc.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestProductService_ListLowStock(t *testing.T) {
	store := newMemStore()
	store.addProduct("A", 0) // MinStock is 1 for seeded products
	store.addProduct("B", 9)
	svc := service.NewProductService(memProducts{store}, newStubCategoryRepo(), nil)

	list, err := svc.List(context.Background(), dto.ProductFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Code)
	assert.True(t, list[0].LowStock)

	_, err = svc.List(context.Background(), dto.ProductFilter{CategoryID: "bad"})
	assert.ErrorIs(t, err, service.ErrInvalidID)
}

func TestProductService_DeleteMissing(t *testing.T) {
	svc := service.NewProductService(memProducts{newMemStore()}, newStubCategoryRepo(), nil)
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), service.ErrProductNotFound)
}
