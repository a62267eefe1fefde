package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"motofix/internal/dto"
	"motofix/internal/model"
	"motofix/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	lookupCacheTTL    = 5 * time.Minute
	lookupCachePrefix = "product:code:"
)

// ProductService defines the business logic contract for products.
type ProductService interface {
	List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	// Lookup resolves a product by its code for the checkout screen. Results
	// are cached in Redis and dropped whenever the product's stock changes.
	Lookup(ctx context.Context, code string) (*dto.ProductLookupResponse, error)
	Create(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Movements(ctx context.Context, id uuid.UUID, limit int) ([]dto.StockMovementResponse, error)
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	rdb        *redis.Client
}

func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, categories: categories, rdb: rdb}
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	if filter.CategoryID != "" {
		if _, err := uuid.Parse(filter.CategoryID); err != nil {
			return nil, fmt.Errorf("%w: category_id", ErrInvalidID)
		}
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, productToResponse(&list[i]))
	}
	return out, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Lookup(ctx context.Context, code string) (*dto.ProductLookupResponse, error) {
	key := lookupCachePrefix + code

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var resp dto.ProductLookupResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	resp := &dto.ProductLookupResponse{
		ID:        p.ID.String(),
		Code:      p.Code,
		Name:      p.Name,
		SellPrice: p.SellPrice,
		Stock:     p.Stock,
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}

	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(ctx, key, b, lookupCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *productService) Create(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		Code:      req.Code,
		Name:      req.Name,
		BuyPrice:  req.BuyPrice,
		SellPrice: req.SellPrice,
		Stock:     req.Stock,
		MinStock:  req.MinStock,
	}
	var err error
	if p.Category, err = s.resolveCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if p.Category != nil {
		p.CategoryID = &p.Category.ID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: product code %q", ErrDuplicate, req.Code)
		}
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

// Update rewrites the product. The requested stock is applied as the
// difference from the stock read at the start of the request, so sales
// committed meanwhile are kept. Any stock change is recorded as an
// adjustment movement in the same transaction.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	oldCode, delta := current.Code, req.Stock-current.Stock

	category, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	var before int
	p, err := s.repo.Update(ctx, id, func(p *model.Product) error {
		before = p.Stock
		if delta != 0 && p.Stock+delta < 0 {
			return fmt.Errorf("%w: %s has %d, adjustment %d", ErrInsufficientStock, p.Code, p.Stock, delta)
		}
		p.Category, p.CategoryID = category, nil
		if category != nil {
			p.CategoryID = &category.ID
		}
		p.Code = req.Code
		p.Name = req.Name
		p.BuyPrice = req.BuyPrice
		p.SellPrice = req.SellPrice
		p.Stock += delta
		p.MinStock = req.MinStock
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: product code %q", ErrDuplicate, req.Code)
		}
		return nil, err
	}
	if delta != 0 {
		log.Info().Str("product_code", p.Code).Int("before", before).Int("after", p.Stock).Msg("stock adjusted")
	}

	invalidateLookup(ctx, s.rdb, oldCode, p.Code)
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapNotFound(err, ErrProductNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return ErrInUse
		}
		return mapNotFound(err, ErrProductNotFound)
	}
	invalidateLookup(ctx, s.rdb, p.Code)
	return nil
}

func (s *productService) Movements(ctx context.Context, id uuid.UUID, limit int) ([]dto.StockMovementResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	list, err := s.repo.ListMovements(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		r := dto.StockMovementResponse{
			ID:          m.ID.String(),
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			r.ReferenceID = &ref
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *productService) resolveCategory(ctx context.Context, raw *string) (*model.Category, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: category_id", ErrInvalidID)
	}
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrCategoryNotFound)
	}
	return c, nil
}

// invalidateLookup drops cached lookups for the given product codes. Cache
// errors are logged and otherwise ignored.
func invalidateLookup(ctx context.Context, rdb *redis.Client, codes ...string) {
	if rdb == nil || len(codes) == 0 {
		return
	}
	keys := make([]string, 0, len(codes))
	for _, c := range codes {
		keys = append(keys, lookupCachePrefix+c)
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("product cache invalidation failed")
	}
}

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}

func productToResponse(p *model.Product) dto.ProductResponse {
	buy := p.BuyPrice
	r := dto.ProductResponse{
		ID:        p.ID.String(),
		Code:      p.Code,
		Name:      p.Name,
		BuyPrice:  &buy,
		SellPrice: p.SellPrice,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		LowStock:  p.LowStock(),
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		r.CategoryID = &id
	}
	if p.Category != nil {
		r.CategoryName = p.Category.Name
	}
	return r
}
