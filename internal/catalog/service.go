package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
)

const productNotFound = "Product not found"

type ProductService struct {
	products   ProductRepository
	categories CategoryRepository
	cache      ProductCache
	logger     *log.Logger
	group      singleflight.Group

	// epochs counts invalidations per product id.
	mu     sync.Mutex
	epochs map[int64]uint64
}

// NewProductService wires the catalog. cache may be nil.
func NewProductService(products ProductRepository, categories CategoryRepository, cache ProductCache, logger *log.Logger) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		cache:      cache,
		logger:     logger,
		epochs:     make(map[int64]uint64),
	}
}

func (s *ProductService) AddProduct(ctx context.Context, req AddProductRequest) (Product, error) {
	if err := validateProduct(req.Name, req.Brand, req.Category, req.Inventory, req.Price.IsNegative()); err != nil {
		return Product{}, err
	}

	exists, err := s.products.ExistsByNameAndBrand(ctx, req.Name, req.Brand)
	if err != nil {
		return Product{}, err
	}
	if exists {
		return Product{}, duplicateProduct(req.Brand, req.Name)
	}

	category, err := s.categories.GetOrCreate(ctx, req.Category)
	if err != nil {
		return Product{}, err
	}

	p := Product{
		Name:        req.Name,
		Brand:       req.Brand,
		Price:       req.Price,
		Inventory:   req.Inventory,
		Description: req.Description,
		Category:    category,
		Images:      []ImageRef{},
	}
	if err := s.products.Create(ctx, &p); err != nil {
		if errors.Is(err, apperror.ErrAlreadyExists) {
			return Product{}, duplicateProduct(req.Brand, req.Name)
		}
		return Product{}, err
	}
	return p, nil
}

// GetProductByID reads through the cache when one is configured. Concurrent
// misses for the same id share one database read.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (Product, error) {
	if s.cache == nil {
		return s.loadProduct(ctx, id)
	}

	if p, ok, err := s.cache.Get(ctx, id); err != nil {
		s.logger.Printf("product cache read failed id=%d: %v", id, err)
	} else if ok {
		return p, nil
	}

	v, err, _ := s.group.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		readEpoch := s.epoch(id)
		p, err := s.loadProduct(ctx, id)
		if err != nil {
			return Product{}, err
		}
		s.fill(ctx, p, readEpoch)
		return p, nil
	})
	if err != nil {
		return Product{}, err
	}
	return v.(Product), nil
}

func (s *ProductService) epoch(id int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epochs[id]
}

// fill caches p unless the product was invalidated after the read began.
// An invalidation landing between the check and the write is caught by the
// second check, which evicts again.
func (s *ProductService) fill(ctx context.Context, p Product, readEpoch uint64) {
	if s.epoch(p.ID) != readEpoch {
		return
	}
	if err := s.cache.Set(ctx, p); err != nil {
		s.logger.Printf("product cache write failed id=%d: %v", p.ID, err)
		return
	}
	if s.epoch(p.ID) != readEpoch {
		if err := s.cache.Invalidate(ctx, p.ID); err != nil {
			s.logger.Printf("product cache invalidate failed ids=[%d]: %v", p.ID, err)
		}
	}
}

func (s *ProductService) loadProduct(ctx context.Context, id int64) (Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return Product{}, apperror.NotFound(productNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (Product, error) {
	p, err := s.loadProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Inventory != nil {
		p.Inventory = *req.Inventory
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil && *req.Category != p.Category.Name {
		if strings.TrimSpace(*req.Category) == "" {
			return Product{}, apperror.InvalidInput("category is required")
		}
		category, err := s.categories.GetOrCreate(ctx, *req.Category)
		if err != nil {
			return Product{}, err
		}
		p.Category = category
	}
	if err := validateProduct(p.Name, p.Brand, p.Category.Name, p.Inventory, p.Price.IsNegative()); err != nil {
		return Product{}, err
	}

	if err := s.products.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return Product{}, apperror.NotFound(productNotFound)
		case errors.Is(err, apperror.ErrAlreadyExists):
			return Product{}, duplicateProduct(p.Brand, p.Name)
		}
		return Product{}, err
	}
	s.InvalidateProducts(ctx, id)
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound(productNotFound)
		}
		return err
	}
	s.InvalidateProducts(ctx, id)
	return nil
}

// ListProducts returns products matching every non-empty field of f.
func (s *ProductService) ListProducts(ctx context.Context, f Filter) ([]Product, error) {
	return s.products.List(ctx, f)
}

func (s *ProductService) CountProductsByBrandAndName(ctx context.Context, brand, name string) (int64, error) {
	return s.products.CountByBrandAndName(ctx, brand, name)
}

// InvalidateProducts drops cached entries. Failures are logged only; entries expire on their own.
func (s *ProductService) InvalidateProducts(ctx context.Context, ids ...int64) {
	if s.cache == nil || len(ids) == 0 {
		return
	}
	s.mu.Lock()
	for _, id := range ids {
		s.epochs[id]++
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.group.Forget(strconv.FormatInt(id, 10))
	}
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.logger.Printf("product cache invalidate failed ids=%v: %v", ids, err)
	}
}

// InvalidateCategory drops cached products filed under the category, whose
// cached copies embed the category name.
func (s *ProductService) InvalidateCategory(ctx context.Context, categoryID int64) {
	if s.cache == nil {
		return
	}
	products, err := s.products.List(ctx, Filter{CategoryID: categoryID})
	if err != nil {
		s.logger.Printf("list products of category %d for cache invalidation: %v", categoryID, err)
		return
	}
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	s.InvalidateProducts(ctx, ids...)
}

func validateProduct(name, brand, category string, inventory int, negativePrice bool) error {
	switch {
	case strings.TrimSpace(name) == "":
		return apperror.InvalidInput("name is required")
	case strings.TrimSpace(brand) == "":
		return apperror.InvalidInput("brand is required")
	case strings.TrimSpace(category) == "":
		return apperror.InvalidInput("category is required")
	case inventory < 0:
		return apperror.InvalidInput("inventory must not be negative")
	case negativePrice:
		return apperror.InvalidInput("price must not be negative")
	}
	return nil
}

func duplicateProduct(brand, name string) error {
	return apperror.AlreadyExists(fmt.Sprintf("%s %s already exists, you may update this product instead!", brand, name))
}
