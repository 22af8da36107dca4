package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
)

type fakeProducts struct {
	mu       sync.Mutex
	nextID   int64
	items    map[int64]Product
	getCalls int
	afterGet func()
}

func newFakeProducts(seed ...Product) *fakeProducts {
	f := &fakeProducts{items: map[int64]Product{}}
	for _, p := range seed {
		f.items[p.ID] = p
		if p.ID > f.nextID {
			f.nextID = p.ID
		}
	}
	return f
}

func (f *fakeProducts) Create(ctx context.Context, p *Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Name == p.Name && existing.Brand == p.Brand {
			return apperror.ErrAlreadyExists
		}
	}
	f.nextID++
	p.ID = f.nextID
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id int64) (Product, error) {
	f.mu.Lock()
	f.getCalls++
	p, ok := f.items[id]
	hook := f.afterGet
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return Product{}, fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
	}
	return p, nil
}

func (f *fakeProducts) Update(ctx context.Context, p Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[p.ID]; !ok {
		return apperror.ErrNotFound
	}
	f.items[p.ID] = p
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperror.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) List(ctx context.Context, filter Filter) ([]Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Product{}
	for _, p := range f.items {
		if filter.Brand != "" && p.Brand != filter.Brand {
			continue
		}
		if filter.Name != "" && p.Name != filter.Name {
			continue
		}
		if filter.Category != "" && p.Category.Name != filter.Category {
			continue
		}
		if filter.CategoryID != 0 && p.Category.ID != filter.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) CountByBrandAndName(ctx context.Context, brand, name string) (int64, error) {
	list, _ := f.List(ctx, Filter{Brand: brand, Name: name})
	return int64(len(list)), nil
}

func (f *fakeProducts) ExistsByNameAndBrand(ctx context.Context, name, brand string) (bool, error) {
	n, _ := f.CountByBrandAndName(ctx, brand, name)
	return n > 0, nil
}

func (f *fakeProducts) LockForUpdate(ctx context.Context, ids []int64) (map[int64]Product, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProducts) AdjustInventory(ctx context.Context, id int64, delta int) error {
	return errors.New("not implemented")
}

type fakeCategories struct {
	nextID int64
	byName map[string]Category
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{byName: map[string]Category{}}
}

func (f *fakeCategories) Create(ctx context.Context, c *Category) error {
	if _, ok := f.byName[c.Name]; ok {
		return apperror.ErrAlreadyExists
	}
	f.nextID++
	c.ID = f.nextID
	f.byName[c.Name] = *c
	return nil
}

func (f *fakeCategories) GetByID(ctx context.Context, id int64) (Category, error) {
	for _, c := range f.byName {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, apperror.ErrNotFound
}

func (f *fakeCategories) GetByName(ctx context.Context, name string) (Category, error) {
	c, ok := f.byName[name]
	if !ok {
		return Category{}, apperror.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategories) List(ctx context.Context) ([]Category, error) {
	out := []Category{}
	for _, c := range f.byName {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategories) Update(ctx context.Context, c Category) error {
	for name, existing := range f.byName {
		if existing.ID == c.ID {
			delete(f.byName, name)
			f.byName[c.Name] = c
			return nil
		}
	}
	return apperror.ErrNotFound
}

func (f *fakeCategories) Delete(ctx context.Context, id int64) error {
	for name, existing := range f.byName {
		if existing.ID == id {
			delete(f.byName, name)
			return nil
		}
	}
	return apperror.ErrNotFound
}

func (f *fakeCategories) GetOrCreate(ctx context.Context, name string) (Category, error) {
	if c, ok := f.byName[name]; ok {
		return c, nil
	}
	c := Category{Name: name}
	_ = f.Create(ctx, &c)
	return c, nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[int64]Product
	invalidated []int64
	getErr      error
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[int64]Product{}} }

func (c *fakeCache) Get(ctx context.Context, id int64) (Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return Product{}, false, c.getErr
	}
	p, ok := c.entries[id]
	return p, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, p Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p.ID] = p
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, ids ...int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
	}
	c.invalidated = append(c.invalidated, ids...)
	return nil
}

func discardLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestProductService_AddProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("creates category on demand", func(t *testing.T) {
		products := newFakeProducts()
		categories := newFakeCategories()
		svc := NewProductService(products, categories, nil, discardLogger())

		p, err := svc.AddProduct(ctx, AddProductRequest{
			Name: "TV", Brand: "Samsung", Price: decimal.RequireFromString("999.99"), Inventory: 10, Category: "Electronics",
		})
		require.NoError(t, err)
		require.NotZero(t, p.ID)
		require.Equal(t, "Electronics", p.Category.Name)
		require.NotZero(t, p.Category.ID)

		_, err = categories.GetByName(ctx, "Electronics")
		require.NoError(t, err)
	})

	t.Run("duplicate name and brand", func(t *testing.T) {
		products := newFakeProducts(Product{ID: 1, Name: "TV", Brand: "Samsung"})
		svc := NewProductService(products, newFakeCategories(), nil, discardLogger())

		_, err := svc.AddProduct(ctx, AddProductRequest{Name: "TV", Brand: "Samsung", Inventory: 1, Category: "Electronics"})
		require.ErrorIs(t, err, apperror.ErrAlreadyExists)
		require.EqualError(t, err, "Samsung TV already exists, you may update this product instead!")
	})

	t.Run("rejects negative inventory", func(t *testing.T) {
		svc := NewProductService(newFakeProducts(), newFakeCategories(), nil, discardLogger())

		_, err := svc.AddProduct(ctx, AddProductRequest{Name: "TV", Brand: "Samsung", Inventory: -1, Category: "Electronics"})
		require.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestProductService_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	seed := Product{ID: 1, Name: "TV", Brand: "Samsung", Price: decimal.NewFromInt(100), Inventory: 5, Category: Category{ID: 1, Name: "Electronics"}}

	t.Run("missing product", func(t *testing.T) {
		svc := NewProductService(newFakeProducts(), newFakeCategories(), nil, discardLogger())

		_, err := svc.GetProductByID(ctx, 99)
		require.ErrorIs(t, err, apperror.ErrNotFound)
		require.EqualError(t, err, "Product not found")

		_, err = svc.UpdateProduct(ctx, 99, UpdateProductRequest{})
		require.EqualError(t, err, "Product not found")

		require.EqualError(t, svc.DeleteProduct(ctx, 99), "Product not found")
	})

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		products := newFakeProducts(seed)
		categories := newFakeCategories()
		svc := NewProductService(products, categories, nil, discardLogger())

		price := decimal.RequireFromString("89.50")
		category := "Televisions"
		updated, err := svc.UpdateProduct(ctx, 1, UpdateProductRequest{Price: &price, Category: &category})
		require.NoError(t, err)
		require.Equal(t, "TV", updated.Name)
		require.Equal(t, 5, updated.Inventory)
		require.True(t, price.Equal(updated.Price))
		require.Equal(t, "Televisions", updated.Category.Name)
		require.Equal(t, updated, products.items[1])
	})

	t.Run("update and delete invalidate the cache", func(t *testing.T) {
		cache := newFakeCache()
		svc := NewProductService(newFakeProducts(seed), newFakeCategories(), cache, discardLogger())

		_, err := svc.GetProductByID(ctx, 1)
		require.NoError(t, err)
		require.Contains(t, cache.entries, int64(1))

		name := "Smart TV"
		_, err = svc.UpdateProduct(ctx, 1, UpdateProductRequest{Name: &name})
		require.NoError(t, err)
		require.NotContains(t, cache.entries, int64(1))

		require.NoError(t, svc.DeleteProduct(ctx, 1))
		require.Equal(t, []int64{1, 1}, cache.invalidated)
	})
}

func TestProductService_GetProductByIDUsesCache(t *testing.T) {
	ctx := context.Background()
	products := newFakeProducts(Product{ID: 1, Name: "TV", Brand: "Samsung"})
	cache := newFakeCache()
	svc := NewProductService(products, newFakeCategories(), cache, discardLogger())

	for i := 0; i < 3; i++ {
		p, err := svc.GetProductByID(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, "TV", p.Name)
	}
	require.Equal(t, 1, products.getCalls)
}

func TestProductService_CacheErrorFallsBackToStore(t *testing.T) {
	products := newFakeProducts(Product{ID: 1, Name: "TV"})
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	svc := NewProductService(products, newFakeCategories(), cache, discardLogger())

	p, err := svc.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "TV", p.Name)
}

func TestProductService_UpdateDuringCacheFillIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	products := newFakeProducts(Product{ID: 1, Name: "TV", Brand: "Samsung", Price: decimal.NewFromInt(100), Category: Category{ID: 1, Name: "Electronics"}})
	cache := newFakeCache()
	svc := NewProductService(products, newFakeCategories(), cache, discardLogger())

	// the update commits after the cache fill has read the old row
	products.afterGet = func() {
		products.afterGet = nil
		price := decimal.NewFromInt(80)
		_, err := svc.UpdateProduct(ctx, 1, UpdateProductRequest{Price: &price})
		require.NoError(t, err)
	}

	_, err := svc.GetProductByID(ctx, 1)
	require.NoError(t, err)
	require.NotContains(t, cache.entries, int64(1))

	fresh, err := svc.GetProductByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(80).Equal(fresh.Price))
	require.True(t, decimal.NewFromInt(80).Equal(cache.entries[1].Price))
}

func TestCategoryService_RenameEvictsCachedProducts(t *testing.T) {
	ctx := context.Background()
	categories := newFakeCategories()
	books := Category{Name: "Books"}
	music := Category{Name: "Music"}
	require.NoError(t, categories.Create(ctx, &books))
	require.NoError(t, categories.Create(ctx, &music))

	products := newFakeProducts(
		Product{ID: 1, Name: "Dune", Brand: "Ace", Category: books},
		Product{ID: 2, Name: "Blue", Brand: "Reprise", Category: music},
	)
	cache := newFakeCache()
	productSvc := NewProductService(products, categories, cache, discardLogger())
	for _, id := range []int64{1, 2} {
		_, err := productSvc.GetProductByID(ctx, id)
		require.NoError(t, err)
	}

	svc := NewCategoryService(categories, productSvc)
	_, err := svc.UpdateCategory(ctx, books.ID, "Novels")
	require.NoError(t, err)

	require.NotContains(t, cache.entries, int64(1))
	require.Contains(t, cache.entries, int64(2))
	require.Equal(t, []int64{1}, cache.invalidated)
}

func TestProductService_ListAndCount(t *testing.T) {
	ctx := context.Background()
	products := newFakeProducts(
		Product{ID: 1, Name: "iPhone", Brand: "Apple", Category: Category{Name: "Phones"}},
		Product{ID: 2, Name: "MacBook", Brand: "Apple", Category: Category{Name: "Laptops"}},
		Product{ID: 3, Name: "Galaxy", Brand: "Samsung", Category: Category{Name: "Phones"}},
	)
	svc := NewProductService(products, newFakeCategories(), nil, discardLogger())

	tests := map[string]struct {
		filter Filter
		want   int
	}{
		"all":                {filter: Filter{}, want: 3},
		"by brand":           {filter: Filter{Brand: "Apple"}, want: 2},
		"by name":            {filter: Filter{Name: "Galaxy"}, want: 1},
		"by category":        {filter: Filter{Category: "Phones"}, want: 2},
		"category and brand": {filter: Filter{Category: "Phones", Brand: "Apple"}, want: 1},
		"brand and name":     {filter: Filter{Brand: "Apple", Name: "MacBook"}, want: 1},
		"no match":           {filter: Filter{Brand: "Nokia"}, want: 0},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := svc.ListProducts(ctx, tc.filter)
			require.NoError(t, err)
			require.Len(t, got, tc.want)
		})
	}

	n, err := svc.CountProductsByBrandAndName(ctx, "Apple", "iPhone")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newFakeCategories(), nil)

	added, err := svc.AddCategory(ctx, "Books")
	require.NoError(t, err)
	require.NotZero(t, added.ID)

	got, err := svc.GetCategoryByName(ctx, "Books")
	require.NoError(t, err)
	require.Equal(t, "Books", got.Name)
	require.Equal(t, added.ID, got.ID)

	_, err = svc.AddCategory(ctx, "Books")
	require.ErrorIs(t, err, apperror.ErrAlreadyExists)

	_, err = svc.GetCategoryByID(ctx, 404)
	require.EqualError(t, err, "Category not found")

	renamed, err := svc.UpdateCategory(ctx, added.ID, "E-Books")
	require.NoError(t, err)
	require.Equal(t, "E-Books", renamed.Name)

	require.NoError(t, svc.DeleteCategory(ctx, added.ID))
	require.ErrorIs(t, svc.DeleteCategory(ctx, added.ID), apperror.ErrNotFound)
}
