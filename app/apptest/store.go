// Package apptest provides an in-memory implementation of the app
// repositories for service and handler tests.
package apptest

import (
	"catalog/app"
	"catalog/domain"
	"catalog/pkg/paging"
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store keeps categories and products in maps and mimics the SQL store's
// constraints: unique names and SKUs, and a category foreign key.
type Store struct {
	mu         sync.Mutex
	categories map[int64]domain.Category
	products   map[int64]domain.Product
	images     map[int64][]domain.ProductImage
	nextID     int64
	clock      time.Time

	// Failures injected by tests.
	CreateCategoryErr error
	CreateProductErr  error
	UpdateProductErr  error
	CreateImageErr    error

	Commits   int
	Rollbacks int
}

func NewStore() *Store {
	return &Store{
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
		images:     make(map[int64][]domain.ProductImage),
		nextID:     1,
		clock:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Repositories returns repositories backed by s.
func (s *Store) Repositories() app.Repositories {
	return app.Repositories{
		Categories: categoryRepo{s},
		Products:   productRepo{s},
	}
}

// Run snapshots the maps and restores them if fn fails.
func (s *Store) Run(ctx context.Context, fn func(repos app.Repositories) error) error {
	s.mu.Lock()
	categories := cloneMap(s.categories)
	products := cloneMap(s.products)
	images := cloneMap(s.images)
	nextID := s.nextID
	s.mu.Unlock()

	if err := fn(s.Repositories()); err != nil {
		s.mu.Lock()
		s.categories, s.products, s.images, s.nextID = categories, products, images, nextID
		s.Rollbacks++
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()
	return nil
}

// tick advances the fake clock so creation order is observable.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// SeedCategory inserts a category directly, bypassing the services.
func (s *Store) SeedCategory(name string, active bool) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	c := domain.Category{ID: s.nextID, Name: name, Active: active, CreatedAt: now, UpdatedAt: now}
	s.nextID++
	s.categories[c.ID] = c
	return c
}

// SetCreatedAt overrides a category's creation time.
func (s *Store) SetCreatedAt(id int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.categories[id]; ok {
		c.CreatedAt = at
		s.categories[id] = c
	}
	if p, ok := s.products[id]; ok {
		p.CreatedAt = at
		s.products[id] = p
	}
}

func (s *Store) CategoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories)
}

func (s *Store) ProductCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

func (s *Store) ImageCount(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images[productID])
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateCategoryErr != nil {
		return s.CreateCategoryErr
	}
	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return domain.ErrDuplicateKey
		}
	}

	now := s.tick()
	c.ID = s.nextID
	c.CreatedAt = now
	c.UpdatedAt = now
	s.nextID++
	s.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) UpdateCategory(ctx context.Context, c *domain.Category) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[c.ID]
	if !ok {
		return sql.ErrNoRows
	}
	for id, other := range s.categories {
		if id != c.ID && other.Name == c.Name {
			return domain.ErrDuplicateKey
		}
	}

	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.tick()
	s.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) GetCategory(ctx context.Context, id int64, status paging.Status) (domain.Category, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok || !status.Matches(c.Active) {
		return domain.Category{}, sql.ErrNoRows
	}
	return c, nil
}

func (r categoryRepo) LockActiveCategory(ctx context.Context, id int64) (domain.Category, error) {
	return r.GetCategory(ctx, id, paging.Active)
}

func (r categoryRepo) CategoryNameExists(ctx context.Context, name string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r categoryRepo) ListCategories(ctx context.Context, req paging.Request) ([]domain.Category, int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Category, 0)
	for _, c := range s.categories {
		if req.Status.Matches(c.Active) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return window(matched, req), int64(len(matched)), nil
}

type productRepo struct{ s *Store }

func (r productRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateProductErr != nil {
		return s.CreateProductErr
	}
	for _, existing := range s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicateKey
		}
	}
	c, ok := s.categories[p.CategoryID]
	if !ok {
		return domain.ErrNotFound
	}

	now := s.tick()
	p.ID = s.nextID
	p.CategoryName = c.Name
	p.CreatedAt = now
	p.UpdatedAt = now
	s.nextID++
	s.products[p.ID] = *p
	return nil
}

func (r productRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UpdateProductErr != nil {
		return s.UpdateProductErr
	}
	existing, ok := s.products[p.ID]
	if !ok {
		return sql.ErrNoRows
	}
	for id, other := range s.products {
		if id != p.ID && other.SKU == p.SKU {
			return domain.ErrDuplicateKey
		}
	}
	c, ok := s.categories[p.CategoryID]
	if !ok {
		return domain.ErrNotFound
	}

	p.CategoryName = c.Name
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.tick()
	s.products[p.ID] = *p
	return nil
}

func (r productRepo) GetProduct(ctx context.Context, id int64, status paging.Status) (domain.Product, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok || !status.Matches(p.Active) {
		return domain.Product{}, sql.ErrNoRows
	}
	if c, ok := s.categories[p.CategoryID]; ok {
		p.CategoryName = c.Name
	}
	return p, nil
}

func (r productRepo) SKUExists(ctx context.Context, sku string, excludeID int64) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.products {
		if p.SKU == sku && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r productRepo) ListProducts(ctx context.Context, req paging.Request) ([]domain.Product, int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Product, 0)
	for _, p := range s.products {
		if !req.Status.Matches(p.Active) {
			continue
		}
		if c, ok := s.categories[p.CategoryID]; ok {
			p.CategoryName = c.Name
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return window(matched, req), int64(len(matched)), nil
}

func (r productRepo) CreateProductImage(ctx context.Context, image *domain.ProductImage) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateImageErr != nil {
		return s.CreateImageErr
	}
	if _, ok := s.products[image.ProductID]; !ok {
		return domain.ErrNotFound
	}
	image.CreatedAt = s.tick()
	s.images[image.ProductID] = append(s.images[image.ProductID], *image)
	return nil
}

func (r productRepo) ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ProductImage, len(s.images[productID]))
	copy(out, s.images[productID])
	return out, nil
}

func newerFirst(a, b time.Time, aID, bID int64) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID < bID
}

func window[T any](items []T, req paging.Request) []T {
	start := req.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+req.Limit(), len(items))
	return items[start:end]
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Storage is an in-memory ObjectStorage.
type Storage struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	UploadErr error
}

func NewStorage() *Storage {
	return &Storage{Objects: make(map[string][]byte)}
}

func (s *Storage) Upload(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UploadErr != nil {
		return s.UploadErr
	}
	s.Objects[key] = data
	return nil
}

func (s *Storage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.Objects, key)
	return nil
}

func (s *Storage) URL(key string) string {
	return fmt.Sprintf("http://storage.test/catalog/%s", key)
}

var (
	_ app.TxRunner      = (*Store)(nil)
	_ app.ObjectStorage = (*Storage)(nil)
)
