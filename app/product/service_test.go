package product

import (
	"catalog/app/apptest"
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/paging"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       *Service
	store     *apptest.Store
	storage   *apptest.Storage
	publisher *apptest.Publisher
	category  domain.Category
}

func newFixture() *fixture {
	store := apptest.NewStore()
	storage := apptest.NewStorage()
	publisher := &apptest.Publisher{}

	return &fixture{
		svc:       NewService(store, store.Repositories(), publisher, storage),
		store:     store,
		storage:   storage,
		publisher: publisher,
		category:  store.SeedCategory("Books", true),
	}
}

func (f *fixture) input(sku string) CreateInput {
	return CreateInput{
		Name:           "Go in Action",
		Price:          decimal.RequireFromString("39.99"),
		SKU:            sku,
		InventoryCount: 5,
		CategoryID:     f.category.ID,
	}
}

func (f *fixture) create(t *testing.T, sku string) domain.Product {
	t.Helper()

	p, err := f.svc.Create(context.Background(), f.input(sku))
	require.NoError(t, err)
	return p
}

func TestCreate(t *testing.T) {
	f := newFixture()

	p := f.create(t, "BK-1")

	require.NotZero(t, p.ID)
	require.True(t, p.Active)
	require.Equal(t, "Books", p.CategoryName)
	require.True(t, p.Price.Equal(decimal.RequireFromString("39.99")))
	require.Equal(t, []string{events.ProductCreatedEvent}, f.publisher.Names())
}

func TestCreate_DuplicateSKU(t *testing.T) {
	f := newFixture()
	f.create(t, "BK-1")

	_, err := f.svc.Create(context.Background(), f.input("BK-1"))

	require.ErrorIs(t, err, domain.ErrDuplicateKey)
	require.Equal(t, "A product with SKU 'BK-1' already exists.", err.Error())
	require.Equal(t, 1, f.store.ProductCount())
}

func TestCreate_CategoryMustBeActive(t *testing.T) {
	f := newFixture()
	inactive := f.store.SeedCategory("Archive", false)

	tests := []struct {
		name       string
		categoryID int64
	}{
		{"missing", 999},
		{"inactive", inactive.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input("BK-" + tt.name)
			in.CategoryID = tt.categoryID

			_, err := f.svc.Create(context.Background(), in)

			require.ErrorIs(t, err, domain.ErrNotFound)
			require.True(t, strings.HasPrefix(err.Error(), "Active category with ID"))
			require.Zero(t, f.store.ProductCount())
		})
	}
	require.Empty(t, f.publisher.Names())
}

func TestCreate_ConstraintViolationIsDuplicate(t *testing.T) {
	f := newFixture()
	f.store.CreateProductErr = domain.ErrDuplicateKey

	_, err := f.svc.Create(context.Background(), f.input("BK-1"))

	require.ErrorIs(t, err, domain.ErrDuplicateKey)
	require.Equal(t, 1, f.store.Rollbacks)
}

func TestGetByID_Scoping(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, "BK-1")

	require.NoError(t, f.svc.SoftDelete(ctx, p.ID))

	_, err := f.svc.GetActiveByID(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, got.Active)

	err = f.svc.SoftDelete(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, "Product not found with id 2", err.Error())
}

func TestList_FiltersByStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.create(t, "A")
	f.create(t, "B")
	_, err := f.svc.ToggleStatus(ctx, a.ID)
	require.NoError(t, err)

	active, err := f.svc.List(ctx, paging.Request{Status: paging.Active})
	require.NoError(t, err)
	require.Len(t, active.Content, 1)
	require.Equal(t, "B", active.Content[0].SKU)

	inactive, err := f.svc.List(ctx, paging.Request{Status: paging.Inactive})
	require.NoError(t, err)
	require.Len(t, inactive.Content, 1)
	require.Equal(t, "A", inactive.Content[0].SKU)

	all, err := f.svc.List(ctx, paging.Request{Status: paging.All, Size: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), all.TotalElements)
	require.Equal(t, 2, all.TotalPages)
	require.Len(t, all.Content, 1)
	require.Equal(t, "Books", all.Content[0].CategoryName)
}

func TestUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, "BK-1")
	music := f.store.SeedCategory("Music", true)

	in := f.input("BK-1")
	in.Name = "Go in Practice"
	in.CategoryID = music.ID

	updated, err := f.svc.Update(ctx, p.ID, in)

	require.NoError(t, err)
	require.Equal(t, "Go in Practice", updated.Name)
	require.Equal(t, "Music", updated.CategoryName)
	require.Equal(t, p.CreatedAt, updated.CreatedAt)
	require.True(t, updated.Active)
}

func TestUpdate_SKUTakenByAnotherProduct(t *testing.T) {
	f := newFixture()
	f.create(t, "BK-1")
	second := f.create(t, "BK-2")

	_, err := f.svc.Update(context.Background(), second.ID, f.input("BK-1"))

	require.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestUpdate_InactiveCategory(t *testing.T) {
	f := newFixture()
	p := f.create(t, "BK-1")
	archive := f.store.SeedCategory("Archive", false)

	in := f.input("BK-1")
	in.CategoryID = archive.ID

	_, err := f.svc.Update(context.Background(), p.ID, in)

	require.ErrorIs(t, err, domain.ErrNotFound)
	got, err := f.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, f.category.ID, got.CategoryID)
}

func TestUpdate_InactiveProduct(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, "BK-1")
	_, err := f.svc.ToggleStatus(ctx, p.ID)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, p.ID, f.input("BK-1"))

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStaleCategoryReferenceIsKept(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, "BK-1")

	category := f.category
	category.Active = false
	require.NoError(t, f.store.Repositories().Categories.UpdateCategory(ctx, &category))

	got, err := f.svc.GetActiveByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, f.category.ID, got.CategoryID)
}

func TestToggleStatus_Twice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, "BK-1")

	first, err := f.svc.ToggleStatus(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, first.Active)

	second, err := f.svc.ToggleStatus(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, second.Active)
}

func TestSetInventory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, "BK-1")

	updated, err := f.svc.SetInventory(ctx, p.ID, 42)
	require.NoError(t, err)
	require.Equal(t, 42, updated.InventoryCount)
	require.Equal(t, events.ProductInventorySetEvent, f.publisher.Last().Event.Event)

	_, err = f.svc.SetInventory(ctx, p.ID, -1)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.SetInventory(ctx, 999, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadImage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, "BK-1")

	image, err := f.svc.UploadImage(ctx, p.ID, UploadImageInput{ContentType: "image/png", Data: []byte("png")})

	require.NoError(t, err)
	require.NotEmpty(t, image.ID)
	require.True(t, strings.HasPrefix(image.ObjectKey, "products/2/go-in-action-"))
	require.True(t, strings.HasSuffix(image.ObjectKey, ".png"))
	require.Equal(t, f.storage.URL(image.ObjectKey), image.ImageURL)
	require.Contains(t, f.storage.Objects, image.ObjectKey)
	require.Equal(t, events.ProductImageUploadedEvent, f.publisher.Last().Event.Event)

	images, err := f.svc.ListImages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
}

func TestUploadImage_MetadataFailureRemovesObject(t *testing.T) {
	f := newFixture()
	p := f.create(t, "BK-1")
	f.store.CreateImageErr = errors.New("disk full")

	_, err := f.svc.UploadImage(context.Background(), p.ID, UploadImageInput{ContentType: "image/jpeg", Data: []byte("jpg")})

	require.Error(t, err)
	require.Empty(t, f.storage.Objects)
	require.Zero(t, f.store.ImageCount(p.ID))
}

func TestUploadImage_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.create(t, "BK-1")

	_, err := f.svc.UploadImage(ctx, p.ID, UploadImageInput{ContentType: "image/gif"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.UploadImage(ctx, 999, UploadImageInput{ContentType: "image/png"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	f.storage.UploadErr = errors.New("bucket gone")
	_, err = f.svc.UploadImage(ctx, p.ID, UploadImageInput{ContentType: "image/png"})
	require.Error(t, err)
	require.Zero(t, f.store.ImageCount(p.ID))

	noStorage := NewService(f.store, f.store.Repositories(), nil, nil)
	_, err = noStorage.UploadImage(ctx, p.ID, UploadImageInput{ContentType: "image/png"})
	require.ErrorIs(t, err, ErrStorageDisabled)
}

func TestListImages_MissingProduct(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ListImages(context.Background(), 999)

	require.ErrorIs(t, err, domain.ErrNotFound)
}
