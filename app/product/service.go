package product

import (
	"catalog/app"
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/paging"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrStorageDisabled is returned by image operations when no bucket is configured.
var ErrStorageDisabled = errors.New("image storage is not configured")

type CreateInput struct {
	Name           string
	Description    *string
	Price          decimal.Decimal
	SKU            string
	InventoryCount int
	CategoryID     int64
}

type UpdateInput = CreateInput

type UploadImageInput struct {
	ContentType string
	Data        []byte
}

type Service struct {
	tx        app.TxRunner
	repos     app.Repositories
	publisher events.Publisher
	storage   app.ObjectStorage
}

// NewService builds the product service. storage may be nil, in which case
// image uploads fail with ErrStorageDisabled.
func NewService(tx app.TxRunner, repos app.Repositories, publisher events.Publisher, storage app.ObjectStorage) *Service {
	return &Service{
		tx:        tx,
		repos:     repos,
		publisher: publisher,
		storage:   storage,
	}
}

// Create stores an active product. The SKU must be unused and the category
// must exist and be active; otherwise nothing is written.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Product, error) {
	var created domain.Product

	err := s.tx.Run(ctx, func(repos app.Repositories) error {
		exists, err := repos.Products.SKUExists(ctx, in.SKU, 0)
		if err != nil {
			return fmt.Errorf("check product sku: %w", err)
		}
		if exists {
			return duplicateSKU(in.SKU)
		}

		category, err := activeCategory(ctx, repos, in.CategoryID)
		if err != nil {
			return err
		}

		created = domain.Product{
			Name:           in.Name,
			Description:    in.Description,
			Price:          in.Price,
			SKU:            in.SKU,
			InventoryCount: in.InventoryCount,
			CategoryID:     category.ID,
			CategoryName:   category.Name,
			Active:         true,
		}
		if err := repos.Products.CreateProduct(ctx, &created); err != nil {
			return writeError("create product", in, err)
		}
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	events.Emit(ctx, s.publisher, events.ProductExchange, events.ProductCreatedEvent, payload(created))
	return created, nil
}

func (s *Service) List(ctx context.Context, req paging.Request) (paging.Page[domain.Product], error) {
	req = req.Normalize()

	products, total, err := s.repos.Products.ListProducts(ctx, req)
	if err != nil {
		return paging.Page[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}

	return paging.NewPage(products, req, total), nil
}

// GetByID returns the product whatever its status.
func (s *Service) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	return s.Find(ctx, id, paging.All)
}

func (s *Service) GetActiveByID(ctx context.Context, id int64) (domain.Product, error) {
	return s.Find(ctx, id, paging.Active)
}

func (s *Service) Find(ctx context.Context, id int64, status paging.Status) (domain.Product, error) {
	product, err := s.repos.Products.GetProduct(ctx, id, status)
	if err != nil {
		return domain.Product{}, lookupError(id, err)
	}
	return product, nil
}

// Update replaces the mutable fields of an active product. It never touches
// active or createdAt.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (domain.Product, error) {
	var updated domain.Product

	err := s.tx.Run(ctx, func(repos app.Repositories) error {
		current, err := repos.Products.GetProduct(ctx, id, paging.Active)
		if err != nil {
			return lookupError(id, err)
		}

		exists, err := repos.Products.SKUExists(ctx, in.SKU, id)
		if err != nil {
			return fmt.Errorf("check product sku: %w", err)
		}
		if exists {
			return duplicateSKU(in.SKU)
		}

		category, err := activeCategory(ctx, repos, in.CategoryID)
		if err != nil {
			return err
		}

		current.Name = in.Name
		current.Description = in.Description
		current.Price = in.Price
		current.SKU = in.SKU
		current.InventoryCount = in.InventoryCount
		current.CategoryID = category.ID
		current.CategoryName = category.Name
		if err := repos.Products.UpdateProduct(ctx, &current); err != nil {
			return writeError("update product", in, err)
		}

		updated = current
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	events.Emit(ctx, s.publisher, events.ProductExchange, events.ProductUpdatedEvent, payload(updated))
	return updated, nil
}

func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	var deleted domain.Product

	err := s.tx.Run(ctx, func(repos app.Repositories) error {
		current, err := repos.Products.GetProduct(ctx, id, paging.Active)
		if err != nil {
			return lookupError(id, err)
		}

		current.Active = false
		if err := repos.Products.UpdateProduct(ctx, &current); err != nil {
			return fmt.Errorf("soft delete product: %w", err)
		}

		deleted = current
		return nil
	})
	if err != nil {
		return err
	}

	events.Emit(ctx, s.publisher, events.ProductExchange, events.ProductDeletedEvent, payload(deleted))
	return nil
}

func (s *Service) ToggleStatus(ctx context.Context, id int64) (domain.Product, error) {
	var toggled domain.Product

	err := s.tx.Run(ctx, func(repos app.Repositories) error {
		current, err := repos.Products.GetProduct(ctx, id, paging.All)
		if err != nil {
			return lookupError(id, err)
		}

		current.Active = !current.Active
		if err := repos.Products.UpdateProduct(ctx, &current); err != nil {
			return fmt.Errorf("toggle product status: %w", err)
		}

		toggled = current
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	events.Emit(ctx, s.publisher, events.ProductExchange, events.ProductStatusToggledEvent, payload(toggled))
	return toggled, nil
}

// SetInventory overwrites the inventory count of any existing product.
func (s *Service) SetInventory(ctx context.Context, id int64, count int) (domain.Product, error) {
	if count < 0 {
		return domain.Product{}, domain.Invalid("inventoryCount: must be greater than or equal to 0")
	}

	var updated domain.Product

	err := s.tx.Run(ctx, func(repos app.Repositories) error {
		current, err := repos.Products.GetProduct(ctx, id, paging.All)
		if err != nil {
			return lookupError(id, err)
		}

		current.InventoryCount = count
		if err := repos.Products.UpdateProduct(ctx, &current); err != nil {
			return fmt.Errorf("set product inventory: %w", err)
		}

		updated = current
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	events.Emit(ctx, s.publisher, events.ProductExchange, events.ProductInventorySetEvent, payload(updated))
	return updated, nil
}

// UploadImage stores data for an active product and records its metadata.
// The object is removed again if the metadata cannot be saved.
func (s *Service) UploadImage(ctx context.Context, id int64, in UploadImageInput) (domain.ProductImage, error) {
	if s.storage == nil {
		return domain.ProductImage{}, ErrStorageDisabled
	}

	extension, ok := imageExtension(in.ContentType)
	if !ok {
		return domain.ProductImage{}, domain.Invalid("image: only PNG and JPEG images are allowed")
	}

	product, err := s.GetActiveByID(ctx, id)
	if err != nil {
		return domain.ProductImage{}, err
	}

	imageID := uuid.New().String()
	key := fmt.Sprintf("products/%d/%s-%s%s", product.ID, slug.Make(product.Name), imageID, extension)

	if err := s.storage.Upload(key, in.Data); err != nil {
		return domain.ProductImage{}, fmt.Errorf("upload product image: %w", err)
	}

	image := domain.ProductImage{
		ID:        imageID,
		ProductID: product.ID,
		ObjectKey: key,
		ImageURL:  s.storage.URL(key),
	}

	err = s.tx.Run(ctx, func(repos app.Repositories) error {
		return repos.Products.CreateProductImage(ctx, &image)
	})
	if err != nil {
		if deleteErr := s.storage.Delete(key); deleteErr != nil {
			zap.L().Error("Failed to remove orphaned product image",
				zap.String("key", key),
				zap.Error(deleteErr),
			)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ProductImage{}, lookupError(id, sql.ErrNoRows)
		}
		return domain.ProductImage{}, fmt.Errorf("save product image: %w", err)
	}

	events.Emit(ctx, s.publisher, events.ProductExchange, events.ProductImageUploadedEvent, events.ProductImageUploadedPayload{
		ID:        image.ID,
		ProductID: image.ProductID,
		ImageURL:  image.ImageURL,
		CreatedAt: image.CreatedAt,
	})
	return image, nil
}

// ListImages returns the images of a product in upload order.
func (s *Service) ListImages(ctx context.Context, id int64) ([]domain.ProductImage, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	images, err := s.repos.Products.ListProductImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	if images == nil {
		images = make([]domain.ProductImage, 0)
	}
	return images, nil
}

// activeCategory share-locks the referenced category so it cannot be
// deactivated before the product write commits.
func activeCategory(ctx context.Context, repos app.Repositories, id int64) (domain.Category, error) {
	category, err := repos.Categories.LockActiveCategory(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, categoryNotFound(id)
		}
		return domain.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return category, nil
}

func writeError(op string, in CreateInput, err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateKey):
		return duplicateSKU(in.SKU)
	case errors.Is(err, domain.ErrNotFound):
		return categoryNotFound(in.CategoryID)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func lookupError(id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Product not found with id %d", id)
	}
	return fmt.Errorf("get product %d: %w", id, err)
}

func duplicateSKU(sku string) error {
	return domain.Duplicate("A product with SKU '%s' already exists.", sku)
}

func categoryNotFound(id int64) error {
	return domain.NotFound("Active category with ID '%d' not found.", id)
}

func imageExtension(contentType string) (string, bool) {
	switch contentType {
	case "image/png":
		return ".png", true
	case "image/jpeg", "image/jpg":
		return ".jpg", true
	default:
		return "", false
	}
}

func payload(p domain.Product) events.ProductPayload {
	return events.ProductPayload{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		SKU:            p.SKU,
		InventoryCount: p.InventoryCount,
		CategoryID:     p.CategoryID,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
