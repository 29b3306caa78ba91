package app

import (
	"catalog/domain"
	"catalog/pkg/paging"
	"context"
)

// Repository lookups return sql.ErrNoRows when nothing matches. Writes that
// violate a unique constraint return domain.ErrDuplicateKey and writes that
// reference a missing category return domain.ErrNotFound.

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	// GetCategory looks a category up by id, restricted to records matching status.
	GetCategory(ctx context.Context, id int64, status paging.Status) (domain.Category, error)
	// LockActiveCategory reads an active category and holds a share lock on it
	// until the surrounding transaction ends.
	LockActiveCategory(ctx context.Context, id int64) (domain.Category, error)
	CategoryNameExists(ctx context.Context, name string) (bool, error)
	ListCategories(ctx context.Context, req paging.Request) ([]domain.Category, int64, error)
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id int64, status paging.Status) (domain.Product, error)
	// SKUExists reports whether another product uses sku. A zero excludeID
	// checks every product.
	SKUExists(ctx context.Context, sku string, excludeID int64) (bool, error)
	ListProducts(ctx context.Context, req paging.Request) ([]domain.Product, int64, error)
	CreateProductImage(ctx context.Context, image *domain.ProductImage) error
	ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error)
}

// Repositories groups repositories bound to the same connection or transaction.
type Repositories struct {
	Categories CategoryRepository
	Products   ProductRepository
}

// TxRunner runs fn inside one transaction, committing when fn returns nil
// and rolling back otherwise.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}

// ObjectStorage stores binary blobs such as product images.
type ObjectStorage interface {
	Upload(key string, data []byte) error
	Delete(key string) error
	URL(key string) string
}
