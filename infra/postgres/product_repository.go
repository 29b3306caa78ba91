package postgres

import (
	"catalog/app"
	"catalog/domain"
	"catalog/pkg/paging"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.sku, p.inventory_count,
	       p.category_id, c.name AS category_name, p.active, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

type ProductRepository struct {
	q sqlx.ExtContext
}

func (r *ProductRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, sku, inventory_count, category_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRowxContext(ctx, query,
		p.Name, p.Description, p.Price, p.SKU, p.InventoryCount, p.CategoryID, p.Active,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, sku = $4,
		    inventory_count = $5, category_id = $6, active = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING created_at, updated_at`

	err := r.q.QueryRowxContext(ctx, query,
		p.Name, p.Description, p.Price, p.SKU, p.InventoryCount, p.CategoryID, p.Active, p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, id int64, status paging.Status) (domain.Product, error) {
	var p domain.Product
	query := productSelect + ` WHERE p.id = $1`
	args := []any{id}

	if active := status.Predicate(); active != nil {
		query += ` AND p.active = $2`
		args = append(args, *active)
	}

	err := sqlx.GetContext(ctx, r.q, &p, query, args...)
	return p, err
}

func (r *ProductRepository) SKUExists(ctx context.Context, sku string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1 AND id <> $2)`

	err := sqlx.GetContext(ctx, r.q, &exists, query, sku, excludeID)
	return exists, err
}

func (r *ProductRepository) ListProducts(ctx context.Context, req paging.Request) ([]domain.Product, int64, error) {
	where, args := paging.WhereActive("p.active", req.Status, 1)

	var total int64
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*) FROM products p`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := productSelect + where +
		paging.OrderBy("p.created_at", "p.id") +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	products := make([]domain.Product, 0)
	if err := sqlx.SelectContext(ctx, r.q, &products, query, append(args, req.Limit(), req.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("select products: %w", err)
	}

	return products, total, nil
}

func (r *ProductRepository) CreateProductImage(ctx context.Context, image *domain.ProductImage) error {
	query := `
		INSERT INTO product_images (id, product_id, object_key, url)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.q.QueryRowxContext(ctx, query,
		image.ID, image.ProductID, image.ObjectKey, image.ImageURL,
	).Scan(&image.CreatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *ProductRepository) ListProductImages(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	images := make([]domain.ProductImage, 0)
	query := `
		SELECT id, product_id, object_key, url, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY created_at, id`

	if err := sqlx.SelectContext(ctx, r.q, &images, query, productID); err != nil {
		return nil, err
	}
	return images, nil
}

var _ app.ProductRepository = (*ProductRepository)(nil)
