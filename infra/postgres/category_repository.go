package postgres

import (
	"catalog/app"
	"catalog/domain"
	"catalog/pkg/paging"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const categoryColumns = `id, name, description, active, created_at, updated_at`

type CategoryRepository struct {
	q sqlx.ExtContext
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (name, description, active)
		VALUES ($1, $2, $3)
		RETURNING ` + categoryColumns

	if err := sqlx.GetContext(ctx, r.q, c, query, c.Name, c.Description, c.Active); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, active = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + categoryColumns

	if err := sqlx.GetContext(ctx, r.q, c, query, c.Name, c.Description, c.Active, c.ID); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *CategoryRepository) GetCategory(ctx context.Context, id int64, status paging.Status) (domain.Category, error) {
	var c domain.Category
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	args := []any{id}

	if p := status.Predicate(); p != nil {
		query += ` AND active = $2`
		args = append(args, *p)
	}

	err := sqlx.GetContext(ctx, r.q, &c, query, args...)
	return c, err
}

func (r *CategoryRepository) LockActiveCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND active = TRUE FOR SHARE`

	err := sqlx.GetContext(ctx, r.q, &c, query, id)
	return c, err
}

func (r *CategoryRepository) CategoryNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`

	err := sqlx.GetContext(ctx, r.q, &exists, query, name)
	return exists, err
}

func (r *CategoryRepository) ListCategories(ctx context.Context, req paging.Request) ([]domain.Category, int64, error) {
	where, args := paging.WhereActive("active", req.Status, 1)

	var total int64
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*) FROM categories`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	query := `SELECT ` + categoryColumns + ` FROM categories` + where +
		paging.OrderBy("created_at", "id") +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	categories := make([]domain.Category, 0)
	if err := sqlx.SelectContext(ctx, r.q, &categories, query, append(args, req.Limit(), req.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("select categories: %w", err)
	}

	return categories, total, nil
}

var _ app.CategoryRepository = (*CategoryRepository)(nil)
