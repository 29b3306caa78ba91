package category

import (
	"catalog/app"
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/paging"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type CreateInput struct {
	Name        string
	Description *string
}

type UpdateInput struct {
	Name        string
	Description *string
}

// Service holds the category use cases. Reads go straight to repos and every
// mutation runs in one transaction.
type Service struct {
	tx        app.TxRunner
	repos     app.Repositories
	publisher events.Publisher
}

func NewService(tx app.TxRunner, repos app.Repositories, publisher events.Publisher) *Service {
	return &Service{
		tx:        tx,
		repos:     repos,
		publisher: publisher,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Category, error) {
	var created domain.Category

	err := s.tx.Run(ctx, func(repos app.Repositories) error {
		exists, err := repos.Categories.CategoryNameExists(ctx, in.Name)
		if err != nil {
			return fmt.Errorf("check category name: %w", err)
		}
		if exists {
			return duplicateName(in.Name)
		}

		created = domain.Category{
			Name:        in.Name,
			Description: in.Description,
			Active:      true,
		}
		if err := repos.Categories.CreateCategory(ctx, &created); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				return duplicateName(in.Name)
			}
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}

	events.Emit(ctx, s.publisher, events.CategoryExchange, events.CategoryCreatedEvent, payload(created))
	return created, nil
}

func (s *Service) List(ctx context.Context, req paging.Request) (paging.Page[domain.Category], error) {
	req = req.Normalize()

	categories, total, err := s.repos.Categories.ListCategories(ctx, req)
	if err != nil {
		return paging.Page[domain.Category]{}, fmt.Errorf("list categories: %w", err)
	}

	return paging.NewPage(categories, req, total), nil
}

// GetByID returns the category whatever its status.
func (s *Service) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	return s.Find(ctx, id, paging.All)
}

func (s *Service) GetActiveByID(ctx context.Context, id int64) (domain.Category, error) {
	return s.Find(ctx, id, paging.Active)
}

// Find returns the category with id if it matches status.
func (s *Service) Find(ctx context.Context, id int64, status paging.Status) (domain.Category, error) {
	category, err := s.repos.Categories.GetCategory(ctx, id, status)
	if err != nil {
		return domain.Category{}, lookupError(id, err)
	}
	return category, nil
}

// Update changes name and description of an active category. The name is
// checked for duplicates only when it changes.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (domain.Category, error) {
	var updated domain.Category

	err := s.tx.Run(ctx, func(repos app.Repositories) error {
		current, err := repos.Categories.GetCategory(ctx, id, paging.Active)
		if err != nil {
			return lookupError(id, err)
		}

		if in.Name != current.Name {
			exists, err := repos.Categories.CategoryNameExists(ctx, in.Name)
			if err != nil {
				return fmt.Errorf("check category name: %w", err)
			}
			if exists {
				return duplicateName(in.Name)
			}
		}

		current.Name = in.Name
		current.Description = in.Description
		if err := repos.Categories.UpdateCategory(ctx, &current); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				return duplicateName(in.Name)
			}
			return fmt.Errorf("update category: %w", err)
		}

		updated = current
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}

	events.Emit(ctx, s.publisher, events.CategoryExchange, events.CategoryUpdatedEvent, payload(updated))
	return updated, nil
}

// SoftDelete deactivates an active category. Deleting it again returns
// NotFound.
func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	var deleted domain.Category

	err := s.tx.Run(ctx, func(repos app.Repositories) error {
		current, err := repos.Categories.GetCategory(ctx, id, paging.Active)
		if err != nil {
			return lookupError(id, err)
		}

		current.Active = false
		if err := repos.Categories.UpdateCategory(ctx, &current); err != nil {
			return fmt.Errorf("soft delete category: %w", err)
		}

		deleted = current
		return nil
	})
	if err != nil {
		return err
	}

	events.Emit(ctx, s.publisher, events.CategoryExchange, events.CategoryDeletedEvent, payload(deleted))
	return nil
}

func (s *Service) ToggleStatus(ctx context.Context, id int64) (domain.Category, error) {
	var toggled domain.Category

	err := s.tx.Run(ctx, func(repos app.Repositories) error {
		current, err := repos.Categories.GetCategory(ctx, id, paging.All)
		if err != nil {
			return lookupError(id, err)
		}

		current.Active = !current.Active
		if err := repos.Categories.UpdateCategory(ctx, &current); err != nil {
			return fmt.Errorf("toggle category status: %w", err)
		}

		toggled = current
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}

	events.Emit(ctx, s.publisher, events.CategoryExchange, events.CategoryStatusToggledEvent, payload(toggled))
	return toggled, nil
}

func lookupError(id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("Category not found with id %d", id)
	}
	return fmt.Errorf("get category %d: %w", id, err)
}

func duplicateName(name string) error {
	return domain.Duplicate("Category with name '%s' already exists", name)
}

func payload(c domain.Category) events.CategoryPayload {
	return events.CategoryPayload{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
