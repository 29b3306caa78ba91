package category

import (
	"catalog/app"
	"catalog/domain"
	"context"
)

type CreateCategoryHandler struct {
	service *Service
}

type CreateCategoryRequest struct {
	Name        string  `json:"categoryName" query:"-" validate:"required,notblank,max=100"`
	Description *string `json:"description" query:"-" validate:"omitempty,max=300"`
}

type CreateCategoryResponse = app.Response[domain.Category]

func NewCreateCategoryHandler(service *Service) *CreateCategoryHandler {
	return &CreateCategoryHandler{
		service: service,
	}
}

func (h CreateCategoryHandler) Handle(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryResponse, error) {
	if err := app.Validate("category.create", req); err != nil {
		return nil, err
	}

	category, err := h.service.Create(ctx, CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, app.HTTPError("category.create", err)
	}

	return app.Created("Category created successfully", category), nil
}
