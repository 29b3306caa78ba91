package category

import (
	"catalog/app"
	"catalog/domain"
	"context"
)

type UpdateCategoryHandler struct {
	service *Service
}

func NewUpdateCategoryHandler(service *Service) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{
		service: service,
	}
}

type UpdateCategoryRequest struct {
	ID          int64   `params:"id" query:"-" json:"-" validate:"gt=0"`
	Name        string  `json:"categoryName" query:"-" validate:"required,notblank,max=100"`
	Description *string `json:"description" query:"-" validate:"omitempty,max=300"`
}

type UpdateCategoryResponse = app.Response[domain.Category]

func (h UpdateCategoryHandler) Handle(ctx context.Context, req *UpdateCategoryRequest) (*UpdateCategoryResponse, error) {
	if err := app.Validate("category.update", req); err != nil {
		return nil, err
	}

	category, err := h.service.Update(ctx, req.ID, UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, app.HTTPError("category.update", err)
	}

	return app.OK("Category updated successfully", category), nil
}
