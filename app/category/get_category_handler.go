package category

import (
	"catalog/app"
	"catalog/domain"
	"context"
)

type GetCategoryHandler struct {
	service *Service
}

func NewGetCategoryHandler(service *Service) *GetCategoryHandler {
	return &GetCategoryHandler{
		service: service,
	}
}

// GetCategoryRequest reads active categories unless status says otherwise.
type GetCategoryRequest struct {
	ID     int64  `params:"id" query:"-" json:"-" validate:"gt=0"`
	Status string `query:"status" json:"-"`
}

type GetCategoryResponse = app.Response[domain.Category]

func (h GetCategoryHandler) Handle(ctx context.Context, req *GetCategoryRequest) (*GetCategoryResponse, error) {
	if err := app.Validate("category.show", req); err != nil {
		return nil, err
	}

	category, err := h.service.Find(ctx, req.ID, app.ParseStatus(req.Status))
	if err != nil {
		return nil, app.HTTPError("category.show", err)
	}

	return app.OK("Category retrieved successfully", category), nil
}
