package category

import (
	"catalog/app"
	"context"
)

type DeleteCategoryHandler struct {
	service *Service
}

func NewDeleteCategoryHandler(service *Service) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{
		service: service,
	}
}

type DeleteCategoryRequest struct {
	ID int64 `params:"id" query:"-" json:"-" validate:"gt=0"`
}

type DeleteCategoryResponse = app.Response[any]

func (h DeleteCategoryHandler) Handle(ctx context.Context, req *DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	if err := app.Validate("category.delete", req); err != nil {
		return nil, err
	}

	if err := h.service.SoftDelete(ctx, req.ID); err != nil {
		return nil, app.HTTPError("category.delete", err)
	}

	return app.OK[any]("Category deleted successfully", nil), nil
}
