package category

import (
	"catalog/app"
	"catalog/domain"
	"catalog/pkg/paging"
	"context"
)

type GetCategoriesHandler struct {
	service *Service
}

func NewGetCategoriesHandler(service *Service) *GetCategoriesHandler {
	return &GetCategoriesHandler{
		service: service,
	}
}

type GetCategoriesRequest struct {
	Page   int    `query:"page" validate:"min=0"`
	Size   int    `query:"size" validate:"min=0"`
	Status string `query:"status"`
}

type GetCategoriesResponse = app.Response[paging.Page[domain.Category]]

func (h GetCategoriesHandler) Handle(ctx context.Context, req *GetCategoriesRequest) (*GetCategoriesResponse, error) {
	if err := app.Validate("category.index", req); err != nil {
		return nil, err
	}

	page, err := h.service.List(ctx, app.PageRequest(req.Page, req.Size, req.Status))
	if err != nil {
		return nil, app.HTTPError("category.index", err)
	}

	return app.OK("Categories retrieved successfully", page), nil
}
