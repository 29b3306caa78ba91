package product

import (
	"catalog/app"
	"catalog/domain"
	"catalog/pkg/paging"
	"context"
)

type GetProductsHandler struct {
	service *Service
}

func NewGetProductsHandler(service *Service) *GetProductsHandler {
	return &GetProductsHandler{
		service: service,
	}
}

type GetProductsRequest struct {
	Page   int    `query:"page" validate:"min=0"`
	Size   int    `query:"size" validate:"min=0"`
	Status string `query:"status"`
}

type GetProductsResponse = app.Response[paging.Page[domain.Product]]

func (h GetProductsHandler) Handle(ctx context.Context, req *GetProductsRequest) (*GetProductsResponse, error) {
	if err := app.Validate("product.index", req); err != nil {
		return nil, err
	}

	page, err := h.service.List(ctx, app.PageRequest(req.Page, req.Size, req.Status))
	if err != nil {
		return nil, app.HTTPError("product.index", err)
	}

	return app.OK("Products retrieved successfully", page), nil
}
