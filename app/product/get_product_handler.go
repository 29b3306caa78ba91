package product

import (
	"catalog/app"
	"catalog/domain"
	"context"
)

type GetProductHandler struct {
	service *Service
}

func NewGetProductHandler(service *Service) *GetProductHandler {
	return &GetProductHandler{
		service: service,
	}
}

type GetProductRequest struct {
	ID     int64  `params:"id" query:"-" json:"-" validate:"gt=0"`
	Status string `query:"status" json:"-"`
}

type GetProductResponse = app.Response[domain.Product]

func (h GetProductHandler) Handle(ctx context.Context, req *GetProductRequest) (*GetProductResponse, error) {
	if err := app.Validate("product.show", req); err != nil {
		return nil, err
	}

	product, err := h.service.Find(ctx, req.ID, app.ParseStatus(req.Status))
	if err != nil {
		return nil, app.HTTPError("product.show", err)
	}

	return app.OK("Product fetched successfully", product), nil
}
