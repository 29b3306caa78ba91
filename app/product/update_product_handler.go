package product

import (
	"catalog/app"
	"catalog/domain"
	"context"
)

type UpdateProductHandler struct {
	service *Service
}

func NewUpdateProductHandler(service *Service) *UpdateProductHandler {
	return &UpdateProductHandler{
		service: service,
	}
}

type UpdateProductRequest struct {
	ID int64 `params:"id" query:"-" json:"-" validate:"gt=0"`
	ProductBody
}

type UpdateProductResponse = app.Response[domain.Product]

func (h UpdateProductHandler) Handle(ctx context.Context, req *UpdateProductRequest) (*UpdateProductResponse, error) {
	if err := app.Validate("product.update", req); err != nil {
		return nil, err
	}

	product, err := h.service.Update(ctx, req.ID, req.input())
	if err != nil {
		return nil, app.HTTPError("product.update", err)
	}

	return app.OK("Product updated successfully", product), nil
}
