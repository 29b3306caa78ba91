package product

import (
	"catalog/app"
	"catalog/domain"
	"context"
)

type CreateProductHandler struct {
	service *Service
}

type CreateProductRequest struct {
	ProductBody
}

type CreateProductResponse = app.Response[domain.Product]

func NewCreateProductHandler(service *Service) *CreateProductHandler {
	return &CreateProductHandler{
		service: service,
	}
}

func (h CreateProductHandler) Handle(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	if err := app.Validate("product.create", req); err != nil {
		return nil, err
	}

	product, err := h.service.Create(ctx, req.input())
	if err != nil {
		return nil, app.HTTPError("product.create", err)
	}

	return app.Created("Product created successfully", product), nil
}
