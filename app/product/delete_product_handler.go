package product

import (
	"catalog/app"
	"context"
)

type DeleteProductHandler struct {
	service *Service
}

func NewDeleteProductHandler(service *Service) *DeleteProductHandler {
	return &DeleteProductHandler{
		service: service,
	}
}

type DeleteProductRequest struct {
	ID int64 `params:"id" query:"-" json:"-" validate:"gt=0"`
}

type DeleteProductResponse = app.Response[any]

func (h DeleteProductHandler) Handle(ctx context.Context, req *DeleteProductRequest) (*DeleteProductResponse, error) {
	if err := app.Validate("product.delete", req); err != nil {
		return nil, err
	}

	if err := h.service.SoftDelete(ctx, req.ID); err != nil {
		return nil, app.HTTPError("product.delete", err)
	}

	return app.OK[any]("Product deleted successfully", nil), nil
}
