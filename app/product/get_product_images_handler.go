package product

import (
	"catalog/app"
	"catalog/domain"
	"context"
)

type GetProductImagesHandler struct {
	service *Service
}

func NewGetProductImagesHandler(service *Service) *GetProductImagesHandler {
	return &GetProductImagesHandler{
		service: service,
	}
}

type GetProductImagesRequest struct {
	ID int64 `params:"id" query:"-" json:"-" validate:"gt=0"`
}

type GetProductImagesResponse = app.Response[[]domain.ProductImage]

func (h GetProductImagesHandler) Handle(ctx context.Context, req *GetProductImagesRequest) (*GetProductImagesResponse, error) {
	if err := app.Validate("product.images.index", req); err != nil {
		return nil, err
	}

	images, err := h.service.ListImages(ctx, req.ID)
	if err != nil {
		return nil, app.HTTPError("product.images.index", err)
	}

	return app.OK("Product images retrieved successfully", images), nil
}
