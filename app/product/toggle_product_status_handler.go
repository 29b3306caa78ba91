package product

import (
	"catalog/app"
	"catalog/domain"
	"context"
)

type ToggleProductStatusHandler struct {
	service *Service
}

func NewToggleProductStatusHandler(service *Service) *ToggleProductStatusHandler {
	return &ToggleProductStatusHandler{
		service: service,
	}
}

type ToggleProductStatusRequest struct {
	ID int64 `params:"id" query:"-" json:"-" validate:"gt=0"`
}

type ToggleProductStatusResponse = app.Response[domain.Product]

func (h ToggleProductStatusHandler) Handle(ctx context.Context, req *ToggleProductStatusRequest) (*ToggleProductStatusResponse, error) {
	if err := app.Validate("product.toggle", req); err != nil {
		return nil, err
	}

	product, err := h.service.ToggleStatus(ctx, req.ID)
	if err != nil {
		return nil, app.HTTPError("product.toggle", err)
	}

	return app.OK("Product status toggled successfully", product), nil
}
