package category

import (
	"catalog/app"
	"catalog/domain"
	"context"
)

type ToggleCategoryStatusHandler struct {
	service *Service
}

func NewToggleCategoryStatusHandler(service *Service) *ToggleCategoryStatusHandler {
	return &ToggleCategoryStatusHandler{
		service: service,
	}
}

type ToggleCategoryStatusRequest struct {
	ID int64 `params:"id" query:"-" json:"-" validate:"gt=0"`
}

type ToggleCategoryStatusResponse = app.Response[domain.Category]

func (h ToggleCategoryStatusHandler) Handle(ctx context.Context, req *ToggleCategoryStatusRequest) (*ToggleCategoryStatusResponse, error) {
	if err := app.Validate("category.toggle", req); err != nil {
		return nil, err
	}

	category, err := h.service.ToggleStatus(ctx, req.ID)
	if err != nil {
		return nil, app.HTTPError("category.toggle", err)
	}

	return app.OK("Category status toggled successfully", category), nil
}
