package product

import (
	"catalog/app"
	"catalog/domain"
	"catalog/pkg/httperror"
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
)

const maxImageSize = 5 * 1024 * 1024

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/jpg"}

type UploadProductImageHandler struct {
	service *Service
}

func NewUploadProductImageHandler(service *Service) *UploadProductImageHandler {
	return &UploadProductImageHandler{
		service: service,
	}
}

type UploadProductImageRequest struct {
	ID int64 `params:"id" query:"-" json:"-" validate:"gt=0"`
}

type UploadProductImageResponse = app.Response[domain.ProductImage]

func (h *UploadProductImageHandler) Handle(ctx context.Context, req *UploadProductImageRequest) (*UploadProductImageResponse, error) {
	if err := app.Validate("product.images.upload", req); err != nil {
		return nil, err
	}

	c, ok := ctx.Value(app.FiberContextKey).(*fiber.Ctx)
	if !ok {
		return nil, httperror.InternalServerError("product.images.upload.no_context", app.InternalMessage, nil)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return nil, httperror.BadRequest("product.images.upload.missing_file", "image: is required", fiber.Map{"error": err.Error()})
	}

	if file.Size > maxImageSize {
		return nil, httperror.BadRequest("product.images.upload.file_too_large", "image: must not exceed 5MB",
			fiber.Map{
				"sizeMb": float64(file.Size) / 1024 / 1024,
				"maxMb":  5,
			})
	}

	contentType := file.Header.Get("Content-Type")
	if _, ok := imageExtension(contentType); !ok {
		return nil, httperror.BadRequest("product.images.upload.invalid_content_type", "image: only PNG and JPEG images are allowed",
			fiber.Map{
				"received": contentType,
				"allowed":  allowedImageTypes,
			})
	}

	fileReader, err := file.Open()
	if err != nil {
		return nil, app.HTTPError("product.images.upload.open", err)
	}
	defer fileReader.Close()

	data, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, app.HTTPError("product.images.upload.read", err)
	}

	image, err := h.service.UploadImage(ctx, req.ID, UploadImageInput{
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, ErrStorageDisabled) {
			return nil, httperror.New(fiber.StatusServiceUnavailable, "product.images.upload.disabled", "Image storage is not configured", nil)
		}
		return nil, app.HTTPError("product.images.upload", err)
	}

	return app.Created("Product image uploaded successfully", image), nil
}
