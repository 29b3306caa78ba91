package httpapi

import (
	"catalog/app/category"
	"catalog/app/product"
	"catalog/internal/middleware"
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const devFrontendOrigin = "http://localhost:5173"

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

type Deps struct {
	Categories  *category.Service
	Products    *product.Service
	ServiceName string
	FrontendURL string
	// Checks run on GET /health, keyed by dependency name.
	Checks map[string]Checker
}

// New builds the fiber app with middleware and every route mounted.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		BodyLimit:    6 * 1024 * 1024,
		ErrorHandler: writeError,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.NewRequestLoggerMiddleware())
	app.Use(middleware.NewSecurityHeadersMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOrigins(deps.FrontendURL), ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	app.Get("/health", healthHandler(deps))

	api := app.Group("/api/v1")

	categories := api.Group("/categories")
	categories.Post("/", handle[category.CreateCategoryRequest, category.CreateCategoryResponse](category.NewCreateCategoryHandler(deps.Categories)))
	categories.Get("/", handle[category.GetCategoriesRequest, category.GetCategoriesResponse](category.NewGetCategoriesHandler(deps.Categories)))
	categories.Get("/:id", handle[category.GetCategoryRequest, category.GetCategoryResponse](category.NewGetCategoryHandler(deps.Categories)))
	categories.Put("/:id", handle[category.UpdateCategoryRequest, category.UpdateCategoryResponse](category.NewUpdateCategoryHandler(deps.Categories)))
	categories.Delete("/:id", handle[category.DeleteCategoryRequest, category.DeleteCategoryResponse](category.NewDeleteCategoryHandler(deps.Categories)))
	categories.Patch("/:id/toggle", handle[category.ToggleCategoryStatusRequest, category.ToggleCategoryStatusResponse](category.NewToggleCategoryStatusHandler(deps.Categories)))

	products := api.Group("/products")
	products.Post("/", handle[product.CreateProductRequest, product.CreateProductResponse](product.NewCreateProductHandler(deps.Products)))
	products.Get("/", handle[product.GetProductsRequest, product.GetProductsResponse](product.NewGetProductsHandler(deps.Products)))
	products.Get("/:id", handle[product.GetProductRequest, product.GetProductResponse](product.NewGetProductHandler(deps.Products)))
	products.Put("/:id", handle[product.UpdateProductRequest, product.UpdateProductResponse](product.NewUpdateProductHandler(deps.Products)))
	products.Delete("/:id", handle[product.DeleteProductRequest, product.DeleteProductResponse](product.NewDeleteProductHandler(deps.Products)))
	products.Patch("/:id/toggle", handle[product.ToggleProductStatusRequest, product.ToggleProductStatusResponse](product.NewToggleProductStatusHandler(deps.Products)))
	products.Post("/:id/images", handle[product.UploadProductImageRequest, product.UploadProductImageResponse](product.NewUploadProductImageHandler(deps.Products)))
	products.Get("/:id/images", handle[product.GetProductImagesRequest, product.GetProductImagesResponse](product.NewGetProductImagesHandler(deps.Products)))

	return app
}

func allowedOrigins(frontendURL string) []string {
	origins := []string{devFrontendOrigin}
	if frontendURL != "" && frontendURL != devFrontendOrigin {
		origins = append(origins, frontendURL)
	}
	return origins
}

func healthHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		checks := fiber.Map{}
		healthy := true
		for name, check := range deps.Checks {
			if err := check(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		body := fiber.Map{"status": "ok", "service": deps.ServiceName}
		if len(checks) > 0 {
			body["checks"] = checks
		}
		if !healthy {
			body["status"] = "unavailable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		return c.JSON(body)
	}
}
