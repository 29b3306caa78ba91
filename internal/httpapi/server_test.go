package httpapi

import (
	"bytes"
	"catalog/app/apptest"
	"catalog/app/category"
	"catalog/app/product"
	"catalog/infra/rabbitmq"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	app     *fiber.App
	store   *apptest.Store
	storage *apptest.Storage
}

func newTestAPI(t *testing.T, checks map[string]Checker) *testAPI {
	t.Helper()

	store := apptest.NewStore()
	storage := apptest.NewStorage()

	app := New(Deps{
		Categories:  category.NewService(store, store.Repositories(), nil),
		Products:    product.NewService(store, store.Repositories(), nil, storage),
		ServiceName: "catalog",
		FrontendURL: "https://shop.example.com",
		Checks:      checks,
	})

	return &testAPI{app: app, store: store, storage: storage}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	return a.send(t, req)
}

func (a *testAPI) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()

	res, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	return res.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type categoryJSON struct {
	ID     int64  `json:"categoryId"`
	Name   string `json:"categoryName"`
	Active bool   `json:"active"`
}

type pageJSON[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func TestCategoryLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)

	status, env := api.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"categoryName": "Books"})
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "success", env.Status)
	require.Equal(t, "Category created successfully", env.Message)
	created := decode[categoryJSON](t, env.Data)
	require.True(t, created.Active)

	status, env = api.do(t, http.MethodPost, "/api/v1/categories", map[string]any{"categoryName": "Books"})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "error", env.Status)
	require.Equal(t, "Category with name 'Books' already exists", env.Message)

	status, env = api.do(t, http.MethodGet, "/api/v1/categories?status=all", nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[pageJSON[categoryJSON]](t, env.Data)
	require.Len(t, page.Content, 1)
	require.Equal(t, "Books", page.Content[0].Name)
	require.Equal(t, 1, page.TotalPages)

	path := fmt.Sprintf("/api/v1/categories/%d", created.ID)

	status, _ = api.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = api.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, fmt.Sprintf("Category not found with id %d", created.ID), env.Message)

	status, env = api.do(t, http.MethodGet, path+"?status=all", nil)
	require.Equal(t, http.StatusOK, status)
	require.False(t, decode[categoryJSON](t, env.Data).Active)

	status, env = api.do(t, http.MethodPatch, path+"/toggle", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, decode[categoryJSON](t, env.Data).Active)

	status, env = api.do(t, http.MethodPut, path, map[string]any{"categoryName": "Novels", "description": "Fiction"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Novels", decode[categoryJSON](t, env.Data).Name)
}

func TestRequestErrors(t *testing.T) {
	api := newTestAPI(t, nil)

	tests := []struct {
		name    string
		method  string
		path    string
		body    any
		status  int
		message string
	}{
		{"validation", http.MethodPost, "/api/v1/categories", map[string]any{}, http.StatusBadRequest, "categoryName: is required"},
		{"malformed json", http.MethodPost, "/api/v1/categories", "{", http.StatusBadRequest, "Invalid body"},
		{"bad id", http.MethodGet, "/api/v1/categories/abc", nil, http.StatusBadRequest, "Invalid path params"},
		{"negative page", http.MethodGet, "/api/v1/products?page=-1", nil, http.StatusBadRequest, "page: must be greater than or equal to 0"},
		{"missing product", http.MethodGet, "/api/v1/products/5", nil, http.StatusNotFound, "Product not found with id 5"},
		{"unknown route", http.MethodGet, "/api/v1/orders", nil, http.StatusNotFound, "Cannot GET /api/v1/orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := api.do(t, tt.method, tt.path, tt.body)

			require.Equal(t, tt.status, status)
			require.Equal(t, "error", env.Status)
			require.Equal(t, tt.message, env.Message)
		})
	}
}

func TestListing_PageFarPastTheEnd(t *testing.T) {
	api := newTestAPI(t, nil)
	api.store.SeedCategory("Books", true)

	for _, path := range []string{
		"/api/v1/categories?page=184467440737095516&size=100",
		"/api/v1/products?page=184467440737095516&size=100&status=all",
	} {
		status, env := api.do(t, http.MethodGet, path, nil)

		require.Equal(t, http.StatusOK, status, path)
		page := decode[pageJSON[map[string]any]](t, env.Data)
		require.Empty(t, page.Content)
		require.NotNil(t, page.Content)
	}
}

func TestQueryStringCannotOverrideBodyOrPath(t *testing.T) {
	api := newTestAPI(t, nil)
	books := api.store.SeedCategory("Books", true)
	other := api.store.SeedCategory("Music", true)

	status, env := api.do(t, http.MethodPut,
		fmt.Sprintf("/api/v1/categories/%d?Name=Hacked&Description=x&ID=%d", books.ID, other.ID),
		map[string]any{"categoryName": "Novels"})

	require.Equal(t, http.StatusOK, status)
	updated := decode[map[string]any](t, env.Data)
	require.Equal(t, float64(books.ID), updated["categoryId"])
	require.Equal(t, "Novels", updated["categoryName"])
	require.Nil(t, updated["description"])

	status, env = api.do(t, http.MethodPost, "/api/v1/products?Price=0.01&SKU=EVIL&InventoryCount=999", map[string]any{
		"productName":    "Go in Action",
		"price":          "39.99",
		"sku":            "BK-1",
		"inventoryCount": 3,
		"categoryId":     books.ID,
	})

	require.Equal(t, http.StatusCreated, status)
	created := decode[map[string]any](t, env.Data)
	require.Equal(t, "BK-1", created["sku"])
	require.Equal(t, float64(3), created["inventoryCount"])
	require.Equal(t, "39.99", created["price"])
}

func TestProductRequiresActiveCategory(t *testing.T) {
	api := newTestAPI(t, nil)
	archive := api.store.SeedCategory("Archive", false)

	body := map[string]any{
		"productName":    "Old Atlas",
		"price":          12.5,
		"sku":            "AT-1",
		"inventoryCount": 1,
		"categoryId":     archive.ID,
	}

	status, env := api.do(t, http.MethodPost, "/api/v1/products", body)

	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, fmt.Sprintf("Active category with ID '%d' not found.", archive.ID), env.Message)
	require.Zero(t, api.store.ProductCount())
}

func TestProductListing(t *testing.T) {
	api := newTestAPI(t, nil)
	books := api.store.SeedCategory("Books", true)

	for i := 1; i <= 3; i++ {
		status, _ := api.do(t, http.MethodPost, "/api/v1/products", map[string]any{
			"productName":    fmt.Sprintf("Book %d", i),
			"price":          "9.99",
			"sku":            fmt.Sprintf("BK-%d", i),
			"inventoryCount": i,
			"categoryId":     books.ID,
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, env := api.do(t, http.MethodGet, "/api/v1/products?page=1&size=2&status=ACTIVE", nil)

	require.Equal(t, http.StatusOK, status)
	page := decode[pageJSON[map[string]any]](t, env.Data)
	require.Equal(t, int64(3), page.TotalElements)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 1)
	require.Equal(t, "BK-1", page.Content[0]["sku"])
	require.Equal(t, "Books", page.Content[0]["categoryName"])
}

func multipartImage(t *testing.T, path, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="cover.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return req
}

func TestProductImages(t *testing.T) {
	api := newTestAPI(t, nil)
	books := api.store.SeedCategory("Books", true)

	status, env := api.do(t, http.MethodPost, "/api/v1/products", map[string]any{
		"productName":    "Go in Action",
		"price":          39.99,
		"sku":            "BK-1",
		"inventoryCount": 3,
		"categoryId":     books.ID,
	})
	require.Equal(t, http.StatusCreated, status)
	productID := int64(decode[map[string]any](t, env.Data)["productId"].(float64))
	path := fmt.Sprintf("/api/v1/products/%d/images", productID)

	status, env = api.send(t, multipartImage(t, path, "image/png", []byte("png-bytes")))
	require.Equal(t, http.StatusCreated, status)
	image := decode[map[string]any](t, env.Data)
	require.NotEmpty(t, image["url"])
	require.Len(t, api.storage.Objects, 1)

	status, env = api.send(t, multipartImage(t, path, "image/gif", []byte("gif")))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "image: only PNG and JPEG images are allowed", env.Message)

	status, env = api.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[[]map[string]any](t, env.Data), 1)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, map[string]Checker{
		"postgres": func(ctx context.Context) error { return nil },
	})

	res, err := api.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "catalog", body["service"])

	down := newTestAPI(t, map[string]Checker{
		"postgres": func(ctx context.Context) error { return errors.New("connection refused") },
	})
	res, err = down.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestHealth_BrokerDisconnected(t *testing.T) {
	api := newTestAPI(t, map[string]Checker{
		"postgres": func(ctx context.Context) error { return nil },
		"rabbitmq": (&rabbitmq.RabbitMQPublisher{}).Check,
	})

	res, err := api.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, "unavailable", body.Status)
	require.Equal(t, "ok", body.Checks["postgres"])
	require.Equal(t, rabbitmq.ErrConnectionClosed.Error(), body.Checks["rabbitmq"])
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t, nil)

	for _, origin := range []string{"http://localhost:5173", "https://shop.example.com"} {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/categories", nil)
		req.Header.Set(fiber.HeaderOrigin, origin)
		req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPatch)

		res, err := api.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, res.StatusCode)
		require.Equal(t, origin, res.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		require.Equal(t, "true", res.Header.Get(fiber.HeaderAccessControlAllowCredentials))
	}
}

func TestSecurityHeaders(t *testing.T) {
	api := newTestAPI(t, nil)

	res, err := api.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil), -1)

	require.NoError(t, err)
	require.Equal(t, "nosniff", res.Header.Get(fiber.HeaderXContentTypeOptions))
	require.NotEmpty(t, res.Header.Get(fiber.HeaderXRequestID))
}
