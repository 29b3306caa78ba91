package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchanges
const (
	CategoryExchange  = "catalog.category"
	ProductExchange   = "catalog.product"
	InventoryExchange = "catalog.inventory"
)

// Event names
const (
	CategoryCreatedEvent       = "category.created"
	CategoryUpdatedEvent       = "category.updated"
	CategoryDeletedEvent       = "category.deleted"
	CategoryStatusToggledEvent = "category.status_toggled"

	ProductCreatedEvent       = "product.created"
	ProductUpdatedEvent       = "product.updated"
	ProductDeletedEvent       = "product.deleted"
	ProductStatusToggledEvent = "product.status_toggled"
	ProductInventorySetEvent  = "product.inventory_set"
	ProductImageUploadedEvent = "product.image.uploaded"

	// Published by the inventory service, consumed by the worker.
	InventoryAdjustedEvent = "inventory.adjusted"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

type CategoryPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProductPayload struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	Price          decimal.Decimal `json:"price"`
	SKU            string          `json:"sku"`
	InventoryCount int             `json:"inventoryCount"`
	CategoryID     int64           `json:"categoryId"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type ProductImageUploadedPayload struct {
	ID        string    `json:"id"`
	ProductID int64     `json:"productId"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type InventoryAdjustedPayload struct {
	ProductID      int64 `json:"productId"`
	InventoryCount *int  `json:"inventoryCount"`
}
