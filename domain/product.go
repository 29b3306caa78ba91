package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             int64           `json:"productId" db:"id"`
	Name           string          `json:"productName" db:"name"`
	Description    *string         `json:"description" db:"description"`
	Price          decimal.Decimal `json:"price" db:"price"`
	SKU            string          `json:"sku" db:"sku"`
	InventoryCount int             `json:"inventoryCount" db:"inventory_count"`
	CategoryID     int64           `json:"categoryId" db:"category_id"`
	CategoryName   string          `json:"categoryName" db:"category_name"`
	Active         bool            `json:"active" db:"active"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}
