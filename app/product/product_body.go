package product

import (
	"github.com/shopspring/decimal"
)

// ProductBody is the JSON body shared by create and update.
type ProductBody struct {
	Name           string           `json:"productName" query:"-" validate:"required,notblank,max=150"`
	Description    *string          `json:"description" query:"-" validate:"omitempty,max=500"`
	Price          *decimal.Decimal `json:"price" query:"-" validate:"required,price"`
	SKU            string           `json:"sku" query:"-" validate:"required,notblank,max=50"`
	InventoryCount *int             `json:"inventoryCount" query:"-" validate:"required,min=0"`
	CategoryID     *int64           `json:"categoryId" query:"-" validate:"required,gt=0"`
}

// input must only be called after validation, which guarantees the pointers.
func (b ProductBody) input() CreateInput {
	return CreateInput{
		Name:           b.Name,
		Description:    b.Description,
		Price:          *b.Price,
		SKU:            b.SKU,
		InventoryCount: *b.InventoryCount,
		CategoryID:     *b.CategoryID,
	}
}
