package domain

import "time"

type ProductImage struct {
	ID        string    `json:"imageId" db:"id"`
	ProductID int64     `json:"productId" db:"product_id"`
	ObjectKey string    `json:"-" db:"object_key"`
	ImageURL  string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
