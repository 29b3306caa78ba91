package domain

import "time"

type Category struct {
	ID          int64     `json:"categoryId" db:"id"`
	Name        string    `json:"categoryName" db:"name"`
	Description *string   `json:"description" db:"description"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
