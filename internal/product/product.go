package product

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Orders and carts snapshot the fields they
// need instead of referencing rows, so catalog edits never rewrite
// financial history.
type Product struct {
	ID          uuid.UUID       `json:"productId"`
	Name        string          `json:"productName"`
	Description string          `json:"productDesc"`
	Price       decimal.Decimal `json:"productPrice"`
	Category    string          `json:"categoryName,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}
