package category

import "github.com/google/uuid"

// Category groups catalog products for browsing.
type Category struct {
	ID       uuid.UUID `json:"categoryId"`
	Name     string    `json:"categoryName"`
	ImageURL string    `json:"categoryImg,omitempty"`
}
