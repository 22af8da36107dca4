package catalog

import "github.com/shopspring/decimal"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ImageRef is the catalog's view of a product image; the bytes live in the image store.
type ImageRef struct {
	ID          int64  `json:"imageId"`
	FileName    string `json:"imageName"`
	DownloadURL string `json:"downloadUrl"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Images      []ImageRef      `json:"images"`
}

// Filter narrows a product listing. Empty fields match everything.
type Filter struct {
	Brand      string
	Name       string
	Category   string
	CategoryID int64
}

type AddProductRequest struct {
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// UpdateProductRequest overwrites only the fields that are set.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Inventory   *int             `json:"inventory,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
}
