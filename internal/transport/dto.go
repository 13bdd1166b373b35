package transport

import "github.com/Skotchmaster/shop_backoffice/internal/models"

// ProductRow is a product as shown in listings: the stored document plus its
// category name and the resolved public image path, empty when unresolved.
type ProductRow struct {
	models.Product
	CategoryName string
	ImagePath    string
}

// ProductForm is the product form exactly as submitted, kept as strings so a
// rejected submission can be echoed back unchanged.
type ProductForm struct {
	Name        string `form:"name"`
	Price       string `form:"price"`
	Description string `form:"description"`
	Category    string `form:"category"`
}

type CategoryForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
}

type CredentialsForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Role     string `form:"role"`
}

// ProductRequest is the JSON body accepted by the product API. Fields left
// out of the body are nil, so an update only touches what was sent.
type ProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
}

type ProductResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Price       float64           `json:"price"`
	Image       string            `json:"image,omitempty"`
	Description string            `json:"description,omitempty"`
	Category    *CategoryResponse `json:"category"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
