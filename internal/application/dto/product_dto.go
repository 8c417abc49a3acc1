package dto

import "time"

// CreateProductRequest body para crear un producto. El stock inicia en 0 y solo cambia vía lotes.
type CreateProductRequest struct {
	SKU  string `json:"sku" validate:"required,max=64"`
	Name string `json:"name" validate:"required,max=200"`
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
