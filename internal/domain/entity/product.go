package entity

import "time"

// Product representa un producto del catálogo. Stock es el contador agregado y debe ser igual
// a la suma de RemainingQuantity de sus lotes; solo se modifica vía ajustes de lote o reposición.
type Product struct {
	ID        string
	CompanyID string
	SKU       string // código único por empresa
	Name      string
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
