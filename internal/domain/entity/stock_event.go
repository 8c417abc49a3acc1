package entity

import "time"

// StockEvent notificación emitida tras un cambio confirmado en los lotes de un producto.
// BatchesOmitted indica que BatchIDs no viaja en el evento y hay que releer los lotes.
type StockEvent struct {
	CompanyID      string    `json:"company_id"`
	ProductID      string    `json:"product_id"`
	BatchIDs       []string  `json:"batch_ids,omitempty"`
	BatchesOmitted bool      `json:"batches_omitted,omitempty"`
	Stock          int       `json:"stock"`
	Reason         string    `json:"reason"`
	At             time.Time `json:"at"`
}
