package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Stock y AlertLevel son opcionales (por defecto 0 y 5).
type CreateProductRequest struct {
	Name       string           `json:"name"`
	Stock      *int             `json:"stock"`
	Price      *decimal.Decimal `json:"price"`
	AlertLevel *int             `json:"alertLevel"`
}

// UpdateProductRequest entrada para actualizar un producto (campos parciales).
type UpdateProductRequest struct {
	Name       *string          `json:"name"`
	Stock      *int             `json:"stock"`
	Price      *decimal.Decimal `json:"price"`
	AlertLevel *int             `json:"alertLevel"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Stock      int             `json:"stock"`
	Price      decimal.Decimal `json:"price"`
	AlertLevel int             `json:"alertLevel"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// LowStockProductResponse producto por debajo de su nivel de alerta.
type LowStockProductResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Stock      int    `json:"stock"`
	AlertLevel int    `json:"alertLevel"`
}
