package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales. El total nunca se toma del cliente.
type CreateSaleRequest struct {
	Items   []SaleItemRequest `json:"items"`
	Cashier string            `json:"cashier,omitempty"`
}

// SaleItemRequest línea de venta: producto, cantidad y precio al momento de la venta.
type SaleItemRequest struct {
	Product  string           `json:"product"`
	Quantity int              `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

// SaleProductResponse producto resuelto de una línea (nombre y precio actuales).
type SaleProductResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	Product       string               `json:"product"`
	Quantity      int                  `json:"quantity"`
	Price         decimal.Decimal      `json:"price"`
	ProductDetail *SaleProductResponse `json:"productDetail,omitempty"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID        string             `json:"id"`
	Items     []SaleItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	Cashier   string             `json:"cashier,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

// CreateSaleResponse resultado de POST /api/sales: la venta y las alertas de stock bajo.
type CreateSaleResponse struct {
	Sale     SaleResponse              `json:"sale"`
	LowStock []LowStockProductResponse `json:"lowStock"`
}

// SaleListResponse página de ventas para GET /api/sales.
type SaleListResponse struct {
	Data []SaleResponse `json:"data"`
	Meta PageMeta       `json:"meta"`
}
