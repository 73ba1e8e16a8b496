package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRef datos del producto resueltos al leer una venta (nombre y precio actuales).
type ProductRef struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// SaleItem línea de una venta. Price es el precio al momento de la venta, no el de lista.
type SaleItem struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Product   *ProductRef // nil si no se resolvió o el producto fue eliminado
}

// Subtotal devuelve Price × Quantity.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Sale venta registrada. Inmutable una vez persistida.
type Sale struct {
	ID        string
	Items     []SaleItem
	Total     decimal.Decimal
	Cashier   string
	CreatedAt time.Time
}

// ComputeTotal suma los subtotales de las líneas.
func ComputeTotal(items []SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
