package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAlertLevel umbral de stock bajo cuando el producto no define uno.
const DefaultAlertLevel = 5

// Product representa un producto del punto de venta.
// Stock se descuenta de forma atómica al registrar ventas; nunca queda negativo.
type Product struct {
	ID         string
	Name       string
	Stock      int
	Price      decimal.Decimal // precio de lista
	AlertLevel int             // stock < AlertLevel => stock bajo
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsLowStock indica si el stock actual está por debajo del umbral de alerta.
func (p *Product) IsLowStock() bool {
	return p.Stock < p.AlertLevel
}

// ProductPatch cambios parciales de un producto. Solo los campos no nil se escriben;
// el stock de una actualización nunca sale de una lectura previa.
type ProductPatch struct {
	Name       *string
	Stock      *int
	Price      *decimal.Decimal
	AlertLevel *int
	UpdatedAt  time.Time
}
