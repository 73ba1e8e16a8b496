package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// DecrementStock es la única operación crítica para la venta: debe ser atómica
// frente a llamadas concurrentes (verificar y descontar en un solo paso).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	// Update aplica solo los campos presentes en patch y devuelve el producto resultante.
	// Update y Delete devuelven domain.ErrNotFound si el producto no existe.
	Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id string) error

	// DecrementStock descuenta qty solo si stock >= qty. false, nil si no hubo coincidencia
	// (producto inexistente o stock insuficiente).
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
	// IncrementStock suma qty sin condición (compensación de una venta fallida).
	IncrementStock(ctx context.Context, id string, qty int) error
	// ListLowStock devuelve los productos con stock < alert_level; ids vacío = todos.
	ListLowStock(ctx context.Context, ids []string) ([]*entity.Product, error)
}
