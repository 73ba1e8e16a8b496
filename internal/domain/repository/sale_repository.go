package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas (solo inserción y lectura).
type SaleRepository interface {
	// Create asigna ID y CreatedAt si vienen vacíos.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve nil, nil si no existe. Las líneas traen Product resuelto.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// List devuelve una página ordenada por created_at descendente y el total de ventas.
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, int, error)
}
