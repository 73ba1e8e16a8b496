package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación en memoria de SaleRepository.
type SaleRepo struct {
	s *Store
}

// NewSaleRepository construye el adaptador sobre el almacén compartido.
func NewSaleRepository(s *Store) *SaleRepo {
	return &SaleRepo{s: s}
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sales = append(r.s.sales, cloneSale(*sale))
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, s := range r.s.sales {
		if s.ID == id {
			out := r.populate(s)
			return &out, nil
		}
	}
	return nil, nil
}

// List recorre las ventas desde la más reciente (orden de inserción inverso).
func (r *SaleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := len(r.s.sales)
	list := make([]*entity.Sale, 0, limit)
	for i := total - 1 - offset; i >= 0 && len(list) < limit; i-- {
		out := r.populate(r.s.sales[i])
		list = append(list, &out)
	}
	return list, total, nil
}

// populate resuelve nombre y precio actual de cada producto. Llamar con el lock tomado.
func (r *SaleRepo) populate(s entity.Sale) entity.Sale {
	out := cloneSale(s)
	for i := range out.Items {
		if p, ok := r.s.products[out.Items[i].ProductID]; ok {
			out.Items[i].Product = &entity.ProductRef{ID: p.ID, Name: p.Name, Price: p.Price}
		}
	}
	return out
}
