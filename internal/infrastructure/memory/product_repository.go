package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

// NewProductRepository construye el adaptador sobre el almacén compartido.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Update mezcla los campos presentes bajo el lock, sobre el registro actual.
func (r *ProductRepo) Update(_ context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.AlertLevel != nil {
		p.AlertLevel = *patch.AlertLevel
	}
	p.UpdatedAt = patch.UpdatedAt
	r.s.products[id] = p
	return &p, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// DecrementStock verifica y descuenta bajo el mismo lock.
func (r *ProductRepo) DecrementStock(_ context.Context, id string, qty int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now().UTC()
	r.s.products[id] = p
	return true, nil
}

func (r *ProductRepo) IncrementStock(_ context.Context, id string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock += qty
	p.UpdatedAt = time.Now().UTC()
	r.s.products[id] = p
	return nil
}

func (r *ProductRepo) ListLowStock(_ context.Context, ids []string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var filter map[string]struct{}
	if len(ids) > 0 {
		filter = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			filter[id] = struct{}{}
		}
	}
	list := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if filter != nil {
			if _, ok := filter[p.ID]; !ok {
				continue
			}
		}
		if p.IsLowStock() {
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
