package sales

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
)

type MockCompensator struct {
	mock.Mock
}

func (m *MockCompensator) IncrementStock(ctx context.Context, id string, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*entity.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) List(ctx context.Context, limit, offset int) ([]*entity.Sale, int, error) {
	args := m.Called(ctx, limit, offset)
	if l := args.Get(0); l != nil {
		return l.([]*entity.Sale), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

// faultyProducts almacén en memoria con fallos inyectables.
type faultyProducts struct {
	*memory.ProductRepo

	mu              sync.Mutex
	failDecrementOn string
	failIncrement   error
	failLowStock    error
	increments      map[string]int
}

func newFaultyProducts(repo *memory.ProductRepo) *faultyProducts {
	return &faultyProducts{ProductRepo: repo, increments: make(map[string]int)}
}

func (f *faultyProducts) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	if id == f.failDecrementOn {
		return false, errStoreDown
	}
	return f.ProductRepo.DecrementStock(ctx, id, qty)
}

func (f *faultyProducts) IncrementStock(ctx context.Context, id string, qty int) error {
	f.mu.Lock()
	f.increments[id] += qty
	f.mu.Unlock()
	if f.failIncrement != nil {
		return f.failIncrement
	}
	return f.ProductRepo.IncrementStock(ctx, id, qty)
}

func (f *faultyProducts) ListLowStock(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if f.failLowStock != nil {
		return nil, f.failLowStock
	}
	return f.ProductRepo.ListLowStock(ctx, ids)
}
