package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y consulta de stock bajo.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Stock por defecto 0 y AlertLevel por defecto 5.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if in.Price == nil {
		return nil, fmt.Errorf("%w: price es requerido", domain.ErrInvalidInput)
	}
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	alertLevel := entity.DefaultAlertLevel
	if in.AlertLevel != nil {
		alertLevel = *in.AlertLevel
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:         uuid.New().String(),
		Name:       name,
		Stock:      stock,
		Price:      *in.Price,
		AlertLevel: alertLevel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. nil, nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update aplica los campos presentes en la entrada. domain.ErrNotFound si el producto no existe.
// No lee el producto antes de escribir: un descuento de stock concurrente no se pierde.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	patch := entity.ProductPatch{
		Stock:      in.Stock,
		Price:      in.Price,
		AlertLevel: in.AlertLevel,
		UpdatedAt:  time.Now().UTC(),
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	product, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista todos los productos.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// LowStock devuelve los productos con stock < alertLevel, evaluado al momento de la consulta.
// Sin ids revisa todo el catálogo.
func (uc *ProductUseCase) LowStock(ctx context.Context, ids ...string) ([]dto.LowStockProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ToLowStockResponse(list), nil
}

// ToLowStockResponse proyecta productos a la forma {id, name, stock, alertLevel}.
func ToLowStockResponse(list []*entity.Product) []dto.LowStockProductResponse {
	out := make([]dto.LowStockProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.LowStockProductResponse{
			ID:         p.ID,
			Name:       p.Name,
			Stock:      p.Stock,
			AlertLevel: p.AlertLevel,
		})
	}
	return out
}

func validateProduct(p *entity.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	case p.Price.LessThan(decimal.Zero):
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	case p.AlertLevel < 0:
		return fmt.Errorf("%w: alertLevel no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

func validatePatch(p entity.ProductPatch) error {
	switch {
	case p.Name != nil && *p.Name == "":
		return fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	case p.Stock != nil && *p.Stock < 0:
		return fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	case p.Price != nil && p.Price.LessThan(decimal.Zero):
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	case p.AlertLevel != nil && *p.AlertLevel < 0:
		return fmt.Errorf("%w: alertLevel no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Stock:      p.Stock,
		Price:      p.Price,
		AlertLevel: p.AlertLevel,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
