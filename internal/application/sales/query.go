package sales

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// QueryUseCase lectura de ventas registradas.
type QueryUseCase struct {
	repo repository.SaleRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.SaleRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

// GetByID obtiene una venta con los productos de sus líneas resueltos. domain.ErrNotFound si no existe.
func (uc *QueryUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	out := ToSaleResponse(sale)
	return &out, nil
}

// List devuelve una página de ventas, más recientes primero.
func (uc *QueryUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.Normalize()
	list, total, err := uc.repo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		data = append(data, ToSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Data: data,
		Meta: dto.PageMeta{Total: total, Page: page.Page, Limit: page.Limit},
	}, nil
}

// ToSaleResponse proyecta una venta a su forma HTTP.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		item := dto.SaleItemResponse{
			Product:  it.ProductID,
			Quantity: it.Quantity,
			Price:    it.Price,
		}
		if it.Product != nil {
			item.ProductDetail = &dto.SaleProductResponse{
				ID:    it.Product.ID,
				Name:  it.Product.Name,
				Price: it.Product.Price,
			}
		}
		items = append(items, item)
	}
	return dto.SaleResponse{
		ID:        s.ID,
		Items:     items,
		Total:     s.Total,
		Cashier:   s.Cashier,
		CreatedAt: s.CreatedAt,
	}
}
