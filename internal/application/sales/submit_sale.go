package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

const tracerName = "github.com/jhoicas/ventas-api/internal/application/sales"

// SubmitSaleUseCase registra una venta descontando stock línea por línea.
// No hay transacción multi-documento: cada descuento es atómico en el almacén y,
// si una línea falla, se revierten con incrementos los descuentos ya aplicados.
type SubmitSaleUseCase struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	log      *logger.Logger
	tracer   trace.Tracer
}

// NewSubmitSaleUseCase construye el caso de uso.
func NewSubmitSaleUseCase(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	log *logger.Logger,
) *SubmitSaleUseCase {
	return &SubmitSaleUseCase{
		products: products,
		sales:    sales,
		log:      log.Named("sales"),
		tracer:   otel.Tracer(tracerName),
	}
}

// SubmitSale valida las líneas, calcula el total, descuenta stock de forma atómica por línea
// y persiste la venta. Ante cualquier fallo revierte los descuentos aplicados y devuelve
// el *domain.SaleError original.
func (uc *SubmitSaleUseCase) SubmitSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.CreateSaleResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "sales.SubmitSale",
		trace.WithAttributes(attribute.Int("sale.items", len(in.Items))))
	defer span.End()

	items, err := validateItems(in.Items)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sale := &entity.Sale{
		Items:   items,
		Total:   entity.ComputeTotal(items),
		Cashier: strings.TrimSpace(in.Cashier),
	}

	saga := newStockSaga(uc.products, uc.log)
	defer func() {
		// Un panic a mitad de la venta no debe dejar stock descontado.
		if r := recover(); r != nil {
			saga.compensate(ctx)
			panic(r)
		}
	}()

	if err := uc.commit(ctx, saga, sale); err != nil {
		failed := saga.compensate(ctx)
		uc.logFailure(err, len(saga.applied()), failed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("total", sale.Total.String()).
		Int("items", len(sale.Items)).
		Msg("venta registrada")

	return &dto.CreateSaleResponse{
		Sale:     ToSaleResponse(sale),
		LowStock: uc.lowStockAfterSale(ctx, sale.Items),
	}, nil
}

// commit aplica los descuentos en orden y persiste la venta (punto de confirmación).
func (uc *SubmitSaleUseCase) commit(ctx context.Context, saga *stockSaga, sale *entity.Sale) error {
	for _, item := range sale.Items {
		if err := validateItem(item); err != nil {
			return err
		}
		ok, err := uc.decrement(ctx, item)
		if err != nil {
			return domain.NewInfrastructureError("error al descontar stock", err)
		}
		if !ok {
			return domain.NewInsufficientStockError(item.ProductID)
		}
		saga.record(item.ProductID, item.Quantity)
	}

	if err := uc.sales.Create(ctx, sale); err != nil {
		return domain.NewInfrastructureError("error al guardar la venta", err)
	}
	return nil
}

func (uc *SubmitSaleUseCase) decrement(ctx context.Context, item entity.SaleItem) (bool, error) {
	ctx, span := uc.tracer.Start(ctx, "sales.DecrementStock", trace.WithAttributes(
		attribute.String("product.id", item.ProductID),
		attribute.Int("quantity", item.Quantity),
	))
	defer span.End()

	ok, err := uc.products.DecrementStock(ctx, item.ProductID, item.Quantity)
	if err != nil {
		span.RecordError(err)
	}
	span.SetAttributes(attribute.Bool("applied", ok))
	return ok, err
}

// lowStockAfterSale consulta el stock bajo de los productos vendidos. La venta ya está
// confirmada: un error aquí se registra y se responde sin alertas.
func (uc *SubmitSaleUseCase) lowStockAfterSale(ctx context.Context, items []entity.SaleItem) []dto.LowStockProductResponse {
	ids := uniqueProductIDs(items)
	list, err := uc.products.ListLowStock(ctx, ids)
	if err != nil {
		uc.log.Error().Err(err).Strs("product_ids", ids).Msg("consulta de stock bajo tras la venta")
		return []dto.LowStockProductResponse{}
	}
	return usecase.ToLowStockResponse(list)
}

func (uc *SubmitSaleUseCase) logFailure(err error, applied, failedCompensations int) {
	ev := uc.log.Warn()
	if se, ok := err.(*domain.SaleError); ok && se.Kind == domain.KindInfrastructure {
		ev = uc.log.Error()
	}
	ev.Err(err).
		Int("rolled_back", applied-failedCompensations).
		Int("rollback_failed", failedCompensations).
		Msg("venta rechazada")
}

// validateItems comprueba las precondiciones antes de tocar el almacén.
func validateItems(in []dto.SaleItemRequest) ([]entity.SaleItem, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("items es requerido y debe ser un arreglo no vacío")
	}
	items := make([]entity.SaleItem, 0, len(in))
	for i, it := range in {
		if it.Price == nil {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d]: price es requerido", i))
		}
		item := entity.SaleItem{
			ProductID: strings.TrimSpace(it.Product),
			Quantity:  it.Quantity,
			Price:     *it.Price,
		}
		if err := validateItem(item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func validateItem(item entity.SaleItem) error {
	if item.ProductID == "" || item.Quantity <= 0 {
		return domain.NewValidationError("cada item necesita product y quantity > 0")
	}
	if item.Price.LessThan(decimal.Zero) {
		return domain.NewValidationError("price no puede ser negativo")
	}
	return nil
}

func uniqueProductIDs(items []entity.SaleItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}
