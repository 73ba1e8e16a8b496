package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/ventas-api/internal/interfaces/http"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma la API completa sobre el almacén en memoria.
func buildTestApp() *fiber.App {
	store := memory.New()
	products := memory.NewProductRepository(store)
	salesRepo := memory.NewSaleRepository(store)
	log := logger.Nop()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:  usecase.NewProductUseCase(products),
		SubmitSale: sales.NewSubmitSaleUseCase(products, salesRepo, log),
		SaleQuery:  sales.NewQueryUseCase(salesRepo),
		Log:        log,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createProduct(t *testing.T, app *fiber.App, name string, stock, alert int, price string) dto.ProductResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/products", map[string]any{
		"name": name, "stock": stock, "alertLevel": alert, "price": price,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CRUD(t *testing.T) {
	app := buildTestApp()
	p := createProduct(t, app, "Café", 10, 5, "4.50")
	assert.NotEmpty(t, p.ID)

	resp := doJSON(t, app, http.MethodGet, "/api/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Café", got.Name)

	resp = doJSON(t, app, http.MethodPut, "/api/products/"+p.ID, map[string]any{"name": "Café molido", "stock": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Café molido", updated.Name)
	assert.Equal(t, 2, updated.Stock)
	assert.True(t, decimal.RequireFromString("4.5").Equal(updated.Price))

	resp = doJSON(t, app, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ProductResponse](t, resp), 1)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "producto eliminado", decode[dto.MessageResponse](t, resp).Message)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/products/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPut, "/api/products/"+p.ID, map[string]any{"stock": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_Create_Validacion(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/products", map[string]any{"name": "", "price": "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodPost, "/api/products", map[string]any{"name": "x", "price": "1", "stock": -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_LowStock(t *testing.T) {
	app := buildTestApp()
	createProduct(t, app, "A", 4, 5, "1")
	createProduct(t, app, "B", 5, 5, "1")

	resp := doJSON(t, app, http.MethodGet, "/api/products/low-stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.LowStockProductResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, 4, list[0].Stock)
	assert.Equal(t, 5, list[0].AlertLevel)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_Create_ConAlertaDeStockBajo(t *testing.T) {
	app := buildTestApp()
	p := createProduct(t, app, "Café", 10, 5, "10")

	resp := doJSON(t, app, http.MethodPost, "/api/sales", map[string]any{
		"items":   []map[string]any{{"product": p.ID, "quantity": 6, "price": "10"}},
		"cashier": "ana",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.CreateSaleResponse](t, resp)
	assert.True(t, decimal.NewFromInt(60).Equal(out.Sale.Total))
	assert.Equal(t, "ana", out.Sale.Cashier)
	require.Len(t, out.LowStock, 1)
	assert.Equal(t, 4, out.LowStock[0].Stock)

	resp = doJSON(t, app, http.MethodGet, "/api/sales/"+out.Sale.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sale := decode[dto.SaleResponse](t, resp)
	require.Len(t, sale.Items, 1)
	require.NotNil(t, sale.Items[0].ProductDetail)
	assert.Equal(t, "Café", sale.Items[0].ProductDetail.Name)
}

func TestSales_Create_StockInsuficiente(t *testing.T) {
	app := buildTestApp()
	a := createProduct(t, app, "A", 5, 1, "1")
	b := createProduct(t, app, "B", 1, 1, "1")

	resp := doJSON(t, app, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{
			{"product": a.ID, "quantity": 2, "price": "1"},
			{"product": b.ID, "quantity": 3, "price": "1"},
		},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, b.ID, body.ProductID)

	// el descuento de A fue revertido
	resp = doJSON(t, app, http.MethodGet, "/api/products/"+a.ID, nil)
	assert.Equal(t, 5, decode[dto.ProductResponse](t, resp).Stock)
}

func TestSales_Create_ItemsVacios(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/sales", map[string]any{"items": []any{}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewBufferString("{no json"))
	req.Header.Set("Content-Type", "application/json")
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestSales_ListPaginado(t *testing.T) {
	app := buildTestApp()
	p := createProduct(t, app, "A", 100, 1, "2")
	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, http.MethodPost, "/api/sales", map[string]any{
			"items": []map[string]any{{"product": p.ID, "quantity": i + 1, "price": "2"}},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/sales?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.SaleListResponse](t, resp)
	assert.Equal(t, 3, page.Meta.Total)
	assert.Equal(t, 1, page.Meta.Page)
	assert.Equal(t, 2, page.Meta.Limit)
	require.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Data[0].Items[0].Quantity, "más reciente primero")

	resp = doJSON(t, app, http.MethodGet, "/api/sales?limit=500", nil)
	page = decode[dto.SaleListResponse](t, resp)
	assert.Equal(t, 100, page.Meta.Limit)

	resp = doJSON(t, app, http.MethodGet, "/api/sales/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
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

func TestSales_Create_FalloDeInfraestructura(t *testing.T) {
	products := memory.NewProductRepository(memory.New())
	salesRepo := new(MockSaleRepository)
	salesRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Sale")).
		Return(errors.New("conexión rechazada")).Once()
	log := logger.Nop()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:  usecase.NewProductUseCase(products),
		SubmitSale: sales.NewSubmitSaleUseCase(products, salesRepo, log),
		SaleQuery:  sales.NewQueryUseCase(salesRepo),
		Log:        log,
	})
	p := createProduct(t, app, "Café", 10, 5, "10")

	resp := doJSON(t, app, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{{"product": p.ID, "quantity": 4, "price": "10"}},
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, "error al guardar la venta", body.Message)
	assert.Equal(t, "conexión rechazada", body.Detail)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+p.ID, nil)
	assert.Equal(t, 10, decode[dto.ProductResponse](t, resp).Stock, "el stock descontado se devuelve")
	salesRepo.AssertExpectations(t)
}
