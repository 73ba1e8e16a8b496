package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	SubmitSale *sales.SubmitSaleUseCase
	SaleQuery  *sales.QueryUseCase
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Get("/", productHandler.List)
	// Antes de /:id para que "low-stock" no se tome como id.
	products.Get("/low-stock", productHandler.LowStock)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SubmitSale, deps.SaleQuery, deps.Log)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
}
