package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// SaleHandler registro y consulta de ventas.
type SaleHandler struct {
	submit *sales.SubmitSaleUseCase
	query  *sales.QueryUseCase
	log    *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(submit *sales.SubmitSaleUseCase, query *sales.QueryUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{submit: submit, query: query, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock por línea; si alguna línea falla se revierten los descuentos aplicados.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas de la venta"
// @Success      201   {object}  dto.CreateSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.submit.SubmitSale(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        page   query  int  false  "Página"  default(1)
// @Param        limit  query  int  false  "Límite"  default(20)
// @Success      200    {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Page:  c.QueryInt("page", dto.DefaultPage),
		Limit: c.QueryInt("limit", dto.DefaultLimit),
	}
	out, err := h.query.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
