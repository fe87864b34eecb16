package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-pro/internal/application/dto"
	appinv "github.com/jhoicas/farmacia-pro/internal/application/inventory"
)

// StockHandler maneja las salidas de stock vía el asignador FIFO (protegido).
type StockHandler struct {
	allocator *appinv.AllocatorUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(allocator *appinv.AllocatorUseCase) *StockHandler {
	return &StockHandler{allocator: allocator}
}

// Reduce godoc
// @Summary      Reducir stock (venta o baja sin lote destino)
// @Description  Asigna la cantidad sobre los lotes disponibles en orden FIFO por vencimiento, del todo o nada. Devuelve el plan ejecutado con el costo real por lote.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.ReduceStockRequest  true  "Cantidad, motivo y referencia"
// @Success      200   {object}  dto.ReduceStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock/reduce [post]
func (h *StockHandler) Reduce(c *fiber.Ctx) error {
	productID := c.Params("id")
	var in dto.ReduceStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	consumed, err := h.allocator.ReduceStock(c.Context(), GetUserID(c), appinv.ReduceStockInput{
		ProductID:     productID,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Notes:         in.Notes,
	})
	if err != nil {
		return respondInventoryError(c, err)
	}

	out := dto.ReduceStockResponse{
		Consumed:  make([]dto.ConsumedBatchResponse, 0, len(consumed)),
		TotalCost: decimal.Zero,
	}
	for _, cb := range consumed {
		lineCost := cb.TotalCost()
		out.Consumed = append(out.Consumed, dto.ConsumedBatchResponse{
			BatchID:     cb.BatchID,
			BatchNumber: cb.BatchNumber,
			Quantity:    cb.Quantity,
			UnitCost:    cb.UnitCost,
			TotalCost:   lineCost,
		})
		out.TotalCost = out.TotalCost.Add(lineCost)
	}
	return c.JSON(out)
}

// CanFulfill godoc
// @Summary      Consultar si la disponibilidad cubre una cantidad
// @Description  Lectura sobre un snapshot: no reserva stock.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true  "ID del producto"
// @Param        quantity  query  int     true  "Cantidad solicitada"
// @Success      200       {object}  dto.CanFulfillResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock/can-fulfill [get]
func (h *StockHandler) CanFulfill(c *fiber.Ctx) error {
	productID := c.Params("id")
	quantity := int64(c.QueryInt("quantity", 0))
	if quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser positivo"})
	}
	ok, err := h.allocator.CanFulfill(productID, quantity)
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.JSON(dto.CanFulfillResponse{ProductID: productID, Quantity: quantity, Fulfillable: ok})
}
