package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-pro/internal/application/dto"
	appinv "github.com/jhoicas/farmacia-pro/internal/application/inventory"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
)

// MovementHandler maneja la lectura del libro de movimientos y los ajustes
// manuales con lote destino (protegido).
type MovementHandler struct {
	movements *appinv.MovementUseCase
	reconcile *appinv.ReconcileUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(movements *appinv.MovementUseCase, reconcile *appinv.ReconcileUseCase) *MovementHandler {
	return &MovementHandler{movements: movements, reconcile: reconcile}
}

// List godoc
// @Summary      Historial de movimientos de un producto
// @Description  Más reciente primero, con filtro opcional de fechas (RFC 3339).
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (RFC 3339)"
// @Param        to      query  string  false  "Hasta (RFC 3339)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	productID := c.Params("id")
	limit, offset := pageParams(c)

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC 3339"})
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC 3339"})
		}
		to = &t
	}

	movements, err := h.movements.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return respondInventoryError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// AdjustBatch godoc
// @Summary      Ajuste manual sobre un lote
// @Description  Quantity es el delta con signo: negativo da de baja (rotura, robo, decomiso), positivo reincorpora sin superar lo recibido.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string  true  "ID del producto"
// @Param        batchId  path  string  true  "ID del lote"
// @Param        body     body  dto.AdjustBatchRequest  true  "Delta y motivo"
// @Success      201      {object}  dto.MovementResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches/{batchId}/adjust [post]
func (h *MovementHandler) AdjustBatch(c *fiber.Ctx) error {
	productID := c.Params("id")
	batchID := c.Params("batchId")
	var in dto.AdjustBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, err := h.movements.AdjustBatch(c.Context(), GetUserID(c), appinv.AdjustBatchInput{
		ProductID:   productID,
		BatchID:     batchID,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
	})
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement))
}

// ReconcileProduct godoc
// @Summary      Conciliar un producto
// @Description  Compara total cacheado, suma de restantes por lote y suma de deltas del libro.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  inventory.ReconcileReport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reconcile [get]
func (h *MovementHandler) ReconcileProduct(c *fiber.Ctx) error {
	report, err := h.reconcile.ReconcileProduct(c.Params("id"))
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.JSON(report)
}

// ReconcileAll godoc
// @Summary      Conciliar todo el inventario
// @Description  Devuelve solo los productos con deriva; lista vacía significa libro cuadrado.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  inventory.ReconcileReport
// @Router       /api/inventory/reconcile [get]
func (h *MovementHandler) ReconcileAll(c *fiber.Ctx) error {
	reports, err := h.reconcile.ReconcileAll()
	if err != nil {
		return respondInventoryError(c, err)
	}
	if reports == nil {
		reports = []*appinv.ReconcileReport{}
	}
	return c.JSON(reports)
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		BatchID:       m.BatchID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}
