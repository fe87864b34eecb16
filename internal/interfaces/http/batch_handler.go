package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-pro/internal/application/dto"
	appinv "github.com/jhoicas/farmacia-pro/internal/application/inventory"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	"github.com/jhoicas/farmacia-pro/pkg/clock"
)

// BatchHandler maneja el libro de lotes de un producto (protegido).
type BatchHandler struct {
	ledger *appinv.LedgerUseCase
	clk    clock.Clock
}

// NewBatchHandler construye el handler.
func NewBatchHandler(ledger *appinv.LedgerUseCase, clk clock.Clock) *BatchHandler {
	return &BatchHandler{ledger: ledger, clk: clk}
}

// Create godoc
// @Summary      Registrar un lote recibido
// @Description  Crea el lote, recalcula el stock del producto y escribe el movimiento purchase, todo atómico.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.AddBatchRequest  true  "Datos del lote"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	productID := c.Params("id")
	var in dto.AddBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := appinv.AddBatchInput{
		ProductID:        productID,
		BatchNumber:      in.BatchNumber,
		ExpirationDate:   in.ExpirationDate,
		QuantityReceived: in.QuantityReceived,
		UnitCost:         in.UnitCost,
		SalePrice:        in.SalePrice,
		SupplierID:       in.SupplierID,
		Notes:            in.Notes,
	}
	if in.ReceivedDate != nil {
		input.ReceivedDate = *in.ReceivedDate
	}
	batch, err := h.ledger.AddBatch(c.Context(), GetUserID(c), input)
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.toBatchResponse(batch))
}

// List godoc
// @Summary      Listar lotes de un producto
// @Description  status=available (default) lista lotes asignables en orden FIFO; status=expired, los vencidos con restante.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        status  query  string  false  "available | expired"
// @Success      200     {array}   dto.BatchResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	productID := c.Params("id")
	var (
		batches []entity.Batch
		err     error
	)
	switch c.Query("status", "available") {
	case "available":
		batches, err = h.ledger.AvailableBatches(productID)
	case "expired":
		batches, err = h.ledger.ExpiredBatches(productID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser available o expired"})
	}
	if err != nil {
		return respondInventoryError(c, err)
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		out = append(out, h.toBatchResponse(&batches[i]))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Corregir un lote (campos no cuantitativos)
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string  true  "ID del producto"
// @Param        batchId  path  string  true  "ID del lote"
// @Param        body     body  dto.UpdateBatchRequest  true  "Campos a corregir"
// @Success      200      {object}  dto.BatchResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches/{batchId} [patch]
func (h *BatchHandler) Update(c *fiber.Ctx) error {
	productID := c.Params("id")
	batchID := c.Params("batchId")
	var in dto.UpdateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	batch, err := h.ledger.UpdateBatch(c.Context(), productID, batchID, appinv.UpdateBatchInput{
		ExpirationDate: in.ExpirationDate,
		UnitCost:       in.UnitCost,
		SalePrice:      in.SalePrice,
		SupplierID:     in.SupplierID,
		Notes:          in.Notes,
	})
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.JSON(h.toBatchResponse(batch))
}

// Price godoc
// @Summary      Precio de venta vigente de un producto
// @Description  El precio del lote que vence primero; sin disponibilidad, el último precio conocido.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.PriceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/price [get]
func (h *BatchHandler) Price(c *fiber.Ctx) error {
	productID := c.Params("id")
	price, err := h.ledger.CurrentPrice(productID)
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.JSON(dto.PriceResponse{ProductID: productID, Price: price})
}

func (h *BatchHandler) toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		BatchNumber:       b.BatchNumber,
		ExpirationDate:    b.ExpirationDate,
		ReceivedDate:      b.ReceivedDate,
		QuantityReceived:  b.QuantityReceived,
		QuantityRemaining: b.QuantityRemaining,
		UnitCost:          b.UnitCost,
		SalePrice:         b.SalePrice,
		SupplierID:        b.SupplierID,
		Notes:             b.Notes,
		Expired:           b.IsExpired(h.clk.Now()),
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
