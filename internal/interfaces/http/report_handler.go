package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmacia-pro/internal/application/dto"
	appinv "github.com/jhoicas/farmacia-pro/internal/application/inventory"
)

// ReportHandler expone los reportes operativos de la farmacia (protegido).
type ReportHandler struct {
	reports *appinv.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *appinv.ReportUseCase) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// LowStock godoc
// @Summary      Productos en o por debajo de su umbral de reposición
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  inventory.ProductStockStatus
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.reports.LowStock()
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.JSON(out)
}

// OutOfStock godoc
// @Summary      Productos sin ninguna unidad asignable
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  inventory.ProductStockStatus
// @Router       /api/reports/out-of-stock [get]
func (h *ReportHandler) OutOfStock(c *fiber.Ctx) error {
	out, err := h.reports.OutOfStock()
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.JSON(out)
}

// ExpiringSoon godoc
// @Summary      Lotes con restante que vencen dentro de la ventana
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (default el configurado)"
// @Success      200   {array}  inventory.ExpiringBatchRow
// @Router       /api/reports/expiring [get]
func (h *ReportHandler) ExpiringSoon(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	out, err := h.reports.ExpiringSoon(days)
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.JSON(out)
}

// DeadStock godoc
// @Summary      Lotes vencidos con restante (stock muerto)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  inventory.ExpiringBatchRow
// @Router       /api/reports/dead-stock [get]
func (h *ReportHandler) DeadStock(c *fiber.Ctx) error {
	out, err := h.reports.DeadStock()
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.JSON(out)
}

// Valuation godoc
// @Summary      Valorización del inventario al costo por lote
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  inventory.ValuationReport
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.reports.Valuation()
	if err != nil {
		return respondInventoryError(c, err)
	}
	return c.JSON(out)
}

// ValuationPDF godoc
// @Summary      Valorización del inventario en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/valuation.pdf [get]
func (h *ReportHandler) ValuationPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.reports.ValuationPDF(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_GENERATION", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="valorizacion-inventario.pdf"`)
	return c.Send(pdfBytes)
}
