package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	domaininv "github.com/jhoicas/farmacia-pro/internal/domain/inventory"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
	"github.com/jhoicas/farmacia-pro/pkg/clock"
)

// ProductStockStatus es una fila de los reportes de stock bajo / agotados /
// por vencer para un producto.
type ProductStockStatus struct {
	ProductID    string `json:"product_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Available    int64  `json:"available"`
	ReorderLevel int64  `json:"reorder_level"`
	ExpiringSoon bool   `json:"expiring_soon,omitempty"`
}

// ExpiringBatchRow es una fila del reporte de lotes por vencer / vencidos.
type ExpiringBatchRow struct {
	ProductID      string `json:"product_id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	BatchID        string `json:"batch_id"`
	BatchNumber    string `json:"batch_number"`
	Remaining      int64  `json:"remaining"`
	ExpirationDate string `json:"expiration_date"`
}

// ReportUseCase calcula los reportes de lectura del inventario (stock bajo,
// agotados, por vencer, stock muerto, valorización). Solo lecturas; compone
// los agregados puros del dominio sobre snapshots por producto.
type ReportUseCase struct {
	prodRepo   repository.ProductRepository
	batchRepo  repository.BatchRepository
	pdf        PDFGenerator
	clk        clock.Clock
	expiryDays int
}

// NewReportUseCase construye el caso de uso de reportes. expiryDays es la
// ventana de "vence pronto" por defecto.
func NewReportUseCase(
	prodRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	pdf PDFGenerator,
	clk clock.Clock,
	expiryDays int,
) *ReportUseCase {
	if expiryDays <= 0 {
		expiryDays = 30
	}
	return &ReportUseCase{prodRepo: prodRepo, batchRepo: batchRepo, pdf: pdf, clk: clk, expiryDays: expiryDays}
}

// forEachProduct recorre el catálogo paginado aplicando fn con los lotes de
// cada producto.
func (uc *ReportUseCase) forEachProduct(fn func(p *entity.Product, batches []entity.Batch) error) error {
	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		products, err := uc.prodRepo.List(pageSize, offset)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		for _, p := range products {
			batches, err := uc.batchRepo.ListByProduct(p.ID)
			if err != nil {
				return err
			}
			if err := fn(p, batches); err != nil {
				return err
			}
		}
		if len(products) < pageSize {
			return nil
		}
	}
}

// LowStock devuelve los productos con disponible entre 1 y su punto de reorden.
func (uc *ReportUseCase) LowStock() ([]ProductStockStatus, error) {
	now := uc.clk.Now()
	out := make([]ProductStockStatus, 0)
	err := uc.forEachProduct(func(p *entity.Product, batches []entity.Batch) error {
		if domaininv.IsLowStock(p, batches, now) {
			out = append(out, ProductStockStatus{
				ProductID:    p.ID,
				Code:         p.Code,
				Name:         p.Name,
				Available:    domaininv.AvailableStock(batches, now),
				ReorderLevel: p.ReorderLevel,
				ExpiringSoon: domaininv.ExpiringSoon(batches, now, uc.expiryDays),
			})
		}
		return nil
	})
	return out, err
}

// OutOfStock devuelve los productos sin disponibilidad.
func (uc *ReportUseCase) OutOfStock() ([]ProductStockStatus, error) {
	now := uc.clk.Now()
	out := make([]ProductStockStatus, 0)
	err := uc.forEachProduct(func(p *entity.Product, batches []entity.Batch) error {
		if domaininv.IsOutOfStock(batches, now) {
			out = append(out, ProductStockStatus{
				ProductID:    p.ID,
				Code:         p.Code,
				Name:         p.Name,
				Available:    0,
				ReorderLevel: p.ReorderLevel,
			})
		}
		return nil
	})
	return out, err
}

// ExpiringSoon devuelve los lotes que vencen dentro de la ventana (days <= 0
// usa la ventana configurada), los más próximos primero.
func (uc *ReportUseCase) ExpiringSoon(days int) ([]ExpiringBatchRow, error) {
	if days <= 0 {
		days = uc.expiryDays
	}
	now := uc.clk.Now()
	out := make([]ExpiringBatchRow, 0)
	err := uc.forEachProduct(func(p *entity.Product, batches []entity.Batch) error {
		for _, b := range domaininv.BatchesExpiringSoon(batches, now, days) {
			out = append(out, ExpiringBatchRow{
				ProductID:      p.ID,
				Code:           p.Code,
				Name:           p.Name,
				BatchID:        b.ID,
				BatchNumber:    b.BatchNumber,
				Remaining:      b.QuantityRemaining,
				ExpirationDate: b.ExpirationDate.Format("2006-01-02"),
			})
		}
		return nil
	})
	return out, err
}

// DeadStock devuelve los lotes vencidos con restante (existencia física sin
// valor de venta, pendiente de baja).
func (uc *ReportUseCase) DeadStock() ([]ExpiringBatchRow, error) {
	now := uc.clk.Now()
	out := make([]ExpiringBatchRow, 0)
	err := uc.forEachProduct(func(p *entity.Product, batches []entity.Batch) error {
		for _, b := range domaininv.ExpiredBatches(batches, now) {
			out = append(out, ExpiringBatchRow{
				ProductID:      p.ID,
				Code:           p.Code,
				Name:           p.Name,
				BatchID:        b.ID,
				BatchNumber:    b.BatchNumber,
				Remaining:      b.QuantityRemaining,
				ExpirationDate: b.ExpirationDate.Format("2006-01-02"),
			})
		}
		return nil
	})
	return out, err
}

// Valuation valúa el inventario completo al costo (sin vencidos) y reporta
// aparte el valor del stock muerto.
func (uc *ReportUseCase) Valuation() (*ValuationReport, error) {
	now := uc.clk.Now()
	report := &ValuationReport{GeneratedAt: now, Lines: make([]ValuationLine, 0)}

	total := decimal.Zero
	dead := decimal.Zero
	err := uc.forEachProduct(func(p *entity.Product, batches []entity.Batch) error {
		value := domaininv.InventoryValue(batches, now)
		dead = dead.Add(domaininv.DeadStockValue(batches, now))
		if value.IsZero() && domaininv.AvailableStock(batches, now) == 0 {
			return nil
		}
		report.Lines = append(report.Lines, ValuationLine{
			ProductID: p.ID,
			Code:      p.Code,
			Name:      p.Name,
			Quantity:  domaininv.AvailableStock(batches, now),
			Value:     value.StringFixed(2),
		})
		total = total.Add(value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.TotalValue = total.StringFixed(2)
	report.DeadValue = dead.StringFixed(2)
	return report, nil
}

// ValuationPDF genera el PDF del reporte de valorización.
func (uc *ReportUseCase) ValuationPDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, domain.ErrInvalidInput
	}
	report, err := uc.Valuation()
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateValuationPDF(ctx, report)
}
