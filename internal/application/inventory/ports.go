package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de inventario: decrementos
// de lotes, total cacheado y movimientos se confirman juntos o no se confirma nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// ValuationLine es una línea del reporte de valorización por producto.
type ValuationLine struct {
	ProductID string
	Code      string
	Name      string
	Quantity  int64
	Value     string // decimal formateado
}

// ValuationReport agrupa la valorización del inventario completo.
type ValuationReport struct {
	GeneratedAt time.Time
	Lines       []ValuationLine
	TotalValue  string
	DeadValue   string // valor del stock muerto (vencido con restante)
}

// PDFGenerator genera la representación PDF del reporte de valorización.
type PDFGenerator interface {
	GenerateValuationPDF(ctx context.Context, report *ValuationReport) ([]byte, error)
}
