package inventory

import (
	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
)

// ReconcileReport resultado de conciliar un producto: el total cacheado debe
// igualar la suma de restantes por lote y la suma de deltas del libro de
// movimientos. Cualquier desviación indica una falla a nivel de almacenamiento,
// nunca un estado intermedio legítimo.
type ReconcileReport struct {
	ProductID      string `json:"product_id"`
	Code           string `json:"code"`
	CachedQuantity int64  `json:"cached_quantity"`
	BatchTotal     int64  `json:"batch_total"`
	MovementTotal  int64  `json:"movement_total"`
	Consistent     bool   `json:"consistent"`
}

// ReconcileUseCase verifica la invariante de conciliación. Solo lee: detectar
// y corregir son operaciones separadas a propósito.
type ReconcileUseCase struct {
	prodRepo  repository.ProductRepository
	batchRepo repository.BatchRepository
	movRepo   repository.StockMovementRepository
}

// NewReconcileUseCase construye el caso de uso de conciliación.
func NewReconcileUseCase(
	prodRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.StockMovementRepository,
) *ReconcileUseCase {
	return &ReconcileUseCase{prodRepo: prodRepo, batchRepo: batchRepo, movRepo: movRepo}
}

// ReconcileProduct concilia un producto.
func (uc *ReconcileUseCase) ReconcileProduct(productID string) (*ReconcileReport, error) {
	product, err := uc.prodRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	batches, err := uc.batchRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	var batchTotal int64
	for _, b := range batches {
		batchTotal += b.QuantityRemaining
	}

	movTotal, err := uc.movRepo.SumDeltasByProduct(productID)
	if err != nil {
		return nil, err
	}

	return &ReconcileReport{
		ProductID:      product.ID,
		Code:           product.Code,
		CachedQuantity: product.StockQuantity,
		BatchTotal:     batchTotal,
		MovementTotal:  movTotal,
		Consistent:     product.StockQuantity == batchTotal && batchTotal == movTotal,
	}, nil
}

// ReconcileAll concilia el catálogo completo y devuelve solo los productos con
// desviación; un resultado vacío significa que el libro cuadra.
func (uc *ReconcileUseCase) ReconcileAll() ([]*ReconcileReport, error) {
	drifted := make([]*ReconcileReport, 0)
	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		products, err := uc.prodRepo.List(pageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(products) == 0 {
			return drifted, nil
		}
		for _, p := range products {
			report, err := uc.ReconcileProduct(p.ID)
			if err != nil {
				return nil, err
			}
			if !report.Consistent {
				drifted = append(drifted, report)
			}
		}
		if len(products) < pageSize {
			return drifted, nil
		}
	}
}
