package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	domaininv "github.com/jhoicas/farmacia-pro/internal/domain/inventory"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
	"github.com/jhoicas/farmacia-pro/pkg/clock"
)

// LedgerUseCase es el libro de lotes de un producto: altas de lote
// (reposición), correcciones de campos no cuantitativos y consultas de
// disponibilidad, vencidos y precio vigente. Toda alta escribe además un
// movimiento `purchase` y refresca el total cacheado en la misma transacción.
type LedgerUseCase struct {
	txRunner  TxRunner
	batchRepo repository.BatchRepository
	prodRepo  repository.ProductRepository
	clk       clock.Clock
}

// NewLedgerUseCase construye el caso de uso del libro de lotes.
func NewLedgerUseCase(
	txRunner TxRunner,
	prodRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	clk clock.Clock,
) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, prodRepo: prodRepo, batchRepo: batchRepo, clk: clk}
}

// AddBatchInput entrada para registrar un lote recibido.
// BatchNumber vacío → se deriva <CODIGO>-<AAAAMM>-<NNN>.
// ReceivedDate cero → fecha actual.
type AddBatchInput struct {
	ProductID        string
	BatchNumber      string
	ExpirationDate   time.Time
	ReceivedDate     time.Time
	QuantityReceived int64
	UnitCost         decimal.Decimal
	SalePrice        decimal.Decimal
	SupplierID       string
	Notes            string
}

// UpdateBatchInput campos corregibles de un lote. Las cantidades no aparecen
// aquí a propósito: mutarlas es responsabilidad exclusiva del asignador y de
// los ajustes manuales, nunca de una edición de lote.
type UpdateBatchInput struct {
	ExpirationDate *time.Time
	UnitCost       *decimal.Decimal
	SalePrice      *decimal.Decimal
	SupplierID     *string
	Notes          *string
}

// AddBatch valida y registra un lote: vencimiento estrictamente futuro,
// recepción no futura, número de lote único por producto. Deja
// remaining = received, escribe un movimiento purchase (+received) y
// recalcula el total cacheado, todo como una unidad atómica.
func (uc *LedgerUseCase) AddBatch(ctx context.Context, actorID string, in AddBatchInput) (*entity.Batch, error) {
	now := uc.clk.Now()

	if in.ProductID == "" || in.QuantityReceived <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.ExpirationDate.IsZero() || !in.ExpirationDate.After(now) {
		return nil, domain.ErrInvalidExpiry
	}
	received := in.ReceivedDate
	if received.IsZero() {
		received = now
	}
	if received.After(now) {
		return nil, domain.ErrInvalidInput
	}

	var created *entity.Batch
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}

		existing, err := batchRepo.ListByProduct(in.ProductID)
		if err != nil {
			return err
		}

		number := in.BatchNumber
		if number == "" {
			numbers := make([]string, 0, len(existing))
			for _, b := range existing {
				numbers = append(numbers, b.BatchNumber)
			}
			number = domaininv.NextBatchNumber(product.Code, now, numbers)
		} else {
			for _, b := range existing {
				if b.BatchNumber == number {
					return domain.ErrDuplicateBatchNumber
				}
			}
		}

		batch := &entity.Batch{
			ID:                uuid.New().String(),
			ProductID:         in.ProductID,
			BatchNumber:       number,
			ExpirationDate:    in.ExpirationDate,
			ReceivedDate:      received,
			QuantityReceived:  in.QuantityReceived,
			QuantityRemaining: in.QuantityReceived,
			UnitCost:          in.UnitCost,
			SalePrice:         in.SalePrice,
			SupplierID:        in.SupplierID,
			Notes:             in.Notes,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := batchRepo.Create(batch); err != nil {
			return err
		}

		var total int64
		for _, b := range existing {
			total += b.QuantityRemaining
		}
		total += batch.QuantityRemaining
		if err := productRepo.UpdateStockQuantity(in.ProductID, total); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     in.ProductID,
			BatchID:       batch.ID,
			Type:          entity.MovementTypePurchase,
			Quantity:      in.QuantityReceived,
			UnitCost:      in.UnitCost,
			ReferenceType: entity.ReferenceTypeBatch,
			ReferenceID:   batch.ID,
			Notes:         in.Notes,
			CreatedAt:     now,
			CreatedBy:     actorID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}

		created = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateBatch corrige campos no cuantitativos de un lote. El vencimiento nuevo
// debe seguir siendo estrictamente futuro.
func (uc *LedgerUseCase) UpdateBatch(ctx context.Context, productID, batchID string, in UpdateBatchInput) (*entity.Batch, error) {
	now := uc.clk.Now()
	if in.ExpirationDate != nil && !in.ExpirationDate.After(now) {
		return nil, domain.ErrInvalidExpiry
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.SalePrice != nil && in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Batch
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		_ repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		batch, err := batchRepo.GetByID(batchID)
		if err != nil {
			return err
		}
		if batch == nil || batch.ProductID != productID {
			return domain.ErrBatchNotFound
		}

		if in.ExpirationDate != nil {
			batch.ExpirationDate = *in.ExpirationDate
		}
		if in.UnitCost != nil {
			batch.UnitCost = *in.UnitCost
		}
		if in.SalePrice != nil {
			batch.SalePrice = *in.SalePrice
		}
		if in.SupplierID != nil {
			batch.SupplierID = *in.SupplierID
		}
		if in.Notes != nil {
			batch.Notes = *in.Notes
		}
		batch.UpdatedAt = now

		if err := batchRepo.Update(batch); err != nil {
			return err
		}
		updated = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AvailableBatches devuelve los lotes asignables del producto en orden
// canónico (vencimiento, recepción, inserción). Lectura sin bloqueo.
func (uc *LedgerUseCase) AvailableBatches(productID string) ([]entity.Batch, error) {
	batches, err := uc.listBatches(productID)
	if err != nil {
		return nil, err
	}
	return domaininv.AvailableBatches(batches, uc.clk.Now()), nil
}

// ExpiredBatches devuelve el stock muerto del producto (vencido con restante).
func (uc *LedgerUseCase) ExpiredBatches(productID string) ([]entity.Batch, error) {
	batches, err := uc.listBatches(productID)
	if err != nil {
		return nil, err
	}
	return domaininv.ExpiredBatches(batches, uc.clk.Now()), nil
}

// CurrentPrice devuelve el precio de venta del primer lote disponible.
// Fallback documentado: sin disponibilidad, el precio del lote recibido más
// recientemente (último precio conocido); sin lotes, ErrNotFound.
func (uc *LedgerUseCase) CurrentPrice(productID string) (decimal.Decimal, error) {
	batches, err := uc.listBatches(productID)
	if err != nil {
		return decimal.Zero, err
	}

	available := domaininv.AvailableBatches(batches, uc.clk.Now())
	if len(available) > 0 {
		return available[0].SalePrice, nil
	}
	if len(batches) == 0 {
		return decimal.Zero, domain.ErrNotFound
	}

	latest := batches[0]
	for _, b := range batches[1:] {
		if b.ReceivedDate.After(latest.ReceivedDate) ||
			(b.ReceivedDate.Equal(latest.ReceivedDate) && b.Position > latest.Position) {
			latest = b
		}
	}
	return latest.SalePrice, nil
}

func (uc *LedgerUseCase) listBatches(productID string) ([]entity.Batch, error) {
	product, err := uc.prodRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return uc.batchRepo.ListByProduct(productID)
}
