package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
	"github.com/jhoicas/farmacia-pro/pkg/clock"
)

// MovementUseCase cubre el libro de movimientos: lecturas de auditoría y el
// ajuste manual dirigido a un lote concreto (conteo físico, merma, devolución
// a un lote). Los ajustes negativos sin lote destino van por el asignador
// (ReduceStock con reason manual_adjustment), no por aquí, para que el reparto
// FIFO no se pueda saltar.
type MovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository
	prodRepo repository.ProductRepository
	clk      clock.Clock
}

// NewMovementUseCase construye el caso de uso del libro de movimientos.
func NewMovementUseCase(
	txRunner TxRunner,
	prodRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	clk clock.Clock,
) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, prodRepo: prodRepo, movRepo: movRepo, clk: clk}
}

// AdjustBatchInput entrada para un ajuste manual sobre un lote.
// Quantity es el delta con signo: positivo reincorpora unidades al lote
// (nunca por encima de lo recibido), negativo las da de baja.
type AdjustBatchInput struct {
	ProductID   string
	BatchID     string
	Quantity    int64
	ReferenceID string
	Notes       string
}

// AdjustBatch aplica un ajuste manual atómico sobre un lote: muta el restante,
// recalcula el total cacheado y escribe un movimiento manual_adjustment, todo
// en la misma transacción. Respeta 0 ≤ restante ≤ recibido: un delta que
// dejaría el lote por debajo de cero retorna ErrInsufficientStock y uno que lo
// dejaría por encima de lo recibido retorna ErrInvalidInput.
func (uc *MovementUseCase) AdjustBatch(ctx context.Context, actorID string, in AdjustBatchInput) (*entity.StockMovement, error) {
	if in.ProductID == "" || in.BatchID == "" || in.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.clk.Now()

	var created *entity.StockMovement
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
		batch, err := batchRepo.GetByID(in.BatchID)
		if err != nil {
			return err
		}
		if batch == nil || batch.ProductID != in.ProductID {
			return domain.ErrBatchNotFound
		}

		newRemaining := batch.QuantityRemaining + in.Quantity
		if newRemaining < 0 {
			return domain.ErrInsufficientStock
		}
		if newRemaining > batch.QuantityReceived {
			return domain.ErrInvalidInput
		}
		if err := batchRepo.UpdateRemaining(batch.ID, newRemaining); err != nil {
			return err
		}

		batches, err := batchRepo.ListByProduct(in.ProductID)
		if err != nil {
			return err
		}
		var total int64
		for _, b := range batches {
			total += b.QuantityRemaining
		}
		if err := productRepo.UpdateStockQuantity(in.ProductID, total); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     in.ProductID,
			BatchID:       batch.ID,
			Type:          entity.MovementTypeManualAdjustment,
			Quantity:      in.Quantity,
			UnitCost:      batch.UnitCost,
			ReferenceType: entity.ReferenceTypeAdjustment,
			ReferenceID:   in.ReferenceID,
			Notes:         in.Notes,
			CreatedAt:     now,
			CreatedBy:     actorID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListByProduct lista movimientos de un producto en un rango de fechas, más
// recientes primero.
func (uc *MovementUseCase) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	product, err := uc.prodRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return uc.movRepo.ListByProduct(productID, from, to, limit, offset)
}

// SumDeltas devuelve Σ deltas del producto (para conciliación y verificación).
func (uc *MovementUseCase) SumDeltas(productID string) (int64, error) {
	return uc.movRepo.SumDeltasByProduct(productID)
}
