package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	domaininv "github.com/jhoicas/farmacia-pro/internal/domain/inventory"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
	"github.com/jhoicas/farmacia-pro/pkg/clock"
)

// retryBackoff espera entre reintentos ante modificación concurrente.
const retryBackoff = 15 * time.Millisecond

// AllocatorUseCase es el asignador FIFO: el único camino por el que sale stock.
// Ventas en línea, ventas de mostrador y bajas manuales sin lote destino pasan
// todas por ReduceStock, de modo que el reparto por lotes, el total cacheado y
// el libro de movimientos no puedan divergir entre puntos de entrada.
type AllocatorUseCase struct {
	txRunner  TxRunner
	prodRepo  repository.ProductRepository
	batchRepo repository.BatchRepository
	clk       clock.Clock
	retries   int
}

// NewAllocatorUseCase construye el asignador. retries acota los reintentos
// internos ante ErrConcurrentModification (mínimo 1 intento).
func NewAllocatorUseCase(
	txRunner TxRunner,
	prodRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	clk clock.Clock,
	retries int,
) *AllocatorUseCase {
	if retries < 1 {
		retries = 1
	}
	return &AllocatorUseCase{txRunner: txRunner, prodRepo: prodRepo, batchRepo: batchRepo, clk: clk, retries: retries}
}

// ReduceStockInput entrada para una salida de stock.
// Reason debe ser un tipo de movimiento de salida: sale, pos_sale o
// manual_adjustment. ReferenceType/ReferenceID enlazan el documento origen
// (pedido, transacción POS, nota de ajuste).
type ReduceStockInput struct {
	ProductID     string
	Quantity      int64
	Reason        string
	ReferenceType string
	ReferenceID   string
	Notes         string
}

// CanFulfill indica si la disponibilidad actual cubre la cantidad. Lectura
// pura sobre un snapshot; no bloquea escritores y no garantiza la reserva.
func (uc *AllocatorUseCase) CanFulfill(productID string, quantity int64) (bool, error) {
	product, err := uc.prodRepo.GetByID(productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, domain.ErrProductNotFound
	}
	batches, err := uc.batchRepo.ListByProduct(productID)
	if err != nil {
		return false, err
	}
	return domaininv.CanFulfill(batches, quantity, uc.clk.Now()), nil
}

// ReduceStock consume la cantidad pedida en orden FIFO de vencimiento:
// un único snapshot alimenta el plan (costeo y decremento salen de la misma
// selección), y decrementos, total cacheado y un movimiento por lote afectado
// se confirman como una transacción. Todo-o-nada: ErrInsufficientStock no deja
// ninguna mutación. Ante contención por el mismo producto reintenta de forma
// acotada y luego surge ErrConcurrentModification al caller.
// Devuelve los consumos por lote (id, número, cantidad, costo) para que el
// caller calcule el costo de venta.
func (uc *AllocatorUseCase) ReduceStock(ctx context.Context, actorID string, in ReduceStockInput) ([]domaininv.ConsumedBatch, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	switch in.Reason {
	case entity.MovementTypeSale, entity.MovementTypePOSSale, entity.MovementTypeManualAdjustment:
	default:
		return nil, domain.ErrInvalidInput
	}

	var lastErr error
	for attempt := 0; attempt < uc.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}
		}

		consumed, err := uc.reduceOnce(ctx, actorID, in)
		if err == nil {
			return consumed, nil
		}
		if !errors.Is(err, domain.ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (uc *AllocatorUseCase) reduceOnce(ctx context.Context, actorID string, in ReduceStockInput) ([]domaininv.ConsumedBatch, error) {
	now := uc.clk.Now()

	var consumed []domaininv.ConsumedBatch
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

		batches, err := batchRepo.ListByProduct(in.ProductID)
		if err != nil {
			return err
		}

		plan, err := domaininv.PlanConsumption(batches, in.Quantity, now)
		if err != nil {
			return err
		}

		for _, c := range plan.Consumed {
			if err := batchRepo.UpdateRemaining(c.BatchID, plan.NewRemaining[c.BatchID]); err != nil {
				return err
			}
		}

		// Total cacheado = Σ restante de TODOS los lotes (los vencidos con
		// restante siguen contando como existencia física).
		var total int64
		for _, b := range batches {
			if newRemaining, ok := plan.NewRemaining[b.ID]; ok {
				total += newRemaining
			} else {
				total += b.QuantityRemaining
			}
		}
		if err := productRepo.UpdateStockQuantity(in.ProductID, total); err != nil {
			return err
		}

		for _, c := range plan.Consumed {
			mov := &entity.StockMovement{
				ID:            uuid.New().String(),
				ProductID:     in.ProductID,
				BatchID:       c.BatchID,
				Type:          in.Reason,
				Quantity:      -c.Quantity,
				UnitCost:      c.UnitCost,
				ReferenceType: in.ReferenceType,
				ReferenceID:   in.ReferenceID,
				Notes:         in.Notes,
				CreatedAt:     now,
				CreatedBy:     actorID,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}

		consumed = plan.Consumed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return consumed, nil
}
