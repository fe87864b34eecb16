package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
)

// ConsumedBatch describe cuánto se tomó de un lote en una asignación.
// El costo unitario viaja junto a la cantidad para que el caller calcule
// costo de venta sin una segunda lectura (el costeo y el consumo salen del
// mismo snapshot, nunca de dos lecturas independientes).
type ConsumedBatch struct {
	BatchID     string
	BatchNumber string
	Quantity    int64
	UnitCost    decimal.Decimal
}

// TotalCost devuelve Quantity × UnitCost.
func (c ConsumedBatch) TotalCost() decimal.Decimal {
	return decimal.NewFromInt(c.Quantity).Mul(c.UnitCost)
}

// AllocationPlan es el resultado puro de planificar un consumo FIFO sobre un
// snapshot de lotes: qué lote aporta cuánto y el restante resultante de cada uno.
type AllocationPlan struct {
	Consumed     []ConsumedBatch
	NewRemaining map[string]int64 // batchID → restante después de aplicar el plan
}

// PlanConsumption recorre los lotes disponibles en orden canónico y reparte la
// cantidad solicitada: de cada lote toma min(restante, faltante) hasta cubrir el
// pedido. Es todo-o-nada: si el total disponible no alcanza devuelve
// ErrInsufficientStock sin plan parcial. No muta los lotes recibidos.
func PlanConsumption(batches []entity.Batch, quantity int64, now time.Time) (*AllocationPlan, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	available := AvailableBatches(batches, now)

	var total int64
	for _, b := range available {
		total += b.QuantityRemaining
	}
	if total < quantity {
		return nil, domain.ErrInsufficientStock
	}

	plan := &AllocationPlan{
		Consumed:     make([]ConsumedBatch, 0, len(available)),
		NewRemaining: make(map[string]int64),
	}
	needed := quantity
	for _, b := range available {
		if needed == 0 {
			break
		}
		take := b.QuantityRemaining
		if take > needed {
			take = needed
		}
		plan.Consumed = append(plan.Consumed, ConsumedBatch{
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			Quantity:    take,
			UnitCost:    b.UnitCost,
		})
		plan.NewRemaining[b.ID] = b.QuantityRemaining - take
		needed -= take
	}
	return plan, nil
}

// CanFulfill indica si la suma de restantes disponibles cubre la cantidad pedida.
func CanFulfill(batches []entity.Batch, quantity int64, now time.Time) bool {
	if quantity <= 0 {
		return false
	}
	var total int64
	for _, b := range batches {
		if b.IsAvailable(now) {
			total += b.QuantityRemaining
		}
	}
	return total >= quantity
}
