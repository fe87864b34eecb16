package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
)

// AvailableStock suma el restante de los lotes disponibles (sin vencer).
func AvailableStock(batches []entity.Batch, now time.Time) int64 {
	var total int64
	for _, b := range batches {
		if b.IsAvailable(now) {
			total += b.QuantityRemaining
		}
	}
	return total
}

// IsLowStock indica stock bajo: disponible mayor que cero y menor o igual al
// punto de reorden del producto.
func IsLowStock(product *entity.Product, batches []entity.Batch, now time.Time) bool {
	available := AvailableStock(batches, now)
	return available > 0 && available <= product.ReorderLevel
}

// IsOutOfStock indica producto agotado (sin disponible).
func IsOutOfStock(batches []entity.Batch, now time.Time) bool {
	return AvailableStock(batches, now) == 0
}

// ExpiringSoon indica si algún lote con restante vence dentro de la ventana
// [now, now+days].
func ExpiringSoon(batches []entity.Batch, now time.Time, days int) bool {
	for _, b := range batches {
		if b.ExpiresWithin(now, days) {
			return true
		}
	}
	return false
}

// BatchesExpiringSoon devuelve los lotes con restante que vencen dentro de la
// ventana, en orden canónico (los más próximos a vencer primero).
func BatchesExpiringSoon(batches []entity.Batch, now time.Time, days int) []entity.Batch {
	out := make([]entity.Batch, 0)
	for _, b := range batches {
		if b.ExpiresWithin(now, days) {
			out = append(out, b)
		}
	}
	SortForAllocation(out)
	return out
}

// InventoryValue valúa el restante de los lotes sin vencer a su costo unitario.
// El stock muerto (vencido con restante) se excluye: su valor contable es cero.
func InventoryValue(batches []entity.Batch, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		if b.QuantityRemaining > 0 && !b.IsExpired(now) {
			total = total.Add(b.Value())
		}
	}
	return total
}

// DeadStockValue valúa el stock muerto (vencido con restante) al costo.
func DeadStockValue(batches []entity.Batch, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		if b.QuantityRemaining > 0 && b.IsExpired(now) {
			total = total.Add(b.Value())
		}
	}
	return total
}
