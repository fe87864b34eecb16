// Package inventory contiene los servicios de dominio puros del motor de lotes:
// orden determinista de disponibilidad, plan de consumo FIFO, derivación de
// números de lote y agregados de vencimiento/stock bajo. Ninguna función de este
// paquete tiene efectos secundarios ni conoce la capa de persistencia.
package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
)

// SortForAllocation ordena lotes in-place en el orden canónico de asignación:
// vencimiento ascendente, luego fecha de recepción, luego orden de inserción.
// El tercer criterio garantiza un orden total aun cuando dos lotes compartan
// ambas fechas, de modo que repetir una asignación sobre el mismo estado
// siempre selecciona los mismos lotes en las mismas proporciones.
func SortForAllocation(batches []entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.ExpirationDate.Equal(b.ExpirationDate) {
			return a.ExpirationDate.Before(b.ExpirationDate)
		}
		if !a.ReceivedDate.Equal(b.ReceivedDate) {
			return a.ReceivedDate.Before(b.ReceivedDate)
		}
		return a.Position < b.Position
	})
}

// AvailableBatches filtra los lotes con restante y sin vencer, ya ordenados
// para asignación.
func AvailableBatches(batches []entity.Batch, now time.Time) []entity.Batch {
	out := make([]entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.IsAvailable(now) {
			out = append(out, b)
		}
	}
	SortForAllocation(out)
	return out
}

// ExpiredBatches filtra los lotes vencidos que aún tienen restante (stock muerto).
// Se reportan aparte y nunca se reincorporan silenciosamente a la disponibilidad.
func ExpiredBatches(batches []entity.Batch, now time.Time) []entity.Batch {
	out := make([]entity.Batch, 0)
	for _, b := range batches {
		if b.QuantityRemaining > 0 && b.IsExpired(now) {
			out = append(out, b)
		}
	}
	SortForAllocation(out)
	return out
}
