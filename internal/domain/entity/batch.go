package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote recibido de un producto, con su propio vencimiento,
// costo y cantidad restante. Un lote nunca se borra: se agota (remaining = 0) o
// envejece a vencido (clasificación de lectura, no un estado almacenado).
// QuantityReceived es inmutable después de la creación; QuantityRemaining solo
// lo mutan el asignador FIFO y los ajustes manuales con lote destino.
type Batch struct {
	ID                string
	ProductID         string
	BatchNumber       string // único por producto
	ExpirationDate    time.Time
	ReceivedDate      time.Time
	QuantityReceived  int64
	QuantityRemaining int64
	UnitCost          decimal.Decimal
	SalePrice         decimal.Decimal
	SupplierID        string // opcional
	Notes             string
	Position          int64 // orden de inserción dentro del producto (desempate FIFO)
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsExpired indica si el lote ya venció respecto a now.
func (b *Batch) IsExpired(now time.Time) bool {
	return !now.Before(b.ExpirationDate)
}

// IsDepleted indica si el lote está agotado (estado terminal del eje de consumo).
func (b *Batch) IsDepleted() bool {
	return b.QuantityRemaining <= 0
}

// IsAvailable indica si el lote puede usarse para asignación: con restante y sin vencer.
func (b *Batch) IsAvailable(now time.Time) bool {
	return b.QuantityRemaining > 0 && !b.IsExpired(now)
}

// ExpiresWithin indica si el lote vence dentro de la ventana [now, now+days].
func (b *Batch) ExpiresWithin(now time.Time, days int) bool {
	if b.QuantityRemaining <= 0 {
		return false
	}
	limit := now.AddDate(0, 0, days)
	return !b.ExpirationDate.Before(now) && !b.ExpirationDate.After(limit)
}

// Value devuelve el valor del restante al costo del lote.
func (b *Batch) Value() decimal.Decimal {
	return decimal.NewFromInt(b.QuantityRemaining).Mul(b.UnitCost)
}
