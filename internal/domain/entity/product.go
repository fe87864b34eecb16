package entity

import "time"

// Product representa un producto del catálogo de la farmacia.
// StockQuantity es el total cacheado: siempre igual a la suma de QuantityRemaining
// de todos sus lotes después de cualquier operación confirmada. Solo el motor de
// inventario lo actualiza, nunca los handlers.
type Product struct {
	ID             string
	Code           string // código único (ej. "PARA500")
	Name           string
	NameNormalized string // nombre sin tildes, minúsculas, para búsqueda
	Description    string
	Unit           string // presentación: caja, blíster, frasco...
	UnitQuantity   int64  // unidades por presentación (informativo para el ledger)
	ReorderLevel   int64  // umbral de stock bajo
	StockQuantity  int64  // total cacheado = Σ lotes.QuantityRemaining
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
