package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypePurchase         = "purchase"          // entrada por compra/reposición
	MovementTypeSale             = "sale"              // salida por pedido en línea
	MovementTypePOSSale          = "pos_sale"          // salida por venta en mostrador
	MovementTypeManualAdjustment = "manual_adjustment" // ajuste manual (merma, conteo)
)

// Tipos de referencia al documento que originó el movimiento.
const (
	ReferenceTypeOrder      = "order"
	ReferenceTypePOS        = "pos_transaction"
	ReferenceTypeBatch      = "batch"
	ReferenceTypeAdjustment = "adjustment"
)

// StockMovement es una entrada inmutable del libro de movimientos: cada cambio de
// cantidad genera exactamente una entrada, que nunca se edita ni se borra.
// Invariante de conciliación: para cada producto, Σ Quantity == StockQuantity cacheado.
type StockMovement struct {
	ID            string
	ProductID     string
	BatchID       string // opcional: lote afectado
	Type          string // purchase, sale, pos_sale, manual_adjustment
	Quantity      int64  // delta con signo: positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string // actor (UserID) de la operación
}

// IsValidMovementType valida el tipo contra el catálogo conocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypePOSSale, MovementTypeManualAdjustment:
		return true
	}
	return false
}
