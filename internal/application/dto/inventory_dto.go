package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddBatchRequest body para POST /api/products/:id/batches.
// BatchNumber vacío → el sistema deriva uno a partir del código del producto.
type AddBatchRequest struct {
	BatchNumber      string          `json:"batch_number" validate:"omitempty,max=100"`
	ExpirationDate   time.Time       `json:"expiration_date" validate:"required"`
	ReceivedDate     *time.Time      `json:"received_date"`
	QuantityReceived int64           `json:"quantity_received" validate:"required,min=1"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	SalePrice        decimal.Decimal `json:"sale_price"`
	SupplierID       string          `json:"supplier_id"`
	Notes            string          `json:"notes"`
}

// UpdateBatchRequest body para PATCH /api/products/:id/batches/:batchId.
// Sin cantidades: esas solo las mueven ventas y ajustes.
type UpdateBatchRequest struct {
	ExpirationDate *time.Time       `json:"expiration_date"`
	UnitCost       *decimal.Decimal `json:"unit_cost"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	SupplierID     *string          `json:"supplier_id"`
	Notes          *string          `json:"notes"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	BatchNumber       string          `json:"batch_number"`
	ExpirationDate    time.Time       `json:"expiration_date"`
	ReceivedDate      time.Time       `json:"received_date"`
	QuantityReceived  int64           `json:"quantity_received"`
	QuantityRemaining int64           `json:"quantity_remaining"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Expired           bool            `json:"expired"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ReduceStockRequest body para POST /api/products/:id/stock/reduce.
type ReduceStockRequest struct {
	Quantity      int64  `json:"quantity" validate:"required,min=1"`
	Reason        string `json:"reason" validate:"required,oneof=sale pos_sale manual_adjustment"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   string `json:"reference_id"`
	Notes         string `json:"notes"`
}

// ConsumedBatchResponse una línea del plan de asignación ejecutado.
type ConsumedBatchResponse struct {
	BatchID     string          `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// ReduceStockResponse salida de una reducción de stock: de qué lotes salió
// cada unidad y el costo total del plan.
type ReduceStockResponse struct {
	Consumed  []ConsumedBatchResponse `json:"consumed"`
	TotalCost decimal.Decimal         `json:"total_cost"`
}

// AdjustBatchRequest body para POST /api/products/:id/batches/:batchId/adjust.
// Quantity es el delta con signo.
type AdjustBatchRequest struct {
	Quantity    int64  `json:"quantity" validate:"required"`
	ReferenceID string `json:"reference_id"`
	Notes       string `json:"notes"`
}

// MovementResponse una entrada del libro de movimientos.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	BatchID       string          `json:"batch_id,omitempty"`
	Type          string          `json:"type"`
	Quantity      int64           `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CanFulfillResponse salida de la consulta de disponibilidad.
type CanFulfillResponse struct {
	ProductID   string `json:"product_id"`
	Quantity    int64  `json:"quantity"`
	Fulfillable bool   `json:"fulfillable"`
}

// PriceResponse precio de venta vigente de un producto.
type PriceResponse struct {
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
}
