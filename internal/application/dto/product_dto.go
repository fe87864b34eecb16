package dto

import "time"

// CreateProductRequest entrada para crear un producto. El stock nunca se fija
// aquí: nace en 0 y solo lo mueven los lotes.
type CreateProductRequest struct {
	Code         string `json:"code" validate:"required,min=1,max=50"`
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Description  string `json:"description"`
	Unit         string `json:"unit"`
	UnitQuantity int64  `json:"unit_quantity" validate:"min=0"`
	ReorderLevel int64  `json:"reorder_level" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock).
type UpdateProductRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description"`
	Unit         *string `json:"unit"`
	UnitQuantity *int64  `json:"unit_quantity" validate:"omitempty,min=0"`
	ReorderLevel *int64  `json:"reorder_level" validate:"omitempty,min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Unit          string    `json:"unit"`
	UnitQuantity  int64     `json:"unit_quantity"`
	ReorderLevel  int64     `json:"reorder_level"`
	StockQuantity int64     `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
