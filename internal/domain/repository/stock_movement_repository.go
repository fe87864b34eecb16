package repository

import (
	"time"

	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de movimientos: solo
// append y lectura. No existe Update ni Delete: las entradas son permanentes.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	SumDeltasByProduct(productID string) (int64, error)
}
