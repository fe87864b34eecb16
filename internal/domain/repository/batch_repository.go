package repository

import "github.com/jhoicas/farmacia-pro/internal/domain/entity"

// BatchRepository define el puerto de persistencia para los lotes de un producto.
// Create asigna Position (orden de inserción dentro del producto). Update cubre
// solo campos no cuantitativos; los restantes se mutan únicamente vía
// UpdateRemaining, que es responsabilidad exclusiva del motor de asignación.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	ListByProduct(productID string) ([]entity.Batch, error)
	Update(batch *entity.Batch) error
	UpdateRemaining(batchID string, remaining int64) error
}
