package repository

import "github.com/jhoicas/farmacia-pro/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate toma el cerrojo de escritura por producto sin bloquear: si otro
// escritor tiene el cerrojo, retorna domain.ErrConcurrentModification para que
// el caller reintente de forma acotada. Solo tiene sentido dentro de un TxRunner.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStockQuantity(productID string, quantity int64) error
	List(limit, offset int) ([]*entity.Product, error)
	Search(normalizedQuery string, limit, offset int) ([]*entity.Product, error)
}
