package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.BatchRepository         = (*BatchRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
	_ repository.SupplierRepository      = (*SupplierRepo)(nil)
	_ repository.UserRepository          = (*UserRepo)(nil)
)

// ProductRepo adaptador de productos. Con tx, lee a través del overlay de la
// transacción y escribe al staging; sin tx, opera directo sobre el almacén.
type ProductRepo struct {
	store *Store
	tx    *Tx
}

// NewProductRepository construye el adaptador fuera de transacción.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}

func (r *ProductRepo) Create(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = copyProduct(product)
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	if r.tx != nil {
		if p, ok := r.tx.stagedProducts[id]; ok {
			return copyProduct(p), nil
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(p), nil
}

func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.products {
		if p.Code == code {
			return copyProduct(p), nil
		}
	}
	return nil, nil
}

// GetForUpdate toma el cerrojo del producto con espera acotada (solo dentro de
// una transacción; el cerrojo se libera al terminar el Run). Fuera de tx, se
// comporta como GetByID.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	if r.tx == nil {
		return r.GetByID(id)
	}
	p, err := r.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}
	l, err := r.store.acquireProductLock(r.tx.ctx, id)
	if err != nil {
		return nil, err
	}
	r.tx.locked = append(r.tx.locked, l)
	// Releer ya con el cerrojo: otro escritor pudo confirmar entre la lectura
	// y la adquisición.
	return r.GetByID(id)
}

func (r *ProductRepo) Update(product *entity.Product) error {
	if r.tx != nil {
		r.tx.stagedProducts[product.ID] = copyProduct(product)
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = copyProduct(product)
	return nil
}

func (r *ProductRepo) UpdateStockQuantity(productID string, quantity int64) error {
	p, err := r.GetByID(productID)
	if err != nil || p == nil {
		return err
	}
	p.StockQuantity = quantity
	p.UpdatedAt = time.Now().UTC()
	return r.Update(p)
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.store.mu.RLock()
	all := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		all = append(all, copyProduct(p))
	}
	r.store.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return page(all, limit, offset), nil
}

func (r *ProductRepo) Search(normalizedQuery string, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.RLock()
	matched := make([]*entity.Product, 0)
	for _, p := range r.store.products {
		if strings.Contains(p.NameNormalized, normalizedQuery) || strings.Contains(strings.ToLower(p.Code), normalizedQuery) {
			matched = append(matched, copyProduct(p))
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Code < matched[j].Code })
	return page(matched, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// BatchRepo adaptador de lotes.
type BatchRepo struct {
	store *Store
	tx    *Tx
}

// NewBatchRepository construye el adaptador fuera de transacción.
func NewBatchRepository(store *Store) *BatchRepo {
	return &BatchRepo{store: store}
}

func copyBatch(b *entity.Batch) *entity.Batch {
	cp := *b
	return &cp
}

func (r *BatchRepo) Create(batch *entity.Batch) error {
	cp := copyBatch(batch)

	if r.tx != nil {
		pos, ok := r.tx.stagedPositions[batch.ProductID]
		if !ok {
			r.store.mu.RLock()
			pos = r.store.positions[batch.ProductID]
			r.store.mu.RUnlock()
		}
		cp.Position = pos + 1
		r.tx.stagedPositions[batch.ProductID] = cp.Position
		r.tx.stagedBatches[cp.ID] = cp
	} else {
		r.store.mu.Lock()
		cp.Position = r.store.positions[batch.ProductID] + 1
		r.store.positions[batch.ProductID] = cp.Position
		r.store.batches[cp.ID] = cp
		r.store.mu.Unlock()
	}
	batch.Position = cp.Position
	return nil
}

func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	if r.tx != nil {
		if b, ok := r.tx.stagedBatches[id]; ok {
			return copyBatch(b), nil
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.batches[id]
	if !ok {
		return nil, nil
	}
	return copyBatch(b), nil
}

func (r *BatchRepo) ListByProduct(productID string) ([]entity.Batch, error) {
	merged := make(map[string]*entity.Batch)
	r.store.mu.RLock()
	for id, b := range r.store.batches {
		if b.ProductID == productID {
			merged[id] = b
		}
	}
	r.store.mu.RUnlock()
	if r.tx != nil {
		for id, b := range r.tx.stagedBatches {
			if b.ProductID == productID {
				merged[id] = b
			}
		}
	}

	out := make([]entity.Batch, 0, len(merged))
	for _, b := range merged {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *BatchRepo) Update(batch *entity.Batch) error {
	if r.tx != nil {
		r.tx.stagedBatches[batch.ID] = copyBatch(batch)
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.batches[batch.ID] = copyBatch(batch)
	return nil
}

func (r *BatchRepo) UpdateRemaining(batchID string, remaining int64) error {
	b, err := r.GetByID(batchID)
	if err != nil || b == nil {
		return err
	}
	b.QuantityRemaining = remaining
	return r.Update(b)
}

// StockMovementRepo adaptador del libro de movimientos (solo append).
type StockMovementRepo struct {
	store *Store
	tx    *Tx
}

// NewStockMovementRepository construye el adaptador fuera de transacción.
func NewStockMovementRepository(store *Store) *StockMovementRepo {
	return &StockMovementRepo{store: store}
}

func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	cp := *movement
	if r.tx != nil {
		r.tx.stagedMovements = append(r.tx.stagedMovements, &cp)
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.store.mu.RLock()
	matched := make([]*entity.StockMovement, 0)
	for _, m := range r.store.movements {
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		matched = append(matched, &cp)
	}
	r.store.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return page(matched, limit, offset), nil
}

func (r *StockMovementRepo) SumDeltasByProduct(productID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var total int64
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			total += m.Quantity
		}
	}
	if r.tx != nil {
		for _, m := range r.tx.stagedMovements {
			if m.ProductID == productID {
				total += m.Quantity
			}
		}
	}
	return total, nil
}

// SupplierRepo adaptador de proveedores.
type SupplierRepo struct {
	store *Store
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(store *Store) *SupplierRepo {
	return &SupplierRepo{store: store}
}

func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *supplier
	r.store.suppliers[supplier.ID] = &cp
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	r.store.mu.RLock()
	all := make([]*entity.Supplier, 0, len(r.store.suppliers))
	for _, s := range r.store.suppliers {
		cp := *s
		all = append(all, &cp)
	}
	r.store.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *supplier
	r.store.suppliers[supplier.ID] = &cp
	return nil
}

// UserRepo adaptador de usuarios.
type UserRepo struct {
	store *Store
}

// NewUserRepository construye el adaptador.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *user
	r.store.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
