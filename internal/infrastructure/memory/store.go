// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con la misma disciplina de concurrencia que la implementación
// PostgreSQL: un escritor a la vez por producto, adquirido sin bloqueo
// indefinido, y transacciones todo-o-nada. Se usa en modo dev/demo
// (STORE_DRIVER=memory) y en los tests del motor de inventario.
package memory

import (
	"context"
	"sync"
	"time"

	appinv "github.com/jhoicas/farmacia-pro/internal/application/inventory"
	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
)

// lockAcquireTimeout acota la espera por el cerrojo de un producto; al vencer
// surge ErrConcurrentModification para que el caller reintente, en lugar de
// estancar el checkout.
const (
	lockAcquireTimeout = 250 * time.Millisecond
	lockPollInterval   = 2 * time.Millisecond
)

// Store es el almacén en memoria. mu protege los mapas; el cerrojo por
// producto serializa a los escritores del mismo producto sin coordinar
// productos distintos.
type Store struct {
	mu        sync.RWMutex
	products  map[string]*entity.Product
	batches   map[string]*entity.Batch
	movements []*entity.StockMovement
	suppliers map[string]*entity.Supplier
	users     map[string]*entity.User
	positions map[string]int64 // productID → última posición de lote asignada

	lockMu       sync.Mutex
	productLocks map[string]*sync.Mutex
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:     make(map[string]*entity.Product),
		batches:      make(map[string]*entity.Batch),
		suppliers:    make(map[string]*entity.Supplier),
		users:        make(map[string]*entity.User),
		positions:    make(map[string]int64),
		productLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) productLock(productID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.productLocks[productID]
	if !ok {
		l = &sync.Mutex{}
		s.productLocks[productID] = l
	}
	return l
}

// acquireProductLock intenta tomar el cerrojo del producto con espera acotada.
func (s *Store) acquireProductLock(ctx context.Context, productID string) (*sync.Mutex, error) {
	l := s.productLock(productID)
	deadline := time.Now().Add(lockAcquireTimeout)
	for {
		if l.TryLock() {
			return l, nil
		}
		if time.Now().After(deadline) {
			return nil, domain.ErrConcurrentModification
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}

// Tx acumula escrituras hasta el commit; un error del callback las descarta
// sin tocar el almacén (equivalente al Rollback de la tx SQL).
type Tx struct {
	store *Store
	ctx   context.Context

	locked []*sync.Mutex

	stagedProducts  map[string]*entity.Product
	stagedBatches   map[string]*entity.Batch
	stagedMovements []*entity.StockMovement
	stagedPositions map[string]int64
}

func (t *Tx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range t.stagedProducts {
		s.products[id] = p
	}
	for id, b := range t.stagedBatches {
		s.batches[id] = b
	}
	for productID, pos := range t.stagedPositions {
		s.positions[productID] = pos
	}
	s.movements = append(s.movements, t.stagedMovements...)
}

func (t *Tx) release() {
	for _, l := range t.locked {
		l.Unlock()
	}
	t.locked = nil
}

// TxRunner implementa inventory.TxRunner sobre el almacén en memoria.
type TxRunner struct {
	store *Store
}

var _ appinv.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos atados a una transacción en memoria; aplica las
// escrituras solo si fn retorna nil.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx := &Tx{
		store:           r.store,
		ctx:             ctx,
		stagedProducts:  make(map[string]*entity.Product),
		stagedBatches:   make(map[string]*entity.Batch),
		stagedPositions: make(map[string]int64),
	}
	defer tx.release()

	productRepo := &ProductRepo{store: r.store, tx: tx}
	batchRepo := &BatchRepo{store: r.store, tx: tx}
	movRepo := &StockMovementRepo{store: r.store, tx: tx}

	if err := fn(productRepo, batchRepo, movRepo); err != nil {
		return err
	}
	tx.commit()
	return nil
}
