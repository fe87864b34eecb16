package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/farmacia-pro/internal/application/inventory"
	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
	"github.com/jhoicas/farmacia-pro/internal/infrastructure/memory"
	"github.com/jhoicas/farmacia-pro/pkg/clock"
)

func TestReduceStock_ConsumeFIFOEntreLotes(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)

	// A vence antes que B: 7 unidades deben salir 5 de A y 2 de B.
	batchA := e.addBatch(t, p.ID, "L-A", 5, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 100, 140)
	batchB := e.addBatch(t, p.ID, "L-B", 10, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 120, 160)

	consumed, err := e.allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
		ProductID:     p.ID,
		Quantity:      7,
		Reason:        entity.MovementTypeSale,
		ReferenceType: entity.ReferenceTypeOrder,
		ReferenceID:   "order-1",
	})
	require.NoError(t, err)
	require.Len(t, consumed, 2)
	assert.Equal(t, batchA.ID, consumed[0].BatchID)
	assert.Equal(t, int64(5), consumed[0].Quantity)
	assert.Equal(t, batchB.ID, consumed[1].BatchID)
	assert.Equal(t, int64(2), consumed[1].Quantity)

	// Costo del plan: 5×100 + 2×120.
	planCost := decimal.Zero
	for _, c := range consumed {
		planCost = planCost.Add(c.TotalCost())
	}
	assert.True(t, planCost.Equal(decimal.NewFromInt(740)))

	// Un movimiento negativo por lote afectado, enlazado al documento origen.
	movs, err := e.movements.ListByProduct(p.ID, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 4) // 2 compras + 2 salidas
	var outs []*entity.StockMovement
	for _, m := range movs {
		if m.Type == entity.MovementTypeSale {
			outs = append(outs, m)
		}
	}
	require.Len(t, outs, 2)
	for _, m := range outs {
		assert.Negative(t, m.Quantity)
		assert.Equal(t, entity.ReferenceTypeOrder, m.ReferenceType)
		assert.Equal(t, "order-1", m.ReferenceID)
		assert.Equal(t, testActor, m.CreatedBy)
	}

	product, _ := memory.NewProductRepository(e.store).GetByID(p.ID)
	assert.Equal(t, int64(8), product.StockQuantity)
	e.checkInvariants(t, p.ID)
}

func TestReduceStock_InsuficienteNoMuta(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)
	e.addBatch(t, p.ID, "L-A", 5, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 100, 140)

	_, err := e.allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
		ProductID: p.ID,
		Quantity:  6,
		Reason:    entity.MovementTypeSale,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni los lotes ni el libro registran nada de una asignación fallida.
	product, _ := memory.NewProductRepository(e.store).GetByID(p.ID)
	assert.Equal(t, int64(5), product.StockQuantity)
	movs, _ := e.movements.ListByProduct(p.ID, nil, nil, 10, 0)
	assert.Len(t, movs, 1)
	e.checkInvariants(t, p.ID)
}

func TestReduceStock_IgnoraVencidos(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)

	// El lote vencido se siembra directo en el repositorio: AddBatch rechaza
	// vencimientos pasados.
	expiredBatch := &entity.Batch{
		ID:                "batch-expired",
		ProductID:         p.ID,
		BatchNumber:       "L-VENCIDO",
		ExpirationDate:    testNow.AddDate(0, -1, 0),
		ReceivedDate:      testNow.AddDate(0, -6, 0),
		QuantityReceived:  20,
		QuantityRemaining: 20,
		UnitCost:          decimal.NewFromInt(90),
		SalePrice:         decimal.NewFromInt(130),
	}
	require.NoError(t, memory.NewBatchRepository(e.store).Create(expiredBatch))

	fresh := e.addBatch(t, p.ID, "L-FRESCO", 5, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 100, 140)

	_, err := e.allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
		ProductID: p.ID,
		Quantity:  6,
		Reason:    entity.MovementTypeSale,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "lo vencido no cubre demanda")

	consumed, err := e.allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
		ProductID: p.ID,
		Quantity:  5,
		Reason:    entity.MovementTypePOSSale,
	})
	require.NoError(t, err)
	require.Len(t, consumed, 1)
	assert.Equal(t, fresh.ID, consumed[0].BatchID)

	// El restante del lote vencido sigue contando en el total cacheado.
	product, _ := memory.NewProductRepository(e.store).GetByID(p.ID)
	assert.Equal(t, int64(20), product.StockQuantity)
}

func TestReduceStock_Validaciones(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)
	e.addBatch(t, p.ID, "L-A", 5, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 100, 140)

	t.Run("cantidad no positiva", func(t *testing.T) {
		_, err := e.allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
			ProductID: p.ID, Quantity: 0, Reason: entity.MovementTypeSale,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("motivo de entrada rechazado", func(t *testing.T) {
		_, err := e.allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
			ProductID: p.ID, Quantity: 1, Reason: entity.MovementTypePurchase,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("producto inexistente", func(t *testing.T) {
		_, err := e.allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
			ProductID: "no-existe", Quantity: 1, Reason: entity.MovementTypeSale,
		})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestCanFulfill(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)
	e.addBatch(t, p.ID, "L-A", 5, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 100, 140)

	ok, err := e.allocator.CanFulfill(p.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.allocator.CanFulfill(p.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)
}

// Ventas concurrentes sobre el mismo producto: todas deben completarse con
// reintentos acotados y el total final debe ser exacto, sin dobles asignaciones
// ni restantes negativos.
func TestReduceStock_VentasConcurrentes(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)
	e.addBatch(t, p.ID, "L-A", 30, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 100, 140)
	e.addBatch(t, p.ID, "L-B", 30, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 110, 150)

	// Reintentos amplios: aquí se prueba exactitud bajo contención, no el
	// agotamiento del presupuesto.
	allocator := appinv.NewAllocatorUseCase(
		memory.NewTxRunner(e.store),
		memory.NewProductRepository(e.store),
		memory.NewBatchRepository(e.store),
		clock.Fixed{T: testNow},
		50,
	)

	const workers = 6
	const perWorker = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
				ProductID: p.ID,
				Quantity:  perWorker,
				Reason:    entity.MovementTypePOSSale,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	product, _ := memory.NewProductRepository(e.store).GetByID(p.ID)
	assert.Equal(t, int64(0), product.StockQuantity)
	e.checkInvariants(t, p.ID)

	// Nada más que vender.
	_, err := allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
		ProductID: p.ID, Quantity: 1, Reason: entity.MovementTypePOSSale,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Con el candado del producto retenido por otra transacción y un solo intento
// permitido, la reducción debe rendirse con ErrConcurrentModification.
func TestReduceStock_ReintentosAgotados(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)
	e.addBatch(t, p.ID, "L-A", 10, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 100, 140)

	allocator := appinv.NewAllocatorUseCase(
		memory.NewTxRunner(e.store),
		memory.NewProductRepository(e.store),
		memory.NewBatchRepository(e.store),
		clock.Fixed{T: testNow},
		1,
	)

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- memory.NewTxRunner(e.store).Run(context.Background(), func(
			prodRepo repository.ProductRepository,
			_ repository.BatchRepository,
			_ repository.StockMovementRepository,
		) error {
			if _, err := prodRepo.GetForUpdate(p.ID); err != nil {
				return err
			}
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding
	_, err := allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
		ProductID: p.ID, Quantity: 1, Reason: entity.MovementTypeSale,
	})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	close(release)
	require.NoError(t, <-done)

	// Liberado el candado, la misma operación prospera.
	_, err = allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
		ProductID: p.ID, Quantity: 1, Reason: entity.MovementTypeSale,
	})
	require.NoError(t, err)
	e.checkInvariants(t, p.ID)
}
