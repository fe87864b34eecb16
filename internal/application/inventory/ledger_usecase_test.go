package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/farmacia-pro/internal/application/inventory"
	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	"github.com/jhoicas/farmacia-pro/internal/infrastructure/memory"
	"github.com/jhoicas/farmacia-pro/pkg/clock"
)

var (
	testNow   = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	testActor = "user-test"
)

// env agrupa el almacén en memoria y los casos de uso bajo prueba.
type env struct {
	store     *memory.Store
	ledger    *appinv.LedgerUseCase
	allocator *appinv.AllocatorUseCase
	movements *appinv.MovementUseCase
	reconcile *appinv.ReconcileUseCase
	clk       clock.Fixed
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	txRunner := memory.NewTxRunner(store)
	prodRepo := memory.NewProductRepository(store)
	batchRepo := memory.NewBatchRepository(store)
	movRepo := memory.NewStockMovementRepository(store)
	clk := clock.Fixed{T: testNow}

	return &env{
		store:     store,
		ledger:    appinv.NewLedgerUseCase(txRunner, prodRepo, batchRepo, clk),
		allocator: appinv.NewAllocatorUseCase(txRunner, prodRepo, batchRepo, clk, 3),
		movements: appinv.NewMovementUseCase(txRunner, prodRepo, movRepo, clk),
		reconcile: appinv.NewReconcileUseCase(prodRepo, batchRepo, movRepo),
		clk:       clk,
	}
}

func (e *env) seedProduct(t *testing.T, code string, reorderLevel int64) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:           uuid.New().String(),
		Code:         code,
		Name:         code,
		ReorderLevel: reorderLevel,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	require.NoError(t, memory.NewProductRepository(e.store).Create(p))
	return p
}

func (e *env) addBatch(t *testing.T, productID string, number string, qty int64, expiry time.Time, cost, price float64) *entity.Batch {
	t.Helper()
	b, err := e.ledger.AddBatch(context.Background(), testActor, appinv.AddBatchInput{
		ProductID:        productID,
		BatchNumber:      number,
		ExpirationDate:   expiry,
		QuantityReceived: qty,
		UnitCost:         decimal.NewFromFloat(cost),
		SalePrice:        decimal.NewFromFloat(price),
	})
	require.NoError(t, err)
	return b
}

// checkInvariants verifica tras cada operación que el total cacheado iguala la
// suma de restantes por lote y la suma de deltas de movimientos, y que cada
// lote respeta 0 ≤ restante ≤ recibido.
func (e *env) checkInvariants(t *testing.T, productID string) {
	t.Helper()
	product, err := memory.NewProductRepository(e.store).GetByID(productID)
	require.NoError(t, err)
	require.NotNil(t, product)

	batches, err := memory.NewBatchRepository(e.store).ListByProduct(productID)
	require.NoError(t, err)
	var batchTotal int64
	for _, b := range batches {
		assert.GreaterOrEqual(t, b.QuantityRemaining, int64(0), "lote %s con restante negativo", b.BatchNumber)
		assert.LessOrEqual(t, b.QuantityRemaining, b.QuantityReceived, "lote %s por encima de lo recibido", b.BatchNumber)
		batchTotal += b.QuantityRemaining
	}

	movTotal, err := memory.NewStockMovementRepository(e.store).SumDeltasByProduct(productID)
	require.NoError(t, err)

	assert.Equal(t, batchTotal, product.StockQuantity, "total cacheado ≠ Σ restantes")
	assert.Equal(t, batchTotal, movTotal, "Σ movimientos ≠ Σ restantes")
}

func TestAddBatch_RegistraLoteYMovimiento(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)

	expiry := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	batch := e.addBatch(t, p.ID, "L-001", 50, expiry, 100, 140)

	assert.Equal(t, int64(50), batch.QuantityReceived)
	assert.Equal(t, int64(50), batch.QuantityRemaining)
	assert.Equal(t, "L-001", batch.BatchNumber)

	movs, err := e.movements.ListByProduct(p.ID, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypePurchase, movs[0].Type)
	assert.Equal(t, int64(50), movs[0].Quantity)
	assert.Equal(t, batch.ID, movs[0].BatchID)
	assert.Equal(t, testActor, movs[0].CreatedBy)

	e.checkInvariants(t, p.ID)
}

func TestAddBatch_NumeroDerivado(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "IBU400", 5)
	expiry := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	b1 := e.addBatch(t, p.ID, "", 10, expiry, 80, 110)
	b2 := e.addBatch(t, p.ID, "", 10, expiry, 80, 110)

	assert.Equal(t, "IBU400-202501-001", b1.BatchNumber)
	assert.Equal(t, "IBU400-202501-002", b2.BatchNumber)
}

func TestAddBatch_NumeroDuplicado(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)
	expiry := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	e.addBatch(t, p.ID, "L-001", 50, expiry, 100, 140)

	_, err := e.ledger.AddBatch(context.Background(), testActor, appinv.AddBatchInput{
		ProductID:        p.ID,
		BatchNumber:      "L-001",
		ExpirationDate:   expiry,
		QuantityReceived: 20,
		UnitCost:         decimal.NewFromInt(90),
		SalePrice:        decimal.NewFromInt(130),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateBatchNumber)

	// Sin mutación alguna: un solo movimiento, total intacto.
	movs, err := e.movements.ListByProduct(p.ID, nil, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
	product, _ := memory.NewProductRepository(e.store).GetByID(p.ID)
	assert.Equal(t, int64(50), product.StockQuantity)
	e.checkInvariants(t, p.ID)
}

func TestAddBatch_Validaciones(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)

	cases := []struct {
		name string
		in   appinv.AddBatchInput
		want error
	}{
		{
			name: "vencimiento en el pasado",
			in: appinv.AddBatchInput{
				ProductID:        p.ID,
				ExpirationDate:   testNow.AddDate(0, 0, -1),
				QuantityReceived: 10,
			},
			want: domain.ErrInvalidExpiry,
		},
		{
			name: "vencimiento exactamente ahora",
			in: appinv.AddBatchInput{
				ProductID:        p.ID,
				ExpirationDate:   testNow,
				QuantityReceived: 10,
			},
			want: domain.ErrInvalidExpiry,
		},
		{
			name: "recepción en el futuro",
			in: appinv.AddBatchInput{
				ProductID:        p.ID,
				ExpirationDate:   testNow.AddDate(1, 0, 0),
				ReceivedDate:     testNow.AddDate(0, 0, 1),
				QuantityReceived: 10,
			},
			want: domain.ErrInvalidInput,
		},
		{
			name: "cantidad cero",
			in: appinv.AddBatchInput{
				ProductID:        p.ID,
				ExpirationDate:   testNow.AddDate(1, 0, 0),
				QuantityReceived: 0,
			},
			want: domain.ErrInvalidInput,
		},
		{
			name: "costo negativo",
			in: appinv.AddBatchInput{
				ProductID:        p.ID,
				ExpirationDate:   testNow.AddDate(1, 0, 0),
				QuantityReceived: 5,
				UnitCost:         decimal.NewFromInt(-1),
			},
			want: domain.ErrInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.ledger.AddBatch(context.Background(), testActor, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("producto inexistente", func(t *testing.T) {
		_, err := e.ledger.AddBatch(context.Background(), testActor, appinv.AddBatchInput{
			ProductID:        uuid.New().String(),
			ExpirationDate:   testNow.AddDate(1, 0, 0),
			QuantityReceived: 5,
		})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestUpdateBatch_SoloCamposNoCuantitativos(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)
	expiry := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	batch := e.addBatch(t, p.ID, "L-001", 50, expiry, 100, 140)

	newPrice := decimal.NewFromInt(150)
	newNotes := "precio actualizado por proveedor"
	updated, err := e.ledger.UpdateBatch(context.Background(), p.ID, batch.ID, appinv.UpdateBatchInput{
		SalePrice: &newPrice,
		Notes:     &newNotes,
	})
	require.NoError(t, err)
	assert.True(t, updated.SalePrice.Equal(newPrice))
	assert.Equal(t, newNotes, updated.Notes)

	// Las cantidades no cambian por una edición de lote.
	assert.Equal(t, int64(50), updated.QuantityReceived)
	assert.Equal(t, int64(50), updated.QuantityRemaining)
	e.checkInvariants(t, p.ID)
}

func TestUpdateBatch_Errores(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)
	other := e.seedProduct(t, "IBU400", 10)
	expiry := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	batch := e.addBatch(t, p.ID, "L-001", 50, expiry, 100, 140)

	t.Run("vencimiento no futuro", func(t *testing.T) {
		past := testNow.AddDate(0, 0, -1)
		_, err := e.ledger.UpdateBatch(context.Background(), p.ID, batch.ID, appinv.UpdateBatchInput{
			ExpirationDate: &past,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidExpiry)
	})

	t.Run("lote de otro producto", func(t *testing.T) {
		notes := "x"
		_, err := e.ledger.UpdateBatch(context.Background(), other.ID, batch.ID, appinv.UpdateBatchInput{Notes: &notes})
		assert.ErrorIs(t, err, domain.ErrBatchNotFound)
	})

	t.Run("lote inexistente", func(t *testing.T) {
		notes := "x"
		_, err := e.ledger.UpdateBatch(context.Background(), p.ID, uuid.New().String(), appinv.UpdateBatchInput{Notes: &notes})
		assert.ErrorIs(t, err, domain.ErrBatchNotFound)
	})
}

func TestAvailableYExpiredBatches(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)

	later := e.addBatch(t, p.ID, "L-MAR", 10, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 100, 140)
	sooner := e.addBatch(t, p.ID, "L-FEB", 5, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 100, 120)

	available, err := e.ledger.AvailableBatches(p.ID)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, sooner.ID, available[0].ID, "el que vence primero encabeza la lista")
	assert.Equal(t, later.ID, available[1].ID)

	expired, err := e.ledger.ExpiredBatches(p.ID)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestCurrentPrice(t *testing.T) {
	e := newEnv(t)
	p := e.seedProduct(t, "PARA500", 10)

	t.Run("sin lotes", func(t *testing.T) {
		_, err := e.ledger.CurrentPrice(p.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	e.addBatch(t, p.ID, "L-MAR", 10, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 100, 140)
	e.addBatch(t, p.ID, "L-FEB", 5, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 100, 120)

	t.Run("precio del primer lote disponible", func(t *testing.T) {
		price, err := e.ledger.CurrentPrice(p.ID)
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.NewFromInt(120)), "rige el precio del lote que vence primero")
	})

	t.Run("fallback al último precio conocido", func(t *testing.T) {
		// Consumir todo: sin disponibilidad, rige el precio del lote recibido
		// más recientemente.
		_, err := e.allocator.ReduceStock(context.Background(), testActor, appinv.ReduceStockInput{
			ProductID: p.ID,
			Quantity:  15,
			Reason:    entity.MovementTypeSale,
		})
		require.NoError(t, err)

		price, err := e.ledger.CurrentPrice(p.ID)
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.NewFromInt(120)))
	})
}
