package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
)

var testNow = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func testBatch(id string, remaining int64, expiry, received time.Time, position int64, cost float64) entity.Batch {
	return entity.Batch{
		ID:                id,
		ProductID:         "prod-1",
		BatchNumber:       "LOTE-" + id,
		ExpirationDate:    expiry,
		ReceivedDate:      received,
		QuantityReceived:  remaining,
		QuantityRemaining: remaining,
		UnitCost:          decimal.NewFromFloat(cost),
		SalePrice:         decimal.NewFromFloat(cost * 1.4),
		Position:          position,
	}
}

func TestPlanConsumption_RepartoFIFO(t *testing.T) {
	// A vence primero (5 unidades), B después (10 unidades); pedir 7 debe
	// agotar A y tomar 2 de B.
	a := testBatch("A", 5, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), testNow.AddDate(0, -2, 0), 1, 100)
	b := testBatch("B", 10, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), testNow.AddDate(0, -1, 0), 2, 120)

	plan, err := PlanConsumption([]entity.Batch{b, a}, 7, testNow)
	require.NoError(t, err)

	require.Len(t, plan.Consumed, 2)
	assert.Equal(t, "A", plan.Consumed[0].BatchID)
	assert.Equal(t, int64(5), plan.Consumed[0].Quantity)
	assert.Equal(t, "B", plan.Consumed[1].BatchID)
	assert.Equal(t, int64(2), plan.Consumed[1].Quantity)

	assert.Equal(t, int64(0), plan.NewRemaining["A"])
	assert.Equal(t, int64(8), plan.NewRemaining["B"])

	// El costo viaja con cada consumo (mismo snapshot para costeo y decremento).
	assert.True(t, plan.Consumed[0].UnitCost.Equal(decimal.NewFromInt(100)))
	assert.True(t, plan.Consumed[1].UnitCost.Equal(decimal.NewFromInt(120)))
	assert.True(t, plan.Consumed[0].TotalCost().Equal(decimal.NewFromInt(500)))
}

func TestPlanConsumption_Determinista(t *testing.T) {
	// Mismo snapshot → mismo reparto, sin importar el orden de entrada.
	expiry := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	received := testNow.AddDate(0, -1, 0)
	a := testBatch("A", 6, expiry, received, 1, 90)
	b := testBatch("B", 6, expiry, received, 2, 95)

	for i := 0; i < 5; i++ {
		plan, err := PlanConsumption([]entity.Batch{b, a}, 8, testNow)
		require.NoError(t, err)
		require.Len(t, plan.Consumed, 2)
		// Fechas idénticas: decide el orden de inserción (Position).
		assert.Equal(t, "A", plan.Consumed[0].BatchID)
		assert.Equal(t, int64(6), plan.Consumed[0].Quantity)
		assert.Equal(t, "B", plan.Consumed[1].BatchID)
		assert.Equal(t, int64(2), plan.Consumed[1].Quantity)
	}
}

func TestPlanConsumption_StockInsuficiente(t *testing.T) {
	a := testBatch("A", 5, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), testNow, 1, 100)
	b := testBatch("B", 3, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), testNow, 2, 100)

	plan, err := PlanConsumption([]entity.Batch{a, b}, 100, testNow)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, plan, "no debe haber plan parcial")

	// Los lotes de entrada no se mutan.
	assert.Equal(t, int64(5), a.QuantityRemaining)
	assert.Equal(t, int64(3), b.QuantityRemaining)
}

func TestPlanConsumption_IgnoraVencidosYAgotados(t *testing.T) {
	expired := testBatch("V", 50, testNow.AddDate(0, 0, -1), testNow.AddDate(0, -6, 0), 1, 80)
	depleted := testBatch("D", 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), testNow, 2, 80)
	fresh := testBatch("F", 4, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), testNow, 3, 80)

	plan, err := PlanConsumption([]entity.Batch{expired, depleted, fresh}, 4, testNow)
	require.NoError(t, err)
	require.Len(t, plan.Consumed, 1)
	assert.Equal(t, "F", plan.Consumed[0].BatchID)

	_, err = PlanConsumption([]entity.Batch{expired, depleted, fresh}, 5, testNow)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"el vencido no cuenta para la disponibilidad aunque tenga restante")
}

func TestPlanConsumption_CantidadInvalida(t *testing.T) {
	a := testBatch("A", 5, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), testNow, 1, 100)
	_, err := PlanConsumption([]entity.Batch{a}, 0, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = PlanConsumption([]entity.Batch{a}, -3, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCanFulfill(t *testing.T) {
	a := testBatch("A", 5, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), testNow, 1, 100)
	b := testBatch("B", 3, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), testNow, 2, 100)
	batches := []entity.Batch{a, b}

	assert.True(t, CanFulfill(batches, 8, testNow))
	assert.False(t, CanFulfill(batches, 9, testNow))
	assert.False(t, CanFulfill(batches, 0, testNow))
}

func TestSortForAllocation_OrdenTotal(t *testing.T) {
	sameExpiry := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	sameReceived := testNow.AddDate(0, -1, 0)

	c := testBatch("C", 1, sameExpiry, sameReceived, 3, 10)
	a := testBatch("A", 1, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), sameReceived, 5, 10)
	b := testBatch("B", 1, sameExpiry, sameReceived.AddDate(0, 0, -3), 4, 10)
	d := testBatch("D", 1, sameExpiry, sameReceived, 2, 10)

	batches := []entity.Batch{c, a, b, d}
	SortForAllocation(batches)

	// A por vencimiento; B por recepción; D antes que C por posición.
	ids := []string{batches[0].ID, batches[1].ID, batches[2].ID, batches[3].ID}
	assert.Equal(t, []string{"A", "B", "D", "C"}, ids)
}
