package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
)

func TestIsLowStock_Fronteras(t *testing.T) {
	product := &entity.Product{ID: "prod-1", ReorderLevel: 10}
	expiry := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		remaining int64
		want      bool
	}{
		{"por debajo del reorden", 5, true},
		{"exactamente en el reorden", 10, true},
		{"por encima del reorden", 11, false},
		{"agotado no es stock bajo", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			batches := []entity.Batch{testBatch("A", tc.remaining, expiry, testNow, 1, 10)}
			assert.Equal(t, tc.want, IsLowStock(product, batches, testNow))
		})
	}
}

func TestIsOutOfStock(t *testing.T) {
	expired := testBatch("V", 7, testNow.AddDate(0, 0, -1), testNow.AddDate(0, -6, 0), 1, 10)
	assert.True(t, IsOutOfStock([]entity.Batch{expired}, testNow),
		"solo stock vencido cuenta como agotado")

	fresh := testBatch("F", 1, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), testNow, 2, 10)
	assert.False(t, IsOutOfStock([]entity.Batch{expired, fresh}, testNow))
}

func TestExpiringSoon_Ventana(t *testing.T) {
	// now = 2025-01-10: un lote que vence el 2025-01-20 entra en la ventana de
	// 30 días; otro que vence el 2025-03-01 queda fuera.
	inside := testBatch("A", 3, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), testNow.AddDate(0, -1, 0), 1, 10)
	outside := testBatch("B", 3, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), testNow.AddDate(0, -1, 0), 2, 10)

	assert.True(t, ExpiringSoon([]entity.Batch{inside}, testNow, 30))
	assert.False(t, ExpiringSoon([]entity.Batch{outside}, testNow, 30))

	soon := BatchesExpiringSoon([]entity.Batch{outside, inside}, testNow, 30)
	assert.Len(t, soon, 1)
	assert.Equal(t, "A", soon[0].ID)
}

func TestExpiringSoon_SinRestanteNoCuenta(t *testing.T) {
	depleted := testBatch("D", 0, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), testNow, 1, 10)
	assert.False(t, ExpiringSoon([]entity.Batch{depleted}, testNow, 30))
}

func TestInventoryValue_ExcluyeVencidos(t *testing.T) {
	fresh := testBatch("F", 10, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), testNow, 1, 2.5)
	expired := testBatch("V", 4, testNow.AddDate(0, 0, -1), testNow.AddDate(0, -6, 0), 2, 3)

	value := InventoryValue([]entity.Batch{fresh, expired}, testNow)
	assert.True(t, value.Equal(decimal.NewFromInt(25)), "valor = 10 × 2.50, el vencido no suma")

	dead := DeadStockValue([]entity.Batch{fresh, expired}, testNow)
	assert.True(t, dead.Equal(decimal.NewFromInt(12)), "stock muerto = 4 × 3.00")
}

func TestAvailableStock(t *testing.T) {
	a := testBatch("A", 5, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), testNow, 1, 10)
	b := testBatch("B", 3, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), testNow, 2, 10)
	expired := testBatch("V", 9, testNow.AddDate(0, 0, -1), testNow, 3, 10)

	assert.Equal(t, int64(8), AvailableStock([]entity.Batch{a, b, expired}, testNow))
}
