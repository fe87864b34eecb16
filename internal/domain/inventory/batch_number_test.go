package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBatchNumber(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("primer lote del mes", func(t *testing.T) {
		got := NextBatchNumber("PARA500", now, nil)
		assert.Equal(t, "PARA500-202501-001", got)
	})

	t.Run("incrementa la secuencia del prefijo", func(t *testing.T) {
		existing := []string{"PARA500-202501-001", "PARA500-202501-002"}
		got := NextBatchNumber("PARA500", now, existing)
		assert.Equal(t, "PARA500-202501-003", got)
	})

	t.Run("ignora otros meses y números manuales", func(t *testing.T) {
		existing := []string{"PARA500-202412-009", "LOTE-FABRICA-77", "PARA500-202501-004"}
		got := NextBatchNumber("PARA500", now, existing)
		assert.Equal(t, "PARA500-202501-005", got)
	})

	t.Run("rellena huecos no: usa max+1", func(t *testing.T) {
		existing := []string{"PARA500-202501-001", "PARA500-202501-007"}
		got := NextBatchNumber("PARA500", now, existing)
		assert.Equal(t, "PARA500-202501-008", got)
	})

	t.Run("código en minúsculas se normaliza", func(t *testing.T) {
		got := NextBatchNumber("para500", now, nil)
		assert.Equal(t, "PARA500-202501-001", got)
	})
}
