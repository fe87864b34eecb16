package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextBatchNumber deriva un número de lote determinista cuando el caller no lo
// provee: <CODIGO>-<AAAAMM>-<NNN>, donde NNN es la siguiente secuencia sin usar
// entre los lotes existentes que comparten el mismo prefijo código+mes.
// Ejemplo: PARA500-202601-003.
func NextBatchNumber(productCode string, now time.Time, existing []string) string {
	prefix := fmt.Sprintf("%s-%s-", strings.ToUpper(productCode), now.Format("200601"))

	maxSeq := 0
	for _, number := range existing {
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return fmt.Sprintf("%s%03d", prefix, maxSeq+1)
}
