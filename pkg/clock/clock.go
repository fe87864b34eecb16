// Package clock abstrae "ahora" para que las comparaciones de vencimiento sean
// deterministas en tests. Todo el motor de inventario recibe un Clock inyectado
// en lugar de llamar time.Now directamente.
package clock

import "time"

// Clock provee el instante actual.
type Clock interface {
	Now() time.Time
}

// System usa el reloj del sistema en UTC.
type System struct{}

// Now devuelve time.Now() en UTC.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed es un reloj congelado para tests.
type Fixed struct {
	T time.Time
}

// Now devuelve siempre el mismo instante.
func (f Fixed) Now() time.Time { return f.T }
