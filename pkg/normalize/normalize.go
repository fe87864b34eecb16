// Package normalize pliega tildes y mayúsculas para búsqueda de productos:
// "Acetaminofén" y "acetaminofen" deben encontrar lo mismo.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)), // quita marcas diacríticas
	norm.NFC,
)

// Fold devuelve s en minúsculas y sin diacríticos.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
