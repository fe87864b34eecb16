package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "acetaminofen", Fold("Acetaminofén"))
	assert.Equal(t, "ibuprofeno 400mg", Fold("Ibuprofeno 400MG"))
	assert.Equal(t, "nino", Fold("NIÑO"))
	assert.Equal(t, "", Fold(""))
}
