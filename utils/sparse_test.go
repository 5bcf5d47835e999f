package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDOK(t *testing.T) {
	A := NewDOK(3, 3)
	A.AddAt(0, 0, 2)
	A.AddAt(0, 0, 1)
	A.AddAt(0, 1, -1)
	A.AddAt(1, 0, -1)
	A.AddAt(2, 2, 4)
	A.AddAt(1, 2, 0)
	assert.Equal(t, 3., A.At(0, 0))
	assert.Equal(t, 4, A.NNZ())
	assert.Equal(t, 0., A.Asymmetry())
	A.AddAt(2, 1, 0.5)
	assert.Equal(t, 0.5, A.Asymmetry())
	y := A.ToCSR().MulVec([]float64{1, 2, 3})
	assert.Equal(t, []float64{1, -1, 13}, y)
	ro := A.SetReadOnly("A")
	assert.Panics(t, func() { ro.AddAt(0, 0, 1) })
}
