package utils

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK accumulates an explicitly assembled operator, entry by entry
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) SetReadOnly(name string) DOK {
	m.readOnly, m.name = true, name
	return m
}

// AddAt sums val into entry (i,j)
func (m DOK) AddAt(i, j int, val float64) {
	m.checkWritable()
	if val == 0 {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

// Asymmetry is the largest |A(i,j) - A(j,i)| over the stored entries
func (m DOK) Asymmetry() (maxDiff float64) {
	m.M.DoNonZero(func(i, j int, v float64) {
		if d := math.Abs(v - m.M.At(j, i)); d > maxDiff {
			maxDiff = d
		}
	})
	return
}

func (m DOK) NNZ() int { return m.M.NNZ() }

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }

// MulVec returns A*x
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		nr, _ = m.Dims()
		yV    = mat.NewVecDense(nr, nil)
	)
	yV.MulVec(m.M, mat.NewVecDense(len(x), x))
	y = yV.RawVector().Data
	return
}
