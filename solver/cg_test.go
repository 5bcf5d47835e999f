package solver

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type denseOp struct {
	A *mat.SymDense
}

func (d denseOp) Apply(x, y []float64) {
	yV := mat.NewVecDense(len(y), y)
	yV.MulVec(d.A, mat.NewVecDense(len(x), x))
}

func randomSPD(n int, seed int64) (A *mat.SymDense, b []float64) {
	var (
		rng = rand.New(rand.NewSource(seed))
		M   = mat.NewDense(n, n, nil)
	)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			M.Set(i, j, rng.Float64()-0.5)
		}
	}
	A = mat.NewSymDense(n, nil)
	A.SymOuterK(1, M)
	for i := 0; i < n; i++ {
		A.SetSym(i, i, A.At(i, i)+float64(n))
	}
	b = make([]float64, n)
	for i := range b {
		b[i] = rng.Float64() - 0.5
	}
	return
}

// energy gradient at u is A*u + b, starting from u = 0 it is b
func newProblem(n int, seed int64, ProcLimit int) (cg *CG, A *mat.SymDense, b []float64) {
	A, b = randomSPD(n, seed)
	Gb := make([]float64, n)
	copy(Gb, b)
	cg = NewCG(denseOp{A}, make([]float64, n), Gb, 1.e-20, ProcLimit)
	return
}

func TestCG(t *testing.T) {
	{ // Minimizer solves A*u = -b
		cg, A, b := newProblem(40, 1, 1)
		res, err := cg.Relax(Options{Ldemb: 10, Kmax: 40})
		require.NoError(t, err)
		assert.Equal(t, Converged, res.Status)
		assert.True(t, res.Steps <= 60)
		Au := make([]float64, len(b))
		denseOp{A}.Apply(cg.U, Au)
		for i := range b {
			assert.InDelta(t, -b[i], Au[i], 1.e-8)
		}
	}
	{ // Search direction persists across calls, chunked calls match one long call
		cg1, _, _ := newProblem(30, 2, 1)
		cg1.Gtest = 0
		_, err := cg1.Dembx(10, 0)
		require.NoError(t, err)
		cg2, _, _ := newProblem(30, 2, 1)
		cg2.Gtest = 0
		for kkk := 0; kkk < 2; kkk++ {
			steps, err := cg2.Dembx(5, kkk)
			require.NoError(t, err)
			assert.Equal(t, 5, steps)
		}
		assert.Equal(t, cg1.U, cg2.U)
		assert.Equal(t, cg1.GG, cg2.GG)
	}
	{ // Parallel reductions agree with serial to rounding
		cg1, _, _ := newProblem(50, 3, 1)
		cg4, _, _ := newProblem(50, 3, 4)
		_, err := cg1.Relax(Options{Ldemb: 100, Kmax: 1})
		require.NoError(t, err)
		_, err = cg4.Relax(Options{Ldemb: 100, Kmax: 1})
		require.NoError(t, err)
		for i := range cg1.U {
			assert.InDelta(t, cg1.U[i], cg4.U[i], 1.e-9)
		}
	}
	{ // Outer cap exhausted is a status, not an error
		cg, _, _ := newProblem(40, 4, 1)
		var before, after int
		res, err := cg.Relax(Options{Ldemb: 1, Kmax: 3,
			BeforeCall: func(cycle int, gg float64) { before++ },
			AfterCall:  func(cycle, steps int, gg float64) { after++ },
		})
		require.NoError(t, err)
		assert.Equal(t, IterationCap, res.Status)
		assert.Equal(t, 3, res.Steps)
		assert.Equal(t, 3, before)
		assert.Equal(t, 3, after)
	}
	{ // Zero operator with a nonzero gradient is degenerate
		n := 5
		Gb := []float64{1, 0, 0, 0, 0}
		cg := NewCG(denseOp{mat.NewSymDense(n, nil)}, make([]float64, n), Gb, 1.e-12, 1)
		res, err := cg.Relax(Options{Ldemb: 10, Kmax: 2})
		assert.True(t, errors.Is(err, ErrDegenerate))
		assert.Equal(t, Degenerate, res.Status)
		for _, u := range cg.U {
			assert.Equal(t, 0., u)
		}
	}
	{ // Zero gradient converges without a step
		n := 5
		cg := NewCG(denseOp{mat.NewSymDense(n, nil)}, make([]float64, n), make([]float64, n), 1.e-12, 1)
		res, err := cg.Relax(Options{Ldemb: 10, Kmax: 2})
		require.NoError(t, err)
		assert.Equal(t, Converged, res.Status)
		assert.Equal(t, 0, res.Steps)
	}
	assert.Panics(t, func() { NewCG(nil, make([]float64, 2), make([]float64, 3), 0, 1) })
}
