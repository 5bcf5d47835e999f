package transport

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwbullard/VCCTL-sub001/material"
	"github.com/jwbullard/VCCTL-sub001/solver"
	"github.com/jwbullard/VCCTL-sub001/types"
	"github.com/jwbullard/VCCTL-sub001/voxel"
)

func tightConfig() (cfg Config) {
	cfg = DefaultConfig()
	cfg.GtestEps = 1.e-22
	cfg.ProcLimit = 2
	return
}

func newTestTransport(t *testing.T, ms *voxel.Microstructure, cfg Config) (tr *Transport) {
	model, err := material.NewConductivityModel(nil)
	require.NoError(t, err)
	return NewTransport(ms, model, cfg)
}

// layered stacks the phases along x, one voxel layer per entry, repeated
func layered(t *testing.T, g voxel.Grid, stack ...types.Phase) (ms *voxel.Microstructure) {
	pix := make([]types.Phase, g.N())
	for m := range pix {
		pix[m] = stack[g.Coordinate(m).I%len(stack)]
	}
	ms, err := voxel.NewMicrostructure(g, pix)
	require.NoError(t, err)
	return
}

func randomPaste(t *testing.T, g voxel.Grid, seed int64) (ms *voxel.Microstructure) {
	var (
		rng    = rand.New(rand.NewSource(seed))
		phases = []types.Phase{types.POROSITY, types.CSH, types.CH}
		pix    = make([]types.Phase, g.N())
	)
	for m := range pix {
		pix[m] = phases[rng.Intn(len(phases))]
	}
	ms, err := voxel.NewMicrostructure(g, pix)
	require.NoError(t, err)
	return
}

func TestBonds(t *testing.T) {
	var (
		g  = voxel.Grid{Nx: 3, Ny: 2, Nz: 2}
		ms = layered(t, g, types.POROSITY, types.CSH, types.CH)
		tr = newTestTransport(t, ms, DefaultConfig())
		at = func(i, j, k int) int { return tr.padIndex(voxel.Coordinate{I: i, J: j, K: k}) }
	)
	{ // Harmonic mean between conductors, open next to an insulator
		assert.InDelta(t, 1./(0.5+0.5/0.0025), tr.Bond[0][at(0, 0, 0)], 1.e-15)
		assert.Equal(t, 0., tr.Bond[0][at(1, 0, 0)])
		assert.Equal(t, 0., tr.Bond[0][at(2, 0, 0)])
		assert.Equal(t, 1., tr.Bond[1][at(0, 1, 1)])
		assert.InDelta(t, 0.0025, tr.Bond[2][at(1, 1, 1)], 1.e-15)
	}
	{ // The left guard repeats the periodic bond, the right guard carries none
		assert.Equal(t, tr.Bond[1][at(0, 1, 0)], tr.Bond[1][at(0, -1, 0)])
		assert.Equal(t, tr.Bond[0][at(2, 1, 0)], tr.Bond[0][at(-1, 1, 0)])
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				for axis := 0; axis < 3; axis++ {
					assert.Equal(t, 0., tr.Bond[axis][at(g.Nx, j, k)])
				}
				assert.Equal(t, 0., tr.Bond[1][at(-1, j, k)])
			}
		}
	}
}

func TestAssembledOperator(t *testing.T) {
	var (
		g   = voxel.Grid{Nx: 4, Ny: 3, Nz: 2}
		ms  = randomPaste(t, g, 9)
		tr  = newTestTransport(t, ms, tightConfig())
		rng = rand.New(rand.NewSource(4))
		x   = make([]float64, g.N())
		y   = make([]float64, g.N())
	)
	for i := range x {
		x[i] = rng.Float64() - 0.5
	}
	A := tr.Assemble()
	assert.Equal(t, 0., A.Asymmetry())
	tr.Apply(x, y)
	yA := A.ToCSR().MulVec(x)
	for i := range y {
		assert.InDelta(t, yA[i], y[i], 1.e-12)
	}
	{ // Constant voltages carry no current
		for i := range x {
			x[i] = 3
		}
		tr.Apply(x, y)
		for i := range y {
			assert.InDelta(t, 0., y[i], 1.e-12)
		}
	}
}

func TestUniformConductor(t *testing.T) {
	var (
		g   = voxel.Grid{Nx: 3, Ny: 4, Nz: 5}
		ms  = voxel.NewUniform(g, types.POROSITY)
		log bytes.Buffer
		cfg = DefaultConfig()
	)
	cfg.Log = &log
	tr := newTestTransport(t, ms, cfg)
	tr.SetField(Field{1, 0.5, 2})
	for _, gb := range tr.Gb {
		assert.InDelta(t, 0., gb, 1.e-12)
	}
	res, err := tr.Run(Field{1, 0.5, 2})
	require.NoError(t, err)
	assert.Equal(t, solver.Converged, res.Status)
	assert.Equal(t, 0, res.Steps)
	for axis := 0; axis < 3; axis++ {
		assert.InDelta(t, 1., res.Sigma[axis], 1.e-12)
		assert.InDelta(t, 1., res.Formation[axis], 1.e-12)
	}
	assert.InDelta(t, 1., res.FormationMean, 1.e-12)
	assert.False(t, res.Degenerate)
	// Dissipation of a uniform field, s*E*E/2 per voxel
	assert.InDelta(t, 0.5*(1+0.25+4)*float64(g.N()), res.Energy, 1.e-9)
	assert.Contains(t, log.String(), "Transport solution on a 3 x 4 x 5")
	assert.NotEmpty(t, res.RunID)
}

func TestLaminate(t *testing.T) {
	var (
		g   = voxel.Grid{Nx: 3, Ny: 2, Nz: 2}
		ms  = layered(t, g, types.POROSITY, types.POROSITY, types.CSH)
		cfg = tightConfig()
	)
	cfg.LayerAxis = 0
	tr := newTestTransport(t, ms, cfg)
	res, err := tr.Run(DefaultField)
	require.NoError(t, err)
	require.Equal(t, solver.Converged, res.Status)
	var (
		mixed    = material.BondConductance(1, 0.0025)
		series   = 3. / (1 + 2/mixed)
		parallel = (2 + 0.0025) / 3.
	)
	assert.InEpsilon(t, series, res.Sigma[0], 1.e-8)
	assert.InEpsilon(t, parallel, res.Sigma[1], 1.e-8)
	assert.InEpsilon(t, parallel, res.Sigma[2], 1.e-8)
	assert.InEpsilon(t, 1/series, res.Formation[0], 1.e-8)
	{ // Phase contributions add up to the total
		var sum [3]float64
		for _, pc := range res.Phases {
			for axis := 0; axis < 3; axis++ {
				sum[axis] += pc.Sigma[axis]
			}
		}
		for axis := 0; axis < 3; axis++ {
			assert.InEpsilon(t, res.Sigma[axis], sum[axis], 1.e-10)
		}
	}
	{ // Series current is the same in every layer, parallel current follows the phase
		require.Len(t, res.Layers, 3)
		assert.False(t, res.AggregateLayered)
		for _, l := range res.Layers {
			assert.InEpsilon(t, series, l.Sigma[0], 1.e-8)
			assert.Equal(t, float64(l.Index), l.Distance)
		}
		assert.InEpsilon(t, 1., res.Layers[0].Sigma[1], 1.e-8)
		assert.InEpsilon(t, 0.0025, res.Layers[2].Sigma[1], 1.e-8)
	}
}

func TestAggregateLayer(t *testing.T) {
	var (
		g   = voxel.Grid{Nx: 4, Ny: 3, Nz: 3}
		ms  = layered(t, g, types.AGG, types.POROSITY, types.POROSITY, types.POROSITY)
		cfg = tightConfig()
	)
	cfg.LayerAxis = 0
	tr := newTestTransport(t, ms, cfg)
	res, err := tr.Run(Field{0, 1, 0})
	require.NoError(t, err)
	assert.True(t, res.AggregateLayered)
	assert.Equal(t, [3]bool{false, true, false}, res.Loaded)
	assert.Equal(t, 0., res.Sigma[0])
	assert.InEpsilon(t, 0.75, res.Sigma[1], 1.e-10)
	assert.InEpsilon(t, 0.75, res.SigmaMean, 1.e-10)
	require.Len(t, res.Layers, 4)
	assert.Equal(t, []float64{0, 1, 2, 1},
		[]float64{res.Layers[0].Distance, res.Layers[1].Distance, res.Layers[2].Distance, res.Layers[3].Distance})
	assert.Equal(t, 0., res.Layers[0].Mean)
	assert.InEpsilon(t, 1., res.Layers[2].Mean, 1.e-10)
}

func TestInsulator(t *testing.T) {
	var (
		g  = voxel.Grid{Nx: 2, Ny: 2, Nz: 2}
		ms = voxel.NewUniform(g, types.CH)
	)
	tr := newTestTransport(t, ms, DefaultConfig())
	res, err := tr.Run(DefaultField)
	require.NoError(t, err)
	assert.Equal(t, solver.Converged, res.Status)
	assert.Equal(t, [3]float64{}, res.Sigma)
	assert.Equal(t, [3]float64{}, res.Formation)
	assert.True(t, res.Degenerate)
}

func TestRelaxation(t *testing.T) {
	var (
		g  = voxel.Grid{Nx: 5, Ny: 4, Nz: 4}
		ms = randomPaste(t, g, 21)
	)
	{ // Dissipation never rises along the conjugate gradient path
		tr := newTestTransport(t, ms, tightConfig())
		tr.SetField(DefaultField)
		cg := solver.NewCG(tr, tr.U, tr.Gb, tr.Gtest(), 1)
		last := tr.Energy()
		for kkk := 0; kkk < 30; kkk++ {
			_, err := cg.Dembx(1, kkk)
			require.NoError(t, err)
			en := tr.Energy()
			assert.LessOrEqual(t, en, last+1.e-10*math.Abs(last))
			last = en
		}
		tracked := append([]float64(nil), tr.Gb...)
		tr.Gradient()
		for i := range tracked {
			assert.InDelta(t, tr.Gb[i], tracked[i], 1.e-10)
		}
	}
	{ // One short call leaves the run unconverged
		cfg := tightConfig()
		cfg.Ldemb = 2
		var calls int
		cfg.Progress = func(cycle, maxcycle int, gg float64) { calls++ }
		res, err := newTestTransport(t, ms, cfg).Run(DefaultField)
		require.NoError(t, err)
		assert.Equal(t, solver.IterationCap, res.Status)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 2, res.Steps)
	}
	{ // Parallel and serial runs agree
		cfg := tightConfig()
		cfg.ProcLimit = 1
		serial, err := newTestTransport(t, ms, cfg).Run(DefaultField)
		require.NoError(t, err)
		cfg.ProcLimit = 3
		parallel, err := newTestTransport(t, ms, cfg).Run(DefaultField)
		require.NoError(t, err)
		for axis := 0; axis < 3; axis++ {
			assert.InDelta(t, serial.Sigma[axis], parallel.Sigma[axis], 1.e-10)
		}
	}
}
