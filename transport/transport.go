package transport

import (
	"fmt"
	"io"

	"github.com/jwbullard/VCCTL-sub001/material"
	"github.com/jwbullard/VCCTL-sub001/types"
	"github.com/jwbullard/VCCTL-sub001/utils"
	"github.com/jwbullard/VCCTL-sub001/voxel"
)

// Field is the applied macroscopic electric field, voltage drop per voxel
type Field [3]float64

var DefaultField = Field{1, 1, 1}

type Config struct {
	Ldemb     int     // Conjugate gradient steps per outer call
	Kmax      int     // Outer calls
	GtestEps  float64 // Convergence when gg < GtestEps * voxels
	ProcLimit int     // Go routines, 0 uses every CPU
	LayerAxis int     // Axis of the layer averages, -1 disables them
	Log       io.Writer
	Progress  func(cycle, maxcycle int, gg float64)
}

func DefaultConfig() Config {
	return Config{
		Ldemb:     8000,
		Kmax:      1,
		GtestEps:  5.e-9,
		LayerAxis: -1,
		Log:       io.Discard,
	}
}

/*
	Transport is the conductor network of one microstructure. Voltages live on
	the real grid, the operator works on a copy padded with one guard layer on
	every face. A guard holds the voltage of the opposite real face, shifted by
	the macroscopic field when the gradient is wanted.

	Bond conductances are stored at the lower end of each bond on the padded
	grid. The last real layer bonds into the right guard, and the left guard
	carries a copy of that same periodic bond. All other guard bonds are zero
	so no current runs through the guard layers.
*/
type Transport struct {
	Cfg    Config
	MS     *voxel.Microstructure
	Model  *material.ConductivityModel
	PM     *utils.PartitionMap
	Pad    voxel.Grid
	stride [3]int
	Bond   [3][]float64
	V      []float64 // Padded scratch
	Field  Field
	U      []float64 // Voltages
	Gb     []float64 // Energy gradient, the net current out of each voxel
}

func NewTransport(ms *voxel.Microstructure, model *material.ConductivityModel, cfg Config) (tr *Transport) {
	var (
		g   = ms.Grid
		pad = voxel.Grid{Nx: g.Nx + 2, Ny: g.Ny + 2, Nz: g.Nz + 2}
	)
	if cfg.Log == nil {
		cfg.Log = io.Discard
	}
	tr = &Transport{
		Cfg:    cfg,
		MS:     ms,
		Model:  model,
		PM:     utils.NewVoxelPartitions(cfg.ProcLimit, g.N()),
		Pad:    pad,
		stride: [3]int{1, pad.Nx, pad.Nxy()},
		V:      make([]float64, pad.N()),
		U:      make([]float64, g.N()),
		Gb:     make([]float64, g.N()),
	}
	for axis := 0; axis < 3; axis++ {
		tr.Bond[axis] = make([]float64, pad.N())
	}
	tr.bond()
	return
}

func (tr *Transport) Gtest() float64 {
	return tr.Cfg.GtestEps * float64(tr.MS.Grid.N())
}

func (tr *Transport) padIndex(c voxel.Coordinate) int {
	return (c.K+1)*tr.stride[2] + (c.J+1)*tr.stride[1] + c.I + 1
}

// bond sets the conductance between every voxel and its positive neighbor
func (tr *Transport) bond() {
	var (
		g   = tr.MS.Grid
		pix = tr.MS.Pix
		be  = &tr.Model.Be
	)
	for m := 0; m < g.N(); m++ {
		var (
			c = g.Coordinate(m)
			p = tr.padIndex(c)
		)
		for axis := 0; axis < 3; axis++ {
			n := g.Step(m, axis, 1)
			s := be[pix[m]][pix[n]][axis]
			tr.Bond[axis][p] = s
			if L := g.Size(axis); c.Axis(axis) == L-1 {
				tr.Bond[axis][p-L*tr.stride[axis]] = s
			}
		}
	}
}

// fill copies x into the padded scratch and refreshes the guards. With jumps
// the guards see the voltage offset of the applied field across the period.
func (tr *Transport) fill(x []float64, jumps bool) {
	var (
		g = tr.MS.Grid
		V = tr.V
	)
	tr.PM.Run(func(np, kMin, kMax int) {
		for m := kMin; m < kMax; m++ {
			var (
				c = g.Coordinate(m)
				p = tr.padIndex(c)
			)
			V[p] = x[m]
			for axis := 0; axis < 3; axis++ {
				var (
					L     = g.Size(axis)
					shift float64
				)
				if jumps {
					shift = tr.Field[axis] * float64(L)
				}
				if c.Axis(axis) == 0 {
					V[p+L*tr.stride[axis]] = x[m] - shift
				}
				if c.Axis(axis) == L-1 {
					V[p-L*tr.stride[axis]] = x[m] + shift
				}
			}
		}
	})
}

// netCurrent is the current leaving voxel m through its six bonds, read from
// the padded scratch
func (tr *Transport) netCurrent(m int) (sum float64) {
	var (
		V = tr.V
		p = tr.padIndex(tr.MS.Grid.Coordinate(m))
	)
	for axis := 0; axis < 3; axis++ {
		var (
			s  = tr.stride[axis]
			gb = tr.Bond[axis]
		)
		sum += gb[p]*(V[p]-V[p+s]) + gb[p-s]*(V[p]-V[p-s])
	}
	return
}

// Apply evaluates y = A*x, the net current out of each voxel for voltages x
// without any applied field
func (tr *Transport) Apply(x, y []float64) {
	tr.fill(x, false)
	tr.PM.Run(func(np, kMin, kMax int) {
		for m := kMin; m < kMax; m++ {
			y[m] = tr.netCurrent(m)
		}
	})
}

// SetField fixes the applied field, sets the affine voltage V = -E.x and its
// gradient
func (tr *Transport) SetField(f Field) {
	g := tr.MS.Grid
	tr.Field = f
	for m := range tr.U {
		c := g.Coordinate(m)
		tr.U[m] = -(f[0]*float64(c.I) + f[1]*float64(c.J) + f[2]*float64(c.K))
	}
	tr.Gradient()
}

func (tr *Transport) Gradient() {
	tr.fill(tr.U, true)
	tr.PM.Run(func(np, kMin, kMax int) {
		for m := kMin; m < kMax; m++ {
			tr.Gb[m] = tr.netCurrent(m)
		}
	})
}

// current runs through the positive bonds of voxel m, read from a scratch
// filled with the field jumps
func (tr *Transport) current(m int) (J [3]float64) {
	var (
		V = tr.V
		p = tr.padIndex(tr.MS.Grid.Coordinate(m))
	)
	for axis := 0; axis < 3; axis++ {
		s := tr.stride[axis]
		J[axis] = tr.Bond[axis][p] * (V[p] - V[p+s])
	}
	return
}

// Energy is half the dissipated power, sum of s*dV*dV/2 over every bond
func (tr *Transport) Energy() (utot float64) {
	tr.fill(tr.U, true)
	utot = tr.PM.Sum(func(kMin, kMax int) (sum float64) {
		for m := kMin; m < kMax; m++ {
			p := tr.padIndex(tr.MS.Grid.Coordinate(m))
			for axis := 0; axis < 3; axis++ {
				dV := tr.V[p] - tr.V[p+tr.stride[axis]]
				sum += 0.5 * tr.Bond[axis][p] * dV * dV
			}
		}
		return
	})
	return
}

func (tr *Transport) PrintInitialization() {
	var (
		w    = tr.Cfg.Log
		frac = tr.MS.PhaseFractions()
	)
	fmt.Fprintf(w, "Transport solution on a %s voxel grid, resolution %5.2f um\n", tr.MS.Grid, tr.MS.Resolution)
	fmt.Fprintf(w, "Using %d go routines in parallel\n", tr.PM.ParallelDegree)
	fmt.Fprintf(w, "Steps per call = %d, max calls = %d, gtest = %11.4e\n", tr.Cfg.Ldemb, tr.Cfg.Kmax, tr.Gtest())
	for p, f := range frac {
		if f < tr.MS.Threshold() {
			continue
		}
		s := tr.Model.Sigma[p]
		fmt.Fprintf(w, "%12s %8.5f   sigma = %10.4e %10.4e %10.4e\n", types.Phase(p).Print(), f, s[0], s[1], s[2])
	}
}
