package elastic

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"

	"github.com/jwbullard/VCCTL-sub001/material"
	"github.com/jwbullard/VCCTL-sub001/types"
	"github.com/jwbullard/VCCTL-sub001/utils"
	"github.com/jwbullard/VCCTL-sub001/voxel"
)

// Strain in Voigt order xx,yy,zz,yz,xz,xy with engineering shear components
type Strain [6]float64

const (
	XX = iota
	YY
	ZZ
	YZ
	XZ
	XY
)

var VoigtPrintNames = [6]string{"xx", "yy", "zz", "yz", "xz", "xy"}

// Tensor returns the symmetric strain tensor
func (s Strain) Tensor() (e [3][3]float64) {
	e[0][0], e[1][1], e[2][2] = s[XX], s[YY], s[ZZ]
	e[1][2], e[2][1] = s[YZ]/2, s[YZ]/2
	e[0][2], e[2][0] = s[XZ]/2, s[XZ]/2
	e[0][1], e[1][0] = s[XY]/2, s[XY]/2
	return
}

type Config struct {
	Ldemb     int     // Conjugate gradient steps per outer call
	Kmax      int     // Outer calls per loading case
	GtestEps  float64 // Convergence when gg < GtestEps * voxels
	ProcLimit int     // Go routines, 0 uses every CPU
	LayerAxis int     // Axis of the layer averages, -1 disables them
	Log       io.Writer
	// Progress runs ahead of every outer call
	Progress func(cycle, maxcycle int, gg float64)
}

func DefaultConfig() Config {
	return Config{
		Ldemb:     100,
		Kmax:      40,
		GtestEps:  1.e-7,
		LayerAxis: -1,
		Log:       io.Discard,
	}
}

// Elastic owns the displacement field and operator of one microstructure
type Elastic struct {
	Cfg    Config
	MS     *voxel.Microstructure
	NT     *voxel.NeighborTable
	Model  *material.ElasticModel
	PM     *utils.PartitionMap
	dk     [types.NPhases]*Stencil
	inc    incidence
	Strain Strain
	U      []float64 // Displacements, 3 per voxel
	Gb     []float64 // Energy gradient
	B      []float64 // Linear term from the periodic strain jump
	C      float64   // Constant term from the periodic strain jump
	Au     []float64 // Scratch for the energy
}

func NewElastic(ms *voxel.Microstructure, model *material.ElasticModel, cfg Config) (e *Elastic) {
	var (
		ns = 3 * ms.Grid.N()
	)
	if cfg.Log == nil {
		cfg.Log = io.Discard
	}
	e = &Elastic{
		Cfg:   cfg,
		MS:    ms,
		NT:    voxel.NewNeighborTable(ms.Grid),
		Model: model,
		PM:    utils.NewVoxelPartitions(cfg.ProcLimit, ms.Grid.N()),
		dk:    stencils(model),
		inc:   newIncidence(),
		U:     make([]float64, ns),
		Gb:    make([]float64, ns),
		B:     make([]float64, ns),
		Au:    make([]float64, ns),
	}
	return
}

func (e *Elastic) Gtest() float64 {
	return e.Cfg.GtestEps * float64(e.MS.Grid.N())
}

// Apply evaluates y = A*x without forming A: every node gathers the
// contribution of the eight elements it belongs to
func (e *Elastic) Apply(x, y []float64) {
	var (
		pix = e.MS.Pix
		inc = &e.inc
	)
	e.PM.Run(func(np, kMin, kMax int) {
		for m := kMin; m < kMax; m++ {
			var (
				row              = e.NT.Row(m)
				sum0, sum1, sum2 float64
			)
			for l := 0; l < 8; l++ {
				st := e.dk[pix[row[inc.elem[l]]]]
				sl := &st[l]
				for lp := 0; lp < 8; lp++ {
					n := 3 * int(row[inc.node[l][lp]])
					x0, x1, x2 := x[n], x[n+1], x[n+2]
					sum0 += sl[0][lp][0]*x0 + sl[0][lp][1]*x1 + sl[0][lp][2]*x2
					sum1 += sl[1][lp][0]*x0 + sl[1][lp][1]*x1 + sl[1][lp][2]*x2
					sum2 += sl[2][lp][0]*x0 + sl[2][lp][1]*x1 + sl[2][lp][2]*x2
				}
			}
			y[3*m], y[3*m+1], y[3*m+2] = sum0, sum1, sum2
		}
	})
}

// jumps returns the displacement jump of a node, by local number, of the
// element at c that lies across the periodic faces
func (e *Elastic) jumps(c voxel.Coordinate) (d [8][3]float64, crossed bool) {
	var (
		g   = e.MS.Grid
		eps = e.Strain.Tensor()
	)
	for l, o := range NodeOffsets {
		off := [3]int{o.Di, o.Dj, o.Dk}
		for axis := 0; axis < 3; axis++ {
			L := g.Size(axis)
			if c.Axis(axis)+off[axis] != L {
				continue
			}
			crossed = true
			for alpha := 0; alpha < 3; alpha++ {
				d[l][alpha] += eps[alpha][axis] * float64(L)
			}
		}
	}
	return
}

// SetStrain fixes the macroscopic strain of a loading case: the boundary terms
// B and C, the affine initial displacement and its gradient
func (e *Elastic) SetStrain(s Strain) {
	var (
		g   = e.MS.Grid
		eps = s.Tensor()
	)
	e.Strain = s
	e.C = 0
	for i := range e.B {
		e.B[i] = 0
	}
	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				c := voxel.Coordinate{I: i, J: j, K: k}
				m := c.ToLinear(g)
				pos := [3]float64{float64(i), float64(j), float64(k)}
				for alpha := 0; alpha < 3; alpha++ {
					e.U[3*m+alpha] = eps[alpha][0]*pos[0] + eps[alpha][1]*pos[1] + eps[alpha][2]*pos[2]
				}
				if i != g.Nx-1 && j != g.Ny-1 && k != g.Nz-1 {
					continue
				}
				d, crossed := e.jumps(c)
				if !crossed {
					continue
				}
				dk := e.dk[e.MS.Pix[m]]
				for l := 0; l < 8; l++ {
					n := 3 * e.NT.At(m, Is[l])
					for alpha := 0; alpha < 3; alpha++ {
						var f float64
						for lp := 0; lp < 8; lp++ {
							for beta := 0; beta < 3; beta++ {
								f += dk[l][alpha][lp][beta] * d[lp][beta]
							}
						}
						e.B[n+alpha] += f
						e.C += 0.5 * d[l][alpha] * f
					}
				}
			}
		}
	}
	e.Gradient()
}

// Gradient recomputes Gb = A*U + B
func (e *Elastic) Gradient() {
	e.Apply(e.U, e.Gb)
	e.PM.Run(func(np, kMin, kMax int) {
		floats.Add(e.Gb[3*kMin:3*kMax], e.B[3*kMin:3*kMax])
	})
}

// Energy is U.A.U/2 + B.U + C, the stored energy of the current displacements
func (e *Elastic) Energy() (utot float64) {
	e.Apply(e.U, e.Au)
	utot = e.PM.Sum(func(kMin, kMax int) (sum float64) {
		for i := 3 * kMin; i < 3*kMax; i++ {
			sum += e.U[i] * (0.5*e.Au[i] + e.B[i])
		}
		return
	})
	utot += e.C
	return
}

func (e *Elastic) PrintInitialization() {
	var (
		w    = e.Cfg.Log
		frac = e.MS.PhaseFractions()
	)
	fmt.Fprintf(w, "Elastic solution on a %s voxel grid, resolution %5.2f um\n", e.MS.Grid, e.MS.Resolution)
	fmt.Fprintf(w, "Using %d go routines in parallel\n", e.PM.ParallelDegree)
	fmt.Fprintf(w, "Steps per call = %d, max calls = %d, gtest = %11.4e\n", e.Cfg.Ldemb, e.Cfg.Kmax, e.Gtest())
	for p, f := range frac {
		if f < e.MS.Threshold() {
			continue
		}
		fmt.Fprintf(w, "%12s %8.5f   K = %8.3f G = %8.3f\n", types.Phase(p).Print(), f, e.Model.K[p], e.Model.G[p])
	}
}
