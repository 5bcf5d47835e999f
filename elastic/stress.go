package elastic

import (
	"github.com/jwbullard/VCCTL-sub001/types"
)

type Voigt [6]float64

// Fields are volume averages of the local stress and strain
type Fields struct {
	Stress, Strain Voigt
	// Contribution of each phase to the averages, sums over the phase / N
	PhaseStress, PhaseStrain [types.NPhases]Voigt
	Layers                   []Layer
}

// Layer averages over all voxels with one index along the layer axis
type Layer struct {
	Index          int
	Count          int
	Stress, Strain Voigt
}

// LocalStrain evaluates the strain at the center of the element at voxel m,
// adding the periodic jump to nodes that lie across a face
func (e *Elastic) LocalStrain(m int) (strain Voigt) {
	var (
		g     = e.MS.Grid
		c     = g.Coordinate(m)
		row   = e.NT.Row(m)
		d, xd = e.jumps(c)
		v     [24]float64
	)
	for l := 0; l < 8; l++ {
		n := 3 * int(row[Is[l]])
		for alpha := 0; alpha < 3; alpha++ {
			v[3*l+alpha] = e.U[n+alpha]
			if xd {
				v[3*l+alpha] += d[l][alpha]
			}
		}
	}
	for r := 0; r < 6; r++ {
		for col := 0; col < 24; col++ {
			strain[r] += centerB[r][col] * v[col]
		}
	}
	return
}

func (e *Elastic) LocalStress(m int, strain Voigt) (stress Voigt) {
	cmod := &e.Model.Cmod[e.MS.Pix[m]]
	for r := 0; r < 6; r++ {
		for s := 0; s < 6; s++ {
			stress[r] += cmod[r][s] * strain[s]
		}
	}
	return
}

// Stress averages the local fields over the grid, by phase, and when ilast is
// set and a layer axis is configured, by layer
func (e *Elastic) Stress(ilast bool) (f *Fields) {
	var (
		g      = e.MS.Grid
		N      = g.N()
		layers = ilast && e.Cfg.LayerAxis >= 0
		pm     = e.PM
		NP     = pm.ParallelDegree
		part   = make([]*Fields, NP)
	)
	pm.Run(func(np, kMin, kMax int) {
		pf := &Fields{}
		if layers {
			pf.Layers = make([]Layer, g.Size(e.Cfg.LayerAxis))
		}
		for m := kMin; m < kMax; m++ {
			strain := e.LocalStrain(m)
			stress := e.LocalStress(m, strain)
			p := e.MS.Pix[m]
			for r := 0; r < 6; r++ {
				pf.PhaseStress[p][r] += stress[r]
				pf.PhaseStrain[p][r] += strain[r]
			}
			if layers {
				lyr := &pf.Layers[g.Coordinate(m).Axis(e.Cfg.LayerAxis)]
				lyr.Count++
				for r := 0; r < 6; r++ {
					lyr.Stress[r] += stress[r]
					lyr.Strain[r] += strain[r]
				}
			}
		}
		part[np] = pf
	})
	f = &Fields{}
	if layers {
		f.Layers = make([]Layer, g.Size(e.Cfg.LayerAxis))
	}
	for _, pf := range part {
		for p := 0; p < types.NPhases; p++ {
			for r := 0; r < 6; r++ {
				f.PhaseStress[p][r] += pf.PhaseStress[p][r]
				f.PhaseStrain[p][r] += pf.PhaseStrain[p][r]
			}
		}
		for i := range f.Layers {
			f.Layers[i].Count += pf.Layers[i].Count
			for r := 0; r < 6; r++ {
				f.Layers[i].Stress[r] += pf.Layers[i].Stress[r]
				f.Layers[i].Strain[r] += pf.Layers[i].Strain[r]
			}
		}
	}
	for p := 0; p < types.NPhases; p++ {
		for r := 0; r < 6; r++ {
			f.PhaseStress[p][r] /= float64(N)
			f.PhaseStrain[p][r] /= float64(N)
			f.Stress[r] += f.PhaseStress[p][r]
			f.Strain[r] += f.PhaseStrain[p][r]
		}
	}
	for i := range f.Layers {
		f.Layers[i].Index = i
		if cnt := float64(f.Layers[i].Count); cnt > 0 {
			for r := 0; r < 6; r++ {
				f.Layers[i].Stress[r] /= cnt
				f.Layers[i].Strain[r] /= cnt
			}
		}
	}
	return
}

// Superpose adds fields of loading cases, the response to the summed strain
func Superpose(all ...*Fields) (f *Fields) {
	f = &Fields{}
	for _, a := range all {
		for r := 0; r < 6; r++ {
			f.Stress[r] += a.Stress[r]
			f.Strain[r] += a.Strain[r]
			for p := 0; p < types.NPhases; p++ {
				f.PhaseStress[p][r] += a.PhaseStress[p][r]
				f.PhaseStrain[p][r] += a.PhaseStrain[p][r]
			}
		}
		if f.Layers == nil && a.Layers != nil {
			f.Layers = make([]Layer, len(a.Layers))
		}
		for i := range a.Layers {
			f.Layers[i].Index, f.Layers[i].Count = a.Layers[i].Index, a.Layers[i].Count
			for r := 0; r < 6; r++ {
				f.Layers[i].Stress[r] += a.Layers[i].Stress[r]
				f.Layers[i].Strain[r] += a.Layers[i].Strain[r]
			}
		}
	}
	return
}
