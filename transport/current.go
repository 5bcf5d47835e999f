package transport

import (
	"github.com/jwbullard/VCCTL-sub001/types"
)

// Currents are volume averages of the bond currents
type Currents struct {
	Mean [3]float64
	// Contribution of each phase, its sum of currents / N
	Phase  [types.NPhases][3]float64
	Layers []LayerCurrent
}

type LayerCurrent struct {
	Index int
	Count int
	Mean  [3]float64
}

// Current averages the bond currents over the grid, by phase, and when ilast
// is set and a layer axis is configured, by layer
func (tr *Transport) Current(ilast bool) (cu *Currents) {
	var (
		g      = tr.MS.Grid
		N      = g.N()
		layers = ilast && tr.Cfg.LayerAxis >= 0
		NP     = tr.PM.ParallelDegree
		part   = make([]*Currents, NP)
	)
	tr.fill(tr.U, true)
	tr.PM.Run(func(np, kMin, kMax int) {
		pc := &Currents{}
		if layers {
			pc.Layers = make([]LayerCurrent, g.Size(tr.Cfg.LayerAxis))
		}
		for m := kMin; m < kMax; m++ {
			var (
				J = tr.current(m)
				p = tr.MS.Pix[m]
			)
			for axis := 0; axis < 3; axis++ {
				pc.Phase[p][axis] += J[axis]
			}
			if layers {
				lyr := &pc.Layers[g.Coordinate(m).Axis(tr.Cfg.LayerAxis)]
				lyr.Count++
				for axis := 0; axis < 3; axis++ {
					lyr.Mean[axis] += J[axis]
				}
			}
		}
		part[np] = pc
	})
	cu = &Currents{}
	if layers {
		cu.Layers = make([]LayerCurrent, g.Size(tr.Cfg.LayerAxis))
	}
	for _, pc := range part {
		for p := 0; p < types.NPhases; p++ {
			for axis := 0; axis < 3; axis++ {
				cu.Phase[p][axis] += pc.Phase[p][axis]
			}
		}
		for i := range cu.Layers {
			cu.Layers[i].Count += pc.Layers[i].Count
			for axis := 0; axis < 3; axis++ {
				cu.Layers[i].Mean[axis] += pc.Layers[i].Mean[axis]
			}
		}
	}
	for p := 0; p < types.NPhases; p++ {
		for axis := 0; axis < 3; axis++ {
			cu.Phase[p][axis] /= float64(N)
			cu.Mean[axis] += cu.Phase[p][axis]
		}
	}
	for i := range cu.Layers {
		cu.Layers[i].Index = i
		if cnt := float64(cu.Layers[i].Count); cnt > 0 {
			for axis := 0; axis < 3; axis++ {
				cu.Layers[i].Mean[axis] /= cnt
			}
		}
	}
	return
}
