package voxel

import (
	"github.com/jwbullard/VCCTL-sub001/types"
)

// LayerDistances gives, for every layer normal to axis, the periodic distance
// in micrometers to the nearest layer made entirely of the aggregate phase.
// Without any aggregate layer the distance is the layer position and found is
// false.
func (ms *Microstructure) LayerDistances(axis int, aggregate types.Phase) (dist []float64, found bool) {
	var (
		g     = ms.Grid
		L     = g.Size(axis)
		count = make([]int, L)
		full  = g.N() / L
	)
	for m, p := range ms.Pix {
		if p == aggregate {
			count[g.Coordinate(m).Axis(axis)]++
		}
	}
	dist = make([]float64, L)
	var aggLayers []int
	for l, c := range count {
		if c == full {
			aggLayers = append(aggLayers, l)
		}
	}
	found = len(aggLayers) != 0
	for l := range dist {
		if !found {
			dist[l] = float64(l) * ms.Resolution
			continue
		}
		best := L
		for _, la := range aggLayers {
			d := l - la
			if d < 0 {
				d = -d
			}
			if L-d < d {
				d = L - d
			}
			if d < best {
				best = d
			}
		}
		dist[l] = float64(best) * ms.Resolution
	}
	return
}
