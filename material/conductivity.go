package material

import (
	"fmt"

	"github.com/jwbullard/VCCTL-sub001/types"
)

// Conductivities are relative to the pore solution
var condTable = func() (t [types.NPhases][3]float64) {
	t[types.POROSITY] = [3]float64{1, 1, 1}
	t[types.CRACKP] = [3]float64{1, 1, 1}
	for _, p := range []types.Phase{types.CSH, types.POZZCSH, types.SLAGCSH} {
		t[p] = [3]float64{0.0025, 0.0025, 0.0025}
	}
	fillDiffusing(func(diff, solid types.Phase) { t[diff] = t[solid] })
	return
}()

type ConductivityModel struct {
	Sigma [types.NPhases][3]float64
	// Be is the series conductance of a bond between two half voxels
	Be [types.NPhases][types.NPhases][3]float64
}

func DefaultConductivityTable() [types.NPhases][3]float64 { return condTable }

func NewConductivityModel(overrides map[types.Phase][3]float64) (cm *ConductivityModel, err error) {
	cm = &ConductivityModel{Sigma: condTable}
	for p, s := range overrides {
		if int(p) >= types.NPhases {
			err = fmt.Errorf("override for phase label %d beyond %d", p, types.NSP)
			return
		}
		for axis := 0; axis < 3; axis++ {
			if s[axis] < 0 {
				err = fmt.Errorf("phase %s has negative conductivity %v", p.Print(), s)
				return
			}
		}
		cm.Sigma[p] = s
	}
	for i := 0; i < types.NPhases; i++ {
		for j := 0; j < types.NPhases; j++ {
			for axis := 0; axis < 3; axis++ {
				cm.Be[i][j][axis] = BondConductance(cm.Sigma[i][axis], cm.Sigma[j][axis])
			}
		}
	}
	return
}

// BondConductance is the harmonic mean of two half voxels in series. A bond
// touching a non conducting voxel is open.
func BondConductance(si, sj float64) float64 {
	if si == 0 || sj == 0 {
		return 0
	}
	return 1. / (0.5/si + 0.5/sj)
}

func (cm *ConductivityModel) PoreConductivity() float64 {
	return cm.Sigma[types.POROSITY][0]
}
