package material

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/jwbullard/VCCTL-sub001/types"
)

func TestElasticModel(t *testing.T) {
	em, err := NewElasticModel(map[types.Phase]ElasticPhase{types.INERT: {E: 10, Nu: 0.2}})
	require.NoError(t, err)
	{ // Conversions for the override
		K, G := em.K[types.INERT], em.G[types.INERT]
		assert.InDelta(t, 10./(3.*0.6), K, 1.e-12)
		assert.InDelta(t, 10./2.4, G, 1.e-12)
		E, nu, ok := YoungPoisson(K, G)
		assert.True(t, ok)
		assert.InDelta(t, 10., E, 1.e-12)
		assert.InDelta(t, 0.2, nu, 1.e-12)
	}
	{ // Stiffness is K*ck + G*cmu, uniaxial row gives lambda + 2mu
		C := em.Stiffness(types.CSH)
		K, G := em.K[types.CSH], em.G[types.CSH]
		assert.InDelta(t, K+4.*G/3., C.At(0, 0), 1.e-12)
		assert.InDelta(t, K-2.*G/3., C.At(0, 1), 1.e-12)
		assert.InDelta(t, G, C.At(3, 3), 1.e-12)
		assert.True(t, mat.EqualApprox(C, C.T(), 1.e-14))
	}
	{ // Porosity carries no stiffness, diffusing species follow their solids
		assert.Equal(t, 0., em.K[types.POROSITY])
		assert.Equal(t, em.Cmod[types.CH], em.Cmod[types.DIFFCH])
		table := DefaultElasticTable()
		for p := types.Phase(0); p <= types.NSP; p++ {
			if p.IsDiffusing() {
				solid, _ := types.ConvertID(int(p), types.LegacyVersion)
				assert.NotEqual(t, p, solid)
				assert.Equal(t, table[solid], table[p], p.Print())
			}
		}
		_, _, ok := YoungPoisson(0, 0)
		assert.False(t, ok)
	}
	{ // Unphysical input
		_, err = NewElasticModel(map[types.Phase]ElasticPhase{types.CSH: {E: 1, Nu: 0.5}})
		assert.Error(t, err)
		_, err = NewElasticModel(map[types.Phase]ElasticPhase{types.CSH: {E: -1, Nu: 0.2}})
		assert.Error(t, err)
	}
}

func TestConductivityModel(t *testing.T) {
	cm, err := NewConductivityModel(map[types.Phase][3]float64{types.INERT: {0, 2, 4}})
	require.NoError(t, err)
	assert.Equal(t, 1., cm.PoreConductivity())
	{ // Open circuit whenever either side does not conduct
		for i := 0; i < types.NPhases; i++ {
			for j := 0; j < types.NPhases; j++ {
				for axis := 0; axis < 3; axis++ {
					be := cm.Be[i][j][axis]
					assert.False(t, math.IsNaN(be) || math.IsInf(be, 0))
					if cm.Sigma[i][axis] == 0 || cm.Sigma[j][axis] == 0 {
						assert.Equal(t, 0., be)
					}
					assert.Equal(t, be, cm.Be[j][i][axis])
				}
			}
		}
		assert.Equal(t, 0., cm.Be[types.INERT][types.POROSITY][0])
	}
	{ // Harmonic mean of the two half voxels
		assert.InDelta(t, 1./(0.25+0.5), cm.Be[types.INERT][types.POROSITY][1], 1.e-14)
		assert.InDelta(t, 1., cm.Be[types.POROSITY][types.POROSITY][2], 1.e-14)
		assert.InDelta(t, 0.0025, cm.Be[types.CSH][types.CSH][0], 1.e-14)
	}
	_, err = NewConductivityModel(map[types.Phase][3]float64{types.CSH: {-1, 0, 0}})
	assert.Error(t, err)
}
