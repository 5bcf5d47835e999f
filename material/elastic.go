package material

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jwbullard/VCCTL-sub001/types"
)

// ElasticPhase is the isotropic Young's modulus (GPa) and Poisson ratio of a phase
type ElasticPhase struct {
	E  float64 `json:"E"`
	Nu float64 `json:"Nu"`
}

var (
	ceramic     = ElasticPhase{117.6, 0.314}
	hydrate     = ElasticPhase{22.4, 0.25}
	portlandite = ElasticPhase{42.3, 0.324}
	silica      = ElasticPhase{72.8, 0.167}
	sulfate     = ElasticPhase{44.2, 0.269}
	gypsum      = ElasticPhase{45.7, 0.33}
	calcite     = ElasticPhase{79.6, 0.31}
	nostiff     = ElasticPhase{}
	elasTable   = func() (t [types.NPhases]ElasticPhase) {
		for _, p := range []types.Phase{types.C3S, types.C2S, types.C3A, types.C4AF, types.FAC3A, types.OC3A} {
			t[p] = ceramic
		}
		for _, p := range []types.Phase{types.CSH, types.C3AH6, types.ETTR, types.ETTRC4AF, types.FH3,
			types.POZZCSH, types.SLAGCSH, types.STRAT, types.MS, types.ITZ} {
			t[p] = hydrate
		}
		for _, p := range []types.Phase{types.CH, types.AFM, types.CACL2, types.FRIEDEL, types.AFMC, types.BRUCITE} {
			t[p] = portlandite
		}
		for _, p := range []types.Phase{types.SFUME, types.ASG, types.CAS2, types.AMSIL} {
			t[p] = silica
		}
		for _, p := range []types.Phase{types.POROSITY, types.EMPTYP, types.CRACKP} {
			t[p] = nostiff
		}
		t[types.K2SO4], t[types.NA2SO4] = sulfate, sulfate
		t[types.GYPSUM], t[types.GYPSUMS] = gypsum, gypsum
		t[types.HEMIHYD] = ElasticPhase{62.9, 0.3}
		t[types.ANHYDRITE] = ElasticPhase{80.0, 0.275}
		t[types.INERT], t[types.CACO3] = calcite, calcite
		t[types.SLAG] = ElasticPhase{74.0, 0.27}
		t[types.FREELIME] = ElasticPhase{175.0, 0.276}
		t[types.AGG] = ElasticPhase{76.0, 0.2}
		fillDiffusing(func(diff, solid types.Phase) { t[diff] = t[solid] })
		return
	}()
	// Voigt projections onto the bulk and shear parts of an isotropic stiffness
	ck = [6][6]float64{
		{1, 1, 1, 0, 0, 0},
		{1, 1, 1, 0, 0, 0},
		{1, 1, 1, 0, 0, 0},
	}
	cmu = [6][6]float64{
		{4. / 3., -2. / 3., -2. / 3., 0, 0, 0},
		{-2. / 3., 4. / 3., -2. / 3., 0, 0, 0},
		{-2. / 3., -2. / 3., 4. / 3., 0, 0, 0},
		{0, 0, 0, 1, 0, 0},
		{0, 0, 0, 0, 1, 0},
		{0, 0, 0, 0, 0, 1},
	}
)

func fillDiffusing(set func(diff, solid types.Phase)) {
	for p := types.Phase(0); p <= types.NSP; p++ {
		if p.IsDiffusing() {
			solid, _ := types.ConvertID(int(p), types.LegacyVersion)
			set(p, solid)
		}
	}
}

// ElasticModel maps phase label to its stiffness, Voigt order xx,yy,zz,yz,xz,xy
// with engineering shear strains
type ElasticModel struct {
	Moduli [types.NPhases]ElasticPhase
	K, G   [types.NPhases]float64
	Cmod   [types.NPhases][6][6]float64
}

func DefaultElasticTable() [types.NPhases]ElasticPhase { return elasTable }

func NewElasticModel(overrides map[types.Phase]ElasticPhase) (em *ElasticModel, err error) {
	em = &ElasticModel{Moduli: elasTable}
	for p, ep := range overrides {
		if int(p) >= types.NPhases {
			err = fmt.Errorf("override for phase label %d beyond %d", p, types.NSP)
			return
		}
		em.Moduli[p] = ep
	}
	for p := 0; p < types.NPhases; p++ {
		ep := em.Moduli[p]
		if ep.E < 0 || ep.Nu <= -1 || ep.Nu >= 0.5 {
			err = fmt.Errorf("phase %s has unphysical E = %g, Nu = %g",
				types.Phase(p).Print(), ep.E, ep.Nu)
			return
		}
		em.K[p], em.G[p] = BulkShear(ep.E, ep.Nu)
		for i := 0; i < 6; i++ {
			for j := 0; j < 6; j++ {
				em.Cmod[p][i][j] = em.K[p]*ck[i][j] + em.G[p]*cmu[i][j]
			}
		}
	}
	return
}

// Stiffness returns the 6x6 stiffness of a phase as a dense matrix
func (em *ElasticModel) Stiffness(p types.Phase) (C *mat.Dense) {
	C = mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		C.SetRow(i, em.Cmod[p][i][:])
	}
	return
}

func BulkShear(E, nu float64) (K, G float64) {
	K = E / (3. * (1. - 2.*nu))
	G = E / (2. * (1. + nu))
	return
}

// YoungPoisson inverts BulkShear; ok is false when 3K+G vanishes
func YoungPoisson(K, G float64) (E, nu float64, ok bool) {
	den := 3.*K + G
	if den == 0 {
		return
	}
	E = 9. * K * G / den
	nu = (3.*K - 2.*G) / (2. * den)
	ok = true
	return
}
