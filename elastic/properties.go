package elastic

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jwbullard/VCCTL-sub001/material"
)

// Properties are isotropic effective moduli in GPa
type Properties struct {
	K, G, E, Nu float64
	// Degenerate marks moduli that could not be formed, reported as zero
	Degenerate bool
}

func newProperties(K, G float64, degenerate bool) (p Properties) {
	var ok bool
	p = Properties{K: K, G: G, Degenerate: degenerate}
	if p.E, p.Nu, ok = material.YoungPoisson(K, G); !ok {
		p.E, p.Nu, p.Degenerate = 0, 0, true
	}
	return
}

/*
Isotropic projects an average stress/strain pair onto the isotropic moduli:

	K = tr(s) / (3 tr(e))
	G = dev(s):dev(e) / (2 dev(e):dev(e))

both linear in the stress, so phase or layer contributions add up to the total.
*/
func Isotropic(stress, strain Voigt) (p Properties) {
	K, G, ok := Contribution(stress, strain)
	return newProperties(K, G, !ok)
}

// strainTol is the relative size below which a volumetric or deviatoric
// strain part is rounding noise
const strainTol = 1.e-12

// Contribution is the share of K and G attributable to part of the volume,
// given its stress sum / N and the whole volume's average strain. ok is false
// when the strain has no volumetric or no deviatoric part.
func Contribution(partStress, strain Voigt) (K, G float64, ok bool) {
	var (
		trS      = partStress[XX] + partStress[YY] + partStress[ZZ]
		trE      = strain[XX] + strain[YY] + strain[ZZ]
		num, den float64
	)
	for r := XX; r <= ZZ; r++ {
		ed := strain[r] - trE/3
		num += (partStress[r] - trS/3) * ed
		den += ed * ed
	}
	for r := YZ; r <= XY; r++ {
		// engineering shear strain is twice the tensor component
		num += partStress[r] * strain[r]
		den += 0.5 * strain[r] * strain[r]
	}
	var norm2 float64
	for _, e := range strain {
		norm2 += e * e
	}
	var (
		volumetric = math.Abs(trE) > strainTol*math.Sqrt(norm2)
		deviatoric = den > strainTol*norm2
	)
	if volumetric {
		K = trS / (3 * trE)
	}
	if deviatoric {
		G = num / (2 * den)
	}
	ok = volumetric && deviatoric
	return
}

// TensorEstimates are the Voigt, Reuss and Hill isotropic averages of an
// anisotropic effective stiffness
type TensorEstimates struct {
	Voigt, Reuss, Hill Properties
}

// Stiffness builds the 6x6 effective stiffness from the average stress of
// loading cases that each apply one strain component
func Stiffness(applied []Strain, stress []Voigt) (C *mat.Dense) {
	C = mat.NewDense(6, 6, nil)
	for n, s := range applied {
		for r := 0; r < 6; r++ {
			if s[r] == 0 {
				continue
			}
			for i := 0; i < 6; i++ {
				C.Set(i, r, stress[n][i]/s[r])
			}
			break
		}
	}
	return
}

func voigtKG(C mat.Matrix) (K, G float64) {
	var (
		diag  = C.At(0, 0) + C.At(1, 1) + C.At(2, 2)
		off   = C.At(0, 1) + C.At(0, 2) + C.At(1, 2)
		shear = C.At(3, 3) + C.At(4, 4) + C.At(5, 5)
	)
	K = (diag + 2*off) / 9
	G = (diag - off + 3*shear) / 15
	return
}

func EstimateTensor(C *mat.Dense) (te TensorEstimates) {
	var (
		S   mat.Dense
		sym mat.Dense
	)
	// average off diagonal pairs to remove the solver's rounding asymmetry
	sym.Add(C, C.T())
	sym.Scale(0.5, &sym)
	K, G := voigtKG(&sym)
	te.Voigt = newProperties(K, G, false)
	if err := S.Inverse(&sym); err != nil {
		te.Reuss = newProperties(0, 0, true)
		te.Hill = te.Voigt
		te.Hill.Degenerate = true
		return
	}
	var (
		diag  = S.At(0, 0) + S.At(1, 1) + S.At(2, 2)
		off   = S.At(0, 1) + S.At(0, 2) + S.At(1, 2)
		shear = S.At(3, 3) + S.At(4, 4) + S.At(5, 5)
	)
	te.Reuss = newProperties(1/(diag+2*off), 15/(4*diag-4*off+3*shear), false)
	te.Hill = newProperties((te.Voigt.K+te.Reuss.K)/2, (te.Voigt.G+te.Reuss.G)/2, false)
	return
}
