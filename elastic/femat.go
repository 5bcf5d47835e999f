package elastic

import (
	"github.com/jwbullard/VCCTL-sub001/material"
	"github.com/jwbullard/VCCTL-sub001/types"
	"github.com/jwbullard/VCCTL-sub001/voxel"
)

/*
	Each voxel is one trilinear brick element with nodes on its eight corners.
	The displacement of a node is stored at the voxel whose lower corner it is,
	so local node l of element e sits at voxel e + NodeOffsets[l].
*/
var NodeOffsets = [8]voxel.Offset{
	{Di: 0, Dj: 0, Dk: 0}, {Di: 1, Dj: 0, Dk: 0}, {Di: 1, Dj: 1, Dk: 0}, {Di: 0, Dj: 1, Dk: 0},
	{Di: 0, Dj: 0, Dk: 1}, {Di: 1, Dj: 0, Dk: 1}, {Di: 1, Dj: 1, Dk: 1}, {Di: 0, Dj: 1, Dk: 1},
}

// Is maps local element node number to its neighbor table slot
var Is = func() (is [8]int) {
	for l, o := range NodeOffsets {
		is[l] = voxel.Slot(o)
	}
	return
}()

// Stencil is the 24x24 element stiffness, dk[l][alpha][l'][beta] couples
// component alpha of node l to component beta of node l'
type Stencil [8][3][8][3]float64

// incidence tells a node which elements touch it and where their nodes are
type incidence struct {
	// elem[l] is the slot of the element holding this node as local node l
	elem [8]int
	// node[l][lp] is the slot of local node lp of that element
	node [8][8]int
}

func newIncidence() (inc incidence) {
	for l, o := range NodeOffsets {
		inc.elem[l] = voxel.Slot(o.Neg())
		for lp, op := range NodeOffsets {
			inc.node[l][lp] = voxel.Slot(op.Sub(o))
		}
	}
	return
}

// shapeDerivatives returns the trilinear shape function derivatives of every node at
// (x,y,z) in the unit cube
func shapeDerivatives(x, y, z float64) (dndx [8][3]float64) {
	f := func(a int, t float64) (v, dv float64) {
		if a == 1 {
			return t, 1
		}
		return 1 - t, -1
	}
	for l, o := range NodeOffsets {
		fx, dfx := f(o.Di, x)
		fy, dfy := f(o.Dj, y)
		fz, dfz := f(o.Dk, z)
		dndx[l] = [3]float64{dfx * fy * fz, fx * dfy * fz, fx * fy * dfz}
	}
	return
}

// strainDisplacement is B at (x,y,z), Voigt rows xx,yy,zz,yz,xz,xy
func strainDisplacement(x, y, z float64) (B [6][24]float64) {
	dn := shapeDerivatives(x, y, z)
	for l := 0; l < 8; l++ {
		c := 3 * l
		B[0][c] = dn[l][0]
		B[1][c+1] = dn[l][1]
		B[2][c+2] = dn[l][2]
		B[3][c+1], B[3][c+2] = dn[l][2], dn[l][1]
		B[4][c], B[4][c+2] = dn[l][2], dn[l][0]
		B[5][c], B[5][c+1] = dn[l][1], dn[l][0]
	}
	return
}

// centerB evaluates strains at the element center
var centerB = strainDisplacement(0.5, 0.5, 0.5)

// Femat integrates B^T C B over the unit cube with Simpson's rule on three
// points per axis, exact for the trilinear brick
func Femat(cmod *[6][6]float64) (dk *Stencil) {
	var (
		pts = [3]float64{0, 0.5, 1}
		wts = [3]float64{1. / 6., 4. / 6., 1. / 6.}
		K   [24][24]float64
	)
	for k := 0; k < 3; k++ {
		for j := 0; j < 3; j++ {
			for i := 0; i < 3; i++ {
				w := wts[i] * wts[j] * wts[k]
				B := strainDisplacement(pts[i], pts[j], pts[k])
				var CB [6][24]float64
				for r := 0; r < 6; r++ {
					for s := 0; s < 6; s++ {
						if cmod[r][s] == 0 {
							continue
						}
						for c := 0; c < 24; c++ {
							CB[r][c] += cmod[r][s] * B[s][c]
						}
					}
				}
				for a := 0; a < 24; a++ {
					for b := 0; b < 24; b++ {
						var sum float64
						for r := 0; r < 6; r++ {
							sum += B[r][a] * CB[r][b]
						}
						K[a][b] += w * sum
					}
				}
			}
		}
	}
	dk = &Stencil{}
	for l := 0; l < 8; l++ {
		for alpha := 0; alpha < 3; alpha++ {
			for lp := 0; lp < 8; lp++ {
				for beta := 0; beta < 3; beta++ {
					dk[l][alpha][lp][beta] = K[3*l+alpha][3*lp+beta]
				}
			}
		}
	}
	return
}

// stencils builds every phase's element matrix once
func stencils(model *material.ElasticModel) (dk [types.NPhases]*Stencil) {
	for p := 0; p < types.NPhases; p++ {
		dk[p] = Femat(&model.Cmod[p])
	}
	return
}
