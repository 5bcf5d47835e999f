package elastic

import (
	"github.com/jwbullard/VCCTL-sub001/utils"
)

// Assemble forms the global stiffness explicitly, element by element. It is
// only practical on small grids, where it checks the matrix free operator.
func (e *Elastic) Assemble() (A utils.DOK) {
	var (
		N = e.MS.Grid.N()
	)
	A = utils.NewDOK(3*N, 3*N)
	for m := 0; m < N; m++ {
		var (
			dk  = e.dk[e.MS.Pix[m]]
			row = e.NT.Row(m)
		)
		for l := 0; l < 8; l++ {
			i := 3 * int(row[Is[l]])
			for lp := 0; lp < 8; lp++ {
				j := 3 * int(row[Is[lp]])
				for alpha := 0; alpha < 3; alpha++ {
					for beta := 0; beta < 3; beta++ {
						A.AddAt(i+alpha, j+beta, dk[l][alpha][lp][beta])
					}
				}
			}
		}
	}
	return A.SetReadOnly("elastic stiffness")
}
