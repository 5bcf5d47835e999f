package transport

import (
	"github.com/jwbullard/VCCTL-sub001/utils"
)

// Assemble forms the conductance matrix explicitly from the periodic bonds,
// for checking the matrix free operator on small grids
func (tr *Transport) Assemble() (A utils.DOK) {
	var (
		g = tr.MS.Grid
		N = g.N()
	)
	A = utils.NewDOK(N, N)
	for m := 0; m < N; m++ {
		p := tr.padIndex(g.Coordinate(m))
		for axis := 0; axis < 3; axis++ {
			var (
				n = g.Step(m, axis, 1)
				s = tr.Bond[axis][p]
			)
			A.AddAt(m, m, s)
			A.AddAt(n, n, s)
			A.AddAt(m, n, -s)
			A.AddAt(n, m, -s)
		}
	}
	return A.SetReadOnly("conductance")
}
