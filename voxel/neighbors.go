package voxel

import "fmt"

const (
	NNeighbors = 27
	// CenterSlot is the neighbor slot of the voxel itself
	CenterSlot = 13
)

// NeighborOffsets lists the 27 offsets of the cube of neighbors, ordered so
// that slot = (dk+1)*9 + (dj+1)*3 + (di+1)
var NeighborOffsets = func() (o [NNeighbors]Offset) {
	for dk := -1; dk <= 1; dk++ {
		for dj := -1; dj <= 1; dj++ {
			for di := -1; di <= 1; di++ {
				o[Slot(Offset{di, dj, dk})] = Offset{di, dj, dk}
			}
		}
	}
	return
}()

// Slot returns the neighbor slot of an offset with components in {-1,0,1}
func Slot(o Offset) int {
	if o.Di < -1 || o.Di > 1 || o.Dj < -1 || o.Dj > 1 || o.Dk < -1 || o.Dk > 1 {
		panic(fmt.Sprintf("offset %v is outside the cube of neighbors", o))
	}
	return (o.Dk+1)*9 + (o.Dj+1)*3 + (o.Di + 1)
}

// NeighborTable holds, for every voxel, the linear index of its 27 periodic
// neighbors. Built once, read only afterward.
type NeighborTable struct {
	Grid Grid
	ib   [][NNeighbors]int32
}

func NewNeighborTable(g Grid) (nt *NeighborTable) {
	var (
		N = g.N()
	)
	nt = &NeighborTable{
		Grid: g,
		ib:   make([][NNeighbors]int32, N),
	}
	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Ny; j++ {
			for i := 0; i < g.Nx; i++ {
				c := Coordinate{i, j, k}
				m := c.ToLinear(g)
				for n, o := range NeighborOffsets {
					nt.ib[m][n] = int32(c.Neighbor(g, o).ToLinear(g))
				}
			}
		}
	}
	return
}

func (nt *NeighborTable) At(m, n int) int { return int(nt.ib[m][n]) }

// Row returns the 27 neighbors of voxel m
func (nt *NeighborTable) Row(m int) *[NNeighbors]int32 { return &nt.ib[m] }

// Step moves one voxel along axis (0,1,2) by +1 or -1 with wraparound, the
// six-neighbor adjacency used by the transport stencil
func (g Grid) Step(m, axis, dir int) int {
	c := g.Coordinate(m)
	switch axis {
	case 0:
		c.I = Wrap(c.I+dir, g.Nx)
	case 1:
		c.J = Wrap(c.J+dir, g.Ny)
	case 2:
		c.K = Wrap(c.K+dir, g.Nz)
	default:
		panic(fmt.Sprintf("axis %d out of range", axis))
	}
	return c.ToLinear(g)
}
