package voxel

import "fmt"

// Grid is a periodic box of Nx*Ny*Nz voxels, linear index m = k*Nx*Ny + j*Nx + i
type Grid struct {
	Nx, Ny, Nz int
}

type Coordinate struct {
	I, J, K int
}

type Offset struct {
	Di, Dj, Dk int
}

func NewGrid(nx, ny, nz int) (g Grid, err error) {
	if nx < 1 || ny < 1 || nz < 1 {
		err = fmt.Errorf("grid dimensions must be positive, have %d x %d x %d", nx, ny, nz)
		return
	}
	g = Grid{Nx: nx, Ny: ny, Nz: nz}
	return
}

func (g Grid) N() int   { return g.Nx * g.Ny * g.Nz }
func (g Grid) Nxy() int { return g.Nx * g.Ny }

func (g Grid) Size(axis int) int {
	switch axis {
	case 0:
		return g.Nx
	case 1:
		return g.Ny
	case 2:
		return g.Nz
	}
	panic(fmt.Sprintf("axis %d out of range", axis))
}

func (g Grid) String() string {
	return fmt.Sprintf("%d x %d x %d", g.Nx, g.Ny, g.Nz)
}

// Wrap folds an index into [0, n) on the torus
func Wrap(index, n int) int {
	index %= n
	if index < 0 {
		index += n
	}
	return index
}

func (g Grid) Coordinate(m int) (c Coordinate) {
	nxy := g.Nxy()
	c.K = m / nxy
	c.J = (m - c.K*nxy) / g.Nx
	c.I = m - c.K*nxy - c.J*g.Nx
	return
}

func (c Coordinate) ToLinear(g Grid) int {
	return c.K*g.Nxy() + c.J*g.Nx + c.I
}

func (c Coordinate) Axis(axis int) int {
	switch axis {
	case 0:
		return c.I
	case 1:
		return c.J
	case 2:
		return c.K
	}
	panic(fmt.Sprintf("axis %d out of range", axis))
}

// Neighbor moves by o and wraps every axis
func (c Coordinate) Neighbor(g Grid, o Offset) Coordinate {
	return Coordinate{
		I: Wrap(c.I+o.Di, g.Nx),
		J: Wrap(c.J+o.Dj, g.Ny),
		K: Wrap(c.K+o.Dk, g.Nz),
	}
}

func (o Offset) Add(p Offset) Offset {
	return Offset{o.Di + p.Di, o.Dj + p.Dj, o.Dk + p.Dk}
}

func (o Offset) Sub(p Offset) Offset {
	return Offset{o.Di - p.Di, o.Dj - p.Dj, o.Dk - p.Dk}
}

func (o Offset) Neg() Offset {
	return Offset{-o.Di, -o.Dj, -o.Dk}
}
