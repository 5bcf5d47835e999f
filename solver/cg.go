package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/jwbullard/VCCTL-sub001/utils"
)

type Status uint8

const (
	Converged Status = iota
	IterationCap
	Degenerate
)

var (
	StatusPrintNames = []string{"converged", "not converged (iteration cap)", "degenerate"}
	ErrDegenerate    = errors.New("degenerate conjugate gradient step")
)

func (s Status) Print() string { return StatusPrintNames[s] }

// Operator evaluates y = A*x for the quadratic part of an energy functional
// E(u) = u.A.u/2 + b.u + C, whose gradient is A*u + b
type Operator interface {
	Apply(x, y []float64)
}

// CG holds the state of a conjugate gradient relaxation for one loading case.
// H survives successive calls to Dembx so the search direction is only reset
// when a new loading case starts.
type CG struct {
	Op    Operator
	PM    *utils.PartitionMap
	U     []float64 // Unknowns
	Gb    []float64 // Gradient, the residual of the energy
	H     []float64 // Search direction
	Ah    []float64
	GG    float64 // Gb.Gb
	Gtest float64
}

func NewCG(op Operator, U, Gb []float64, gtest float64, ProcLimit int) (cg *CG) {
	var (
		ns = len(U)
	)
	if len(Gb) != ns {
		panic(fmt.Sprintf("unknowns and gradient differ in length: %d, %d", ns, len(Gb)))
	}
	cg = &CG{
		Op:    op,
		PM:    utils.NewVoxelPartitions(ProcLimit, ns),
		U:     U,
		Gb:    Gb,
		H:     make([]float64, ns),
		Ah:    make([]float64, ns),
		Gtest: gtest,
	}
	cg.GG = cg.Dot(Gb, Gb)
	return
}

func (cg *CG) Dot(a, b []float64) float64 {
	return cg.PM.Sum(func(kMin, kMax int) float64 {
		return floats.Dot(a[kMin:kMax], b[kMin:kMax])
	})
}

// Done reports whether the squared residual is below the threshold
func (cg *CG) Done() bool {
	return cg.GG < cg.Gtest || cg.GG == 0
}

// Dembx takes at most ldemb conjugate gradient steps. kkk == 0 marks the first
// call of a loading case and resets the search direction to the gradient.
func (cg *CG) Dembx(ldemb, kkk int) (steps int, err error) {
	var (
		U, Gb, H, Ah = cg.U, cg.Gb, cg.H, cg.Ah
	)
	if kkk == 0 {
		copy(H, Gb)
	}
	for steps = 0; steps < ldemb; steps++ {
		if cg.Done() {
			return
		}
		cg.Op.Apply(H, Ah)
		hAh := cg.Dot(H, Ah)
		lambda := cg.GG / hAh
		if hAh == 0 || utils.IsNan(lambda) {
			err = fmt.Errorf("step %d: h.Ah = %g with gg = %g: %w", steps, hAh, cg.GG, ErrDegenerate)
			return
		}
		cg.PM.Run(func(np, kMin, kMax int) {
			floats.AddScaled(U[kMin:kMax], -lambda, H[kMin:kMax])
			floats.AddScaled(Gb[kMin:kMax], -lambda, Ah[kMin:kMax])
		})
		ggLast := cg.GG
		cg.GG = cg.Dot(Gb, Gb)
		if cg.Done() {
			steps++
			return
		}
		gamma := cg.GG / ggLast
		cg.PM.Run(func(np, kMin, kMax int) {
			for i := kMin; i < kMax; i++ {
				H[i] = Gb[i] + gamma*H[i]
			}
		})
	}
	return
}

type Options struct {
	Ldemb, Kmax int
	// BeforeCall runs ahead of every outer call, AfterCall once it returns
	BeforeCall func(cycle int, gg float64)
	AfterCall  func(cycle, steps int, gg float64)
}

type Result struct {
	Status Status
	Steps  int // Total conjugate gradient steps
	Cycles int // Outer calls to Dembx
	GG     float64
}

// Relax calls Dembx until the residual passes the threshold or Kmax outer
// calls are spent. Exhausting Kmax is reported through Status, not err.
func (cg *CG) Relax(opt Options) (res Result, err error) {
	res.Status = IterationCap
	for cycle := 0; cycle < opt.Kmax; cycle++ {
		if cg.Done() {
			break
		}
		if opt.BeforeCall != nil {
			opt.BeforeCall(cycle, cg.GG)
		}
		var steps int
		steps, err = cg.Dembx(opt.Ldemb, cycle)
		res.Steps += steps
		res.Cycles++
		if opt.AfterCall != nil {
			opt.AfterCall(cycle, steps, cg.GG)
		}
		if err != nil {
			res.Status, res.GG = Degenerate, cg.GG
			return
		}
	}
	if cg.Done() {
		res.Status = Converged
	}
	res.GG = cg.GG
	if math.IsNaN(res.GG) {
		res.Status = Degenerate
		err = fmt.Errorf("residual is NaN after %d steps: %w", res.Steps, ErrDegenerate)
	}
	return
}
