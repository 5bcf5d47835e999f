package transport

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwbullard/VCCTL-sub001/solver"
	"github.com/jwbullard/VCCTL-sub001/types"
	"github.com/jwbullard/VCCTL-sub001/utils"
)

type PhaseContribution struct {
	Phase    types.Phase
	Fraction float64
	Sigma    [3]float64
}

type LayerConductivity struct {
	Index    int
	Distance float64
	Sigma    [3]float64
	Mean     float64
}

type Result struct {
	RunID string
	solver.Result
	Field   Field
	Energy  float64
	Elapsed time.Duration
	// Effective conductivity relative to the pore solution, per axis and
	// averaged over the loaded axes
	Sigma     [3]float64
	SigmaMean float64
	// Formation factor, pore conductivity over effective conductivity
	Formation     [3]float64
	FormationMean float64
	// Loaded marks the axes with a nonzero applied field
	Loaded [3]bool
	// Degenerate is set when no loaded axis conducts
	Degenerate       bool
	Phases           []PhaseContribution
	Layers           []LayerConductivity
	AggregateLayered bool
}

// conductivity turns mean currents into conductivities along the loaded axes
func (tr *Transport) conductivity(J [3]float64) (sigma [3]float64, mean float64) {
	var loaded int
	for axis := 0; axis < 3; axis++ {
		if tr.Field[axis] == 0 {
			continue
		}
		sigma[axis] = J[axis] / tr.Field[axis]
		mean += sigma[axis]
		loaded++
	}
	if loaded > 0 {
		mean /= float64(loaded)
	}
	return
}

func formation(sPore, s float64) (F float64, ok bool) {
	if s == 0 {
		return
	}
	return sPore / s, true
}

// Run relaxes the voltages under one applied field and forms the effective
// conductivity
func (tr *Transport) Run(f Field) (res *Result, err error) {
	var (
		w     = tr.Cfg.Log
		start = time.Now()
		total int
	)
	res = &Result{RunID: uuid.New().String(), Field: f}
	tr.PrintInitialization()
	tr.SetField(f)
	cg := solver.NewCG(tr, tr.U, tr.Gb, tr.Gtest(), tr.Cfg.ProcLimit)
	fmt.Fprintf(w, "Applied field %v\n", [3]float64(f))
	fmt.Fprintf(w, "   cycle   steps     total            gg        energy\n")
	fmt.Fprintf(w, "%8d%8d%10d%14.6e%14.6e\n", 0, 0, 0, cg.GG, tr.Energy())
	res.Result, err = cg.Relax(solver.Options{
		Ldemb: tr.Cfg.Ldemb,
		Kmax:  tr.Cfg.Kmax,
		BeforeCall: func(cycle int, gg float64) {
			if tr.Cfg.Progress != nil {
				tr.Cfg.Progress(cycle, tr.Cfg.Kmax, gg)
			}
		},
		AfterCall: func(cycle, steps int, gg float64) {
			total += steps
			fmt.Fprintf(w, "%8d%8d%10d%14.6e%14.6e\n", cycle+1, steps, total, gg, tr.Energy())
		},
	})
	res.Energy = tr.Energy()
	res.Elapsed = time.Since(start)
	if err != nil {
		err = fmt.Errorf("applied field %v: %w", [3]float64(f), err)
		return
	}
	if res.Status != solver.Converged {
		fmt.Fprintf(w, "WARNING: not converged after %d steps, gg = %11.4e >= gtest = %11.4e\n",
			res.Steps, res.GG, tr.Gtest())
	}
	tr.effective(res, tr.Current(true))
	tr.PrintFinal(res)
	return
}

func (tr *Transport) effective(res *Result, cu *Currents) {
	var (
		sPore  = tr.Model.PoreConductivity()
		frac   = tr.MS.PhaseFractions()
		thresh = tr.MS.Threshold()
		ok     bool
	)
	res.Sigma, res.SigmaMean = tr.conductivity(cu.Mean)
	res.Degenerate = true
	for axis := 0; axis < 3; axis++ {
		res.Loaded[axis] = tr.Field[axis] != 0
		if res.Formation[axis], ok = formation(sPore, res.Sigma[axis]); ok && res.Loaded[axis] {
			res.Degenerate = false
		}
	}
	res.FormationMean, _ = formation(sPore, res.SigmaMean)
	for p := 0; p < types.NPhases; p++ {
		if frac[p] < thresh {
			continue
		}
		pc := PhaseContribution{Phase: types.Phase(p), Fraction: frac[p]}
		pc.Sigma, _ = tr.conductivity(cu.Phase[p])
		res.Phases = append(res.Phases, pc)
	}
	if len(cu.Layers) == 0 {
		return
	}
	var dist []float64
	dist, res.AggregateLayered = tr.MS.LayerDistances(tr.Cfg.LayerAxis, types.AGG)
	for _, l := range cu.Layers {
		lc := LayerConductivity{Index: l.Index, Distance: dist[l.Index]}
		lc.Sigma, lc.Mean = tr.conductivity(l.Mean)
		res.Layers = append(res.Layers, lc)
	}
}

func (tr *Transport) PrintFinal(res *Result) {
	var (
		w = tr.Cfg.Log
		N = tr.MS.Grid.N()
	)
	if res.Steps > 0 {
		rate := float64(res.Elapsed.Microseconds()) / float64(N*res.Steps)
		fmt.Fprintf(w, "Rate of execution = %8.5f us/(voxel*iteration) over %d iterations\n", rate, res.Steps)
	}
	fmt.Fprintf(w, "%s\n", utils.GetMemUsage())
	for axis, name := range []string{"x", "y", "z"} {
		if !res.Loaded[axis] {
			continue
		}
		fmt.Fprintf(w, "  sigma %s = %12.5e  formation factor = %12.5e\n", name, res.Sigma[axis], res.Formation[axis])
	}
}
