package elastic

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/jwbullard/VCCTL-sub001/solver"
	"github.com/jwbullard/VCCTL-sub001/types"
	"github.com/jwbullard/VCCTL-sub001/utils"
)

// DefaultStrain is the single isotropic loading case
var DefaultStrain = Strain{0.1, 0.1, 0.1, 0.1, 0.1, 0.1}

// TensorStrain is the magnitude of each of the six full tensor loading cases
const TensorStrain = 0.1

type CaseResult struct {
	Applied Strain
	solver.Result
	Energy  float64
	Fields  *Fields
	Elapsed time.Duration
}

type PhaseContribution struct {
	Phase    types.Phase
	Fraction float64
	K, G     float64
}

type LayerProperties struct {
	Index    int
	Distance float64 // micrometers from the nearest aggregate layer
	Properties
}

type Result struct {
	RunID  string
	Status solver.Status // Worst status over the loading cases
	Cases  []*CaseResult
	// Bulk is the isotropic estimate, the Hill average in full tensor mode
	Bulk             Properties
	Tensor           *mat.Dense
	Estimates        *TensorEstimates
	Phases           []PhaseContribution
	Layers           []LayerProperties
	AggregateLayered bool // Layer distances measure from an aggregate slab
}

// Solve relaxes one loading case to convergence or to the outer call budget
func (e *Elastic) Solve(s Strain) (cr *CaseResult, err error) {
	var (
		w     = e.Cfg.Log
		start = time.Now()
	)
	cr = &CaseResult{Applied: s}
	e.SetStrain(s)
	cg := solver.NewCG(e, e.U, e.Gb, e.Gtest(), e.Cfg.ProcLimit)
	fmt.Fprintf(w, "Applied strain %v\n", [6]float64(s))
	fmt.Fprintf(w, "   cycle   steps     total            gg        energy\n")
	fmt.Fprintf(w, "%8d%8d%10d%14.6e%14.6e\n", 0, 0, 0, cg.GG, e.Energy())
	var total int
	cr.Result, err = cg.Relax(solver.Options{
		Ldemb: e.Cfg.Ldemb,
		Kmax:  e.Cfg.Kmax,
		BeforeCall: func(cycle int, gg float64) {
			if e.Cfg.Progress != nil {
				e.Cfg.Progress(cycle, e.Cfg.Kmax, gg)
			}
		},
		AfterCall: func(cycle, steps int, gg float64) {
			total += steps
			fmt.Fprintf(w, "%8d%8d%10d%14.6e%14.6e\n", cycle+1, steps, total, gg, e.Energy())
		},
	})
	cr.Energy = e.Energy()
	cr.Elapsed = time.Since(start)
	if err != nil {
		err = fmt.Errorf("loading case %v: %w", [6]float64(s), err)
		return
	}
	if cr.Status != solver.Converged {
		fmt.Fprintf(w, "WARNING: not converged after %d steps, gg = %11.4e >= gtest = %11.4e\n",
			cr.Steps, cr.GG, e.Gtest())
	}
	cr.Fields = e.Stress(true)
	e.PrintFinal(cr)
	return
}

func (e *Elastic) PrintFinal(cr *CaseResult) {
	var (
		w = e.Cfg.Log
		N = e.MS.Grid.N()
	)
	if cr.Steps > 0 {
		rate := float64(cr.Elapsed.Microseconds()) / float64(N*cr.Steps)
		fmt.Fprintf(w, "Rate of execution = %8.5f us/(voxel*iteration) over %d iterations\n", rate, cr.Steps)
	}
	fmt.Fprintf(w, "%s\n", utils.GetMemUsage())
	for r := 0; r < 6; r++ {
		fmt.Fprintf(w, "  stress %s = %12.5e  strain %s = %12.5e\n",
			VoigtPrintNames[r], cr.Fields.Stress[r], VoigtPrintNames[r], cr.Fields.Strain[r])
	}
}

// Run solves the isotropic loading case, or the six unit cases of the full
// tensor, and forms the effective properties
func (e *Elastic) Run(applied Strain, fullTensor bool) (res *Result, err error) {
	var (
		cases []Strain
	)
	res = &Result{RunID: uuid.New().String(), Status: solver.Converged}
	if fullTensor {
		for r := 0; r < 6; r++ {
			var s Strain
			s[r] = TensorStrain
			cases = append(cases, s)
		}
	} else {
		cases = []Strain{applied}
	}
	e.PrintInitialization()
	var (
		stresses []Voigt
		fields   []*Fields
	)
	for _, s := range cases {
		var cr *CaseResult
		if cr, err = e.Solve(s); err != nil {
			res.Status = solver.Degenerate
			return
		}
		res.Cases = append(res.Cases, cr)
		if cr.Status > res.Status {
			res.Status = cr.Status
		}
		stresses = append(stresses, cr.Fields.Stress)
		fields = append(fields, cr.Fields)
	}
	sum := Superpose(fields...)
	if fullTensor {
		res.Tensor = Stiffness(cases, stresses)
		te := EstimateTensor(res.Tensor)
		res.Estimates = &te
		res.Bulk = te.Hill
	} else {
		res.Bulk = Isotropic(sum.Stress, sum.Strain)
	}
	res.Phases = e.phaseContributions(sum, res.Bulk)
	res.Layers, res.AggregateLayered = e.layerProperties(sum)
	return
}

// phaseContributions splits bulk over the phases in proportion to each
// phase's projected share of the superposed stress
func (e *Elastic) phaseContributions(sum *Fields, bulk Properties) (pc []PhaseContribution) {
	var (
		frac   = e.MS.PhaseFractions()
		thresh = e.MS.Threshold()
	)
	totK, totG, _ := Contribution(sum.Stress, sum.Strain)
	kScale, gScale := ratio(bulk.K, totK), ratio(bulk.G, totG)
	for p := 0; p < types.NPhases; p++ {
		if frac[p] < thresh {
			continue
		}
		K, G, _ := Contribution(sum.PhaseStress[p], sum.Strain)
		pc = append(pc, PhaseContribution{Phase: types.Phase(p), Fraction: frac[p], K: K * kScale, G: G * gScale})
	}
	return
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func (e *Elastic) layerProperties(sum *Fields) (lp []LayerProperties, found bool) {
	var (
		dist []float64
	)
	if len(sum.Layers) == 0 {
		return
	}
	dist, found = e.MS.LayerDistances(e.Cfg.LayerAxis, types.AGG)
	for _, l := range sum.Layers {
		lp = append(lp, LayerProperties{
			Index:      l.Index,
			Distance:   dist[l.Index],
			Properties: Isotropic(l.Stress, l.Strain),
		})
	}
	return
}
