package report

import (
	"fmt"
	"io"

	"github.com/jwbullard/VCCTL-sub001/elastic"
	"github.com/jwbullard/VCCTL-sub001/transport"
)

// Header identifies a run in every file it writes
type Header struct {
	RunID     string
	Title     string
	ImageFile string
}

func (h Header) write(w io.Writer, kind string) {
	fmt.Fprintf(w, "# %s\n", kind)
	fmt.Fprintf(w, "# run %s\n", h.RunID)
	if len(h.Title) != 0 {
		fmt.Fprintf(w, "# title %s\n", h.Title)
	}
	if len(h.ImageFile) != 0 {
		fmt.Fprintf(w, "# image %s\n", h.ImageFile)
	}
}

func degenerateMark(d bool) string {
	if d {
		return " (degenerate)"
	}
	return ""
}

func writeProperties(w io.Writer, label string, p elastic.Properties) {
	fmt.Fprintf(w, "%-8s K = %12.5f GPa  G = %12.5f GPa  E = %12.5f GPa  Nu = %9.5f%s\n",
		label, p.K, p.G, p.E, p.Nu, degenerateMark(p.Degenerate))
}

func ElasticSummary(w io.Writer, h Header, res *elastic.Result) {
	h.write(w, "elastic effective properties")
	fmt.Fprintf(w, "Status: %s\n", res.Status.Print())
	for n, cr := range res.Cases {
		fmt.Fprintf(w, "Case %d strain %v: %s after %d steps, gg = %11.4e, energy = %14.6e\n",
			n, [6]float64(cr.Applied), cr.Status.Print(), cr.Steps, cr.GG, cr.Energy)
	}
	writeProperties(w, "Bulk", res.Bulk)
	if res.Tensor == nil {
		return
	}
	fmt.Fprintf(w, "Effective stiffness (GPa):\n")
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			fmt.Fprintf(w, "%12.4f", res.Tensor.At(i, j))
		}
		fmt.Fprintln(w)
	}
	writeProperties(w, "Voigt", res.Estimates.Voigt)
	writeProperties(w, "Reuss", res.Estimates.Reuss)
	writeProperties(w, "Hill", res.Estimates.Hill)
}

func ElasticPhases(w io.Writer, h Header, res *elastic.Result) {
	h.write(w, "elastic phase contributions")
	fmt.Fprintf(w, "%-12s %10s %12s %12s\n", "phase", "fraction", "K", "G")
	for _, pc := range res.Phases {
		fmt.Fprintf(w, "%-12s %10.5f %12.5f %12.5f\n", pc.Phase.Print(), pc.Fraction, pc.K, pc.G)
	}
}

func ElasticLayers(w io.Writer, h Header, res *elastic.Result) {
	h.write(w, "elastic layer properties")
	if !res.AggregateLayered {
		fmt.Fprintf(w, "# no aggregate layer, distance is the layer position\n")
	}
	fmt.Fprintf(w, "%10s %12s %12s %12s %10s\n", "distance", "K", "G", "E", "Nu")
	for _, l := range res.Layers {
		fmt.Fprintf(w, "%10.3f %12.5f %12.5f %12.5f %10.5f\n", l.Distance, l.K, l.G, l.E, l.Nu)
	}
}

func TransportSummary(w io.Writer, h Header, res *transport.Result) {
	h.write(w, "transport effective properties")
	fmt.Fprintf(w, "Status: %s after %d steps, gg = %11.4e\n", res.Status.Print(), res.Steps, res.GG)
	fmt.Fprintf(w, "Field %v\n", [3]float64(res.Field))
	for axis, name := range []string{"x", "y", "z"} {
		if !res.Loaded[axis] {
			continue
		}
		fmt.Fprintf(w, "sigma %s = %14.6e  formation factor = %14.6e\n", name, res.Sigma[axis], res.Formation[axis])
	}
	fmt.Fprintf(w, "sigma mean = %14.6e  formation factor = %14.6e%s\n",
		res.SigmaMean, res.FormationMean, degenerateMark(res.Degenerate))
}

func TransportPhases(w io.Writer, h Header, res *transport.Result) {
	h.write(w, "transport phase contributions")
	fmt.Fprintf(w, "%-12s %10s %14s %14s %14s\n", "phase", "fraction", "sigma x", "sigma y", "sigma z")
	for _, pc := range res.Phases {
		fmt.Fprintf(w, "%-12s %10.5f %14.6e %14.6e %14.6e\n",
			pc.Phase.Print(), pc.Fraction, pc.Sigma[0], pc.Sigma[1], pc.Sigma[2])
	}
}

func TransportLayers(w io.Writer, h Header, res *transport.Result) {
	h.write(w, "transport layer properties")
	if !res.AggregateLayered {
		fmt.Fprintf(w, "# no aggregate layer, distance is the layer position\n")
	}
	fmt.Fprintf(w, "%10s %14s\n", "distance", "conductivity")
	for _, l := range res.Layers {
		fmt.Fprintf(w, "%10.3f %14.6e\n", l.Distance, l.Mean)
	}
}
