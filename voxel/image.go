package voxel

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jwbullard/VCCTL-sub001/types"
)

var (
	ErrBadHeader  = errors.New("malformed image header")
	ErrPhaseRange = errors.New("phase label out of range")
)

const (
	CurrentVersion    = 7.0
	DefaultResolution = 1.0
	DefaultSize       = 100
)

// Microstructure is a phase labelled voxel grid
type Microstructure struct {
	Grid       Grid
	Version    float64
	Resolution float64 // micrometers per voxel edge
	Pix        []types.Phase
}

func NewMicrostructure(g Grid, pix []types.Phase) (ms *Microstructure, err error) {
	if len(pix) != g.N() {
		err = fmt.Errorf("have %d labels for a %s grid", len(pix), g)
		return
	}
	for m, p := range pix {
		if p > types.NSP {
			err = fmt.Errorf("voxel %d has label %d: %w", m, p, ErrPhaseRange)
			return
		}
	}
	ms = &Microstructure{
		Grid:       g,
		Version:    CurrentVersion,
		Resolution: DefaultResolution,
		Pix:        pix,
	}
	return
}

// NewUniform fills a grid with one phase
func NewUniform(g Grid, p types.Phase) (ms *Microstructure) {
	pix := make([]types.Phase, g.N())
	for m := range pix {
		pix[m] = p
	}
	ms, _ = NewMicrostructure(g, pix)
	return
}

// PhaseFractions returns the volume fraction of every phase label
func (ms *Microstructure) PhaseFractions() (frac [types.NPhases]float64) {
	var (
		count [types.NPhases]int
		N     = float64(len(ms.Pix))
	)
	for _, p := range ms.Pix {
		count[p]++
	}
	for i, c := range count {
		frac[i] = float64(c) / N
	}
	return
}

// Threshold is the fraction below which a phase is treated as absent, one voxel
func (ms *Microstructure) Threshold() float64 {
	return 1. / float64(len(ms.Pix))
}

func ReadImageFile(fileName string, defaults Grid) (ms *Microstructure, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(fileName); err != nil {
		return
	}
	defer file.Close()
	if ms, err = ReadImage(file, defaults); err != nil {
		err = fmt.Errorf("reading %s: %w", fileName, err)
	}
	return
}

// ReadImage reads a header (Version, X_Size, Y_Size, Z_Size, Image_Resolution)
// followed by one label per voxel with i varying fastest. Images without a
// header take their dimensions from defaults.
func ReadImage(r io.Reader, defaults Grid) (ms *Microstructure, err error) {
	var (
		sc      = bufio.NewScanner(r)
		version = 0.
		res     = DefaultResolution
		dims    = [3]int{defaults.Nx, defaults.Ny, defaults.Nz}
		first   string
		g       Grid
	)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	if !sc.Scan() {
		err = fmt.Errorf("empty image: %w", ErrBadHeader)
		return
	}
	first = sc.Text()
	if strings.EqualFold(first, "Version:") {
		keys := []string{"Version:", "X_Size:", "Y_Size:", "Z_Size:", "Image_Resolution:"}
		for n, key := range keys {
			if n != 0 {
				if !sc.Scan() || !strings.EqualFold(sc.Text(), key) {
					err = fmt.Errorf("expected %s: %w", key, ErrBadHeader)
					return
				}
			}
			if !sc.Scan() {
				err = fmt.Errorf("missing value for %s: %w", key, ErrBadHeader)
				return
			}
			val := sc.Text()
			switch n {
			case 0:
				version, err = strconv.ParseFloat(val, 64)
			case 4:
				res, err = strconv.ParseFloat(val, 64)
			default:
				dims[n-1], err = strconv.Atoi(val)
			}
			if err != nil {
				err = fmt.Errorf("%s %q: %v: %w", key, val, err, ErrBadHeader)
				return
			}
		}
		first = ""
	}
	if g, err = NewGrid(dims[0], dims[1], dims[2]); err != nil {
		err = fmt.Errorf("%v: %w", err, ErrBadHeader)
		return
	}
	pix := make([]types.Phase, g.N())
	for m := range pix {
		var tok string
		if len(first) != 0 {
			tok, first = first, ""
		} else {
			if !sc.Scan() {
				err = fmt.Errorf("image ends after %d of %d voxels: %w", m, g.N(), ErrBadHeader)
				return
			}
			tok = sc.Text()
		}
		label, perr := strconv.Atoi(tok)
		if perr != nil {
			err = fmt.Errorf("voxel %d: %v: %w", m, perr, ErrBadHeader)
			return
		}
		p, ok := types.ConvertID(label, version)
		if !ok {
			err = fmt.Errorf("voxel %d has label %d: %w", m, label, ErrPhaseRange)
			return
		}
		pix[m] = p
	}
	if err = sc.Err(); err != nil {
		return
	}
	ms = &Microstructure{
		Grid:       g,
		Version:    version,
		Resolution: res,
		Pix:        pix,
	}
	return
}

// WriteImage writes the current header format followed by the labels
func (ms *Microstructure) WriteImage(w io.Writer) (err error) {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Version: %3.1f\n", CurrentVersion)
	fmt.Fprintf(bw, "X_Size: %d\nY_Size: %d\nZ_Size: %d\n", ms.Grid.Nx, ms.Grid.Ny, ms.Grid.Nz)
	fmt.Fprintf(bw, "Image_Resolution: %4.2f\n", ms.Resolution)
	for _, p := range ms.Pix {
		fmt.Fprintf(bw, "%d\n", p)
	}
	return bw.Flush()
}
