package types

import (
	"fmt"
	"strings"
)

// Phase is the internal label of the material occupying a voxel
type Phase uint8

const (
	POROSITY Phase = iota
	C3S
	C2S
	C3A
	C4AF
	K2SO4
	NA2SO4
	GYPSUM
	HEMIHYD
	ANHYDRITE
	SFUME
	INERT
	SLAG
	ASG
	CAS2
	AMSIL
	FAC3A
	CH
	CSH
	C3AH6
	ETTR
	ETTRC4AF
	AFM
	FH3
	POZZCSH
	SLAGCSH
	CACL2
	FRIEDEL
	STRAT
	GYPSUMS
	CACO3
	AFMC
	BRUCITE
	MS
	FREELIME
	OC3A
	AGG
	ITZ
	EMPTYP
	CRACKP
	// Diffusing species left behind by the hydration model
	DIFFCSH
	DIFFCH
	DIFFGYP
	DIFFC3A
	DIFFC4A
	DIFFFH3
	DIFFETTR
	DIFFCACO3
	DIFFAS
	DIFFANH
	DIFFHEM
	DIFFCAS2
	DIFFCACL2
	DIFFSO4
)

// NSP is the largest valid phase label
const NSP = DIFFSO4

// NPhases is the number of labels, the length of any per-phase table
const NPhases = int(NSP) + 1

var (
	PhasePrintNames = [NPhases]string{
		"POROSITY", "C3S", "C2S", "C3A", "C4AF", "K2SO4", "NA2SO4", "GYPSUM",
		"HEMIHYD", "ANHYDRITE", "SFUME", "INERT", "SLAG", "ASG", "CAS2", "AMSIL",
		"FAC3A", "CH", "CSH", "C3AH6", "ETTR", "ETTRC4AF", "AFM", "FH3",
		"POZZCSH", "SLAGCSH", "CACL2", "FRIEDEL", "STRAT", "GYPSUMS", "CACO3",
		"AFMC", "BRUCITE", "MS", "FREELIME", "OC3A", "AGG", "ITZ", "EMPTYP",
		"CRACKP", "DIFFCSH", "DIFFCH", "DIFFGYP", "DIFFC3A", "DIFFC4A",
		"DIFFFH3", "DIFFETTR", "DIFFCACO3", "DIFFAS", "DIFFANH", "DIFFHEM",
		"DIFFCAS2", "DIFFCACL2", "DIFFSO4",
	}
	PhaseNames = func() (m map[string]Phase) {
		m = make(map[string]Phase, NPhases)
		for i, name := range PhasePrintNames {
			m[strings.ToLower(name)] = Phase(i)
		}
		return
	}()
	// Solid counterpart of every diffusing species
	diffusingToSolid = map[Phase]Phase{
		DIFFCSH:   CSH,
		DIFFCH:    CH,
		DIFFGYP:   GYPSUM,
		DIFFC3A:   C3A,
		DIFFC4A:   C4AF,
		DIFFFH3:   FH3,
		DIFFETTR:  ETTR,
		DIFFCACO3: CACO3,
		DIFFAS:    ASG,
		DIFFANH:   ANHYDRITE,
		DIFFHEM:   HEMIHYD,
		DIFFCAS2:  CAS2,
		DIFFCACL2: CACL2,
		DIFFSO4:   GYPSUMS,
	}
)

func (p Phase) Print() string {
	if int(p) >= NPhases {
		return fmt.Sprintf("PHASE(%d)", int(p))
	}
	return PhasePrintNames[p]
}

// IsDiffusing reports a dissolved species that converts to its solid phase
func (p Phase) IsDiffusing() bool {
	_, ok := diffusingToSolid[p]
	return ok
}

// NewPhase finds a phase by case-insensitive name
func NewPhase(label string) (p Phase, err error) {
	var (
		ok bool
	)
	if p, ok = PhaseNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown phase name %q", label)
	}
	return
}

// LegacyVersion is the first image version carrying the alkali sulfate labels.
// Older images number everything from K2SO4 upward two labels lower.
const LegacyVersion = 3.0

// ConvertID maps an on-disk label to the internal enumeration. Labels outside
// [0, NSP] after conversion are rejected.
func ConvertID(old int, version float64) (p Phase, ok bool) {
	if version < LegacyVersion && old >= int(K2SO4) {
		old += 2
	}
	if old < 0 || old > int(NSP) {
		return
	}
	p, ok = Phase(old), true
	if p.IsDiffusing() {
		p = diffusingToSolid[p]
	}
	return
}
