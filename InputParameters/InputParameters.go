package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/jwbullard/VCCTL-sub001/elastic"
	"github.com/jwbullard/VCCTL-sub001/material"
	"github.com/jwbullard/VCCTL-sub001/transport"
	"github.com/jwbullard/VCCTL-sub001/types"
	"github.com/jwbullard/VCCTL-sub001/voxel"
)

// Shared between both solvers, obtained from the YAML input file
type Common struct {
	Title        string  `json:"Title"`
	ImageFile    string  `json:"ImageFile"`
	OutputDir    string  `json:"OutputDir"`
	ProgressFile string  `json:"ProgressFile"`
	Size         []int   `json:"Size"` // Grid of headerless images
	Ldemb        int     `json:"Ldemb"`
	Kmax         int     `json:"Kmax"`
	GtestEps     float64 `json:"GtestEps"`
	LayerAxis    string  `json:"LayerAxis"` // x, y or z, empty for no layer report
}

type Elastic struct {
	Common
	Strain     []float64                        `json:"Strain"`
	FullTensor bool                             `json:"FullTensor"`
	Phases     map[string]material.ElasticPhase `json:"Phases"` // Keyed by phase name
}

type Transport struct {
	Common
	Field        []float64             `json:"Field"`
	Conductivity map[string][3]float64 `json:"Conductivity"` // Keyed by phase name
}

func (ip *Elastic) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *Transport) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func parseAxis(name string) (axis int, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		axis = -1
	case "x":
		axis = 0
	case "y":
		axis = 1
	case "z":
		axis = 2
	default:
		err = fmt.Errorf("layer axis %q is not one of x, y, z", name)
	}
	return
}

// DefaultGrid sizes headerless images, 100 voxels per edge when not given
func (c *Common) DefaultGrid() (g voxel.Grid, err error) {
	switch len(c.Size) {
	case 0:
		return voxel.NewGrid(voxel.DefaultSize, voxel.DefaultSize, voxel.DefaultSize)
	case 3:
		return voxel.NewGrid(c.Size[0], c.Size[1], c.Size[2])
	}
	err = fmt.Errorf("size needs three dimensions, have %v", c.Size)
	return
}

func (c *Common) apply(ldemb, kmax *int, eps *float64, layerAxis *int) (err error) {
	if c.Ldemb > 0 {
		*ldemb = c.Ldemb
	}
	if c.Kmax > 0 {
		*kmax = c.Kmax
	}
	if c.GtestEps > 0 {
		*eps = c.GtestEps
	}
	*layerAxis, err = parseAxis(c.LayerAxis)
	return
}

// Config fills in the solver settings, missing values keep their defaults
func (ip *Elastic) Config() (cfg elastic.Config, err error) {
	cfg = elastic.DefaultConfig()
	err = ip.apply(&cfg.Ldemb, &cfg.Kmax, &cfg.GtestEps, &cfg.LayerAxis)
	return
}

func (ip *Elastic) AppliedStrain() (s elastic.Strain, err error) {
	switch len(ip.Strain) {
	case 0:
		s = elastic.DefaultStrain
	case 6:
		copy(s[:], ip.Strain)
	default:
		err = fmt.Errorf("strain needs six components xx,yy,zz,yz,xz,xy, have %d", len(ip.Strain))
	}
	return
}

func (ip *Elastic) Overrides() (ov map[types.Phase]material.ElasticPhase, err error) {
	ov = make(map[types.Phase]material.ElasticPhase, len(ip.Phases))
	for name, ep := range ip.Phases {
		var p types.Phase
		if p, err = types.NewPhase(name); err != nil {
			return
		}
		ov[p] = ep
	}
	return
}

func (ip *Transport) Config() (cfg transport.Config, err error) {
	cfg = transport.DefaultConfig()
	err = ip.apply(&cfg.Ldemb, &cfg.Kmax, &cfg.GtestEps, &cfg.LayerAxis)
	return
}

func (ip *Transport) AppliedField() (f transport.Field, err error) {
	switch len(ip.Field) {
	case 0:
		f = transport.DefaultField
	case 3:
		copy(f[:], ip.Field)
	default:
		err = fmt.Errorf("field needs three components, have %d", len(ip.Field))
	}
	return
}

func (ip *Transport) Overrides() (ov map[types.Phase][3]float64, err error) {
	ov = make(map[types.Phase][3]float64, len(ip.Conductivity))
	for name, s := range ip.Conductivity {
		var p types.Phase
		if p, err = types.NewPhase(name); err != nil {
			return
		}
		ov[p] = s
	}
	return
}

func (c *Common) print() {
	fmt.Printf("\"%s\"\t\t= Title\n", c.Title)
	fmt.Printf("[%s]\t= Image File\n", c.ImageFile)
	fmt.Printf("[%s]\t= Output Directory\n", c.OutputDir)
	fmt.Printf("[%d]\t\t\t\t= Steps per Call\n", c.Ldemb)
	fmt.Printf("[%d]\t\t\t\t= Max Calls\n", c.Kmax)
	fmt.Printf("%8.5g\t\t= Gtest Epsilon\n", c.GtestEps)
	if len(c.LayerAxis) != 0 {
		fmt.Printf("[%s]\t\t\t\t= Layer Axis\n", c.LayerAxis)
	}
}

func sortedKeys[T any](m map[string]T) (keys []string) {
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

func (ip *Elastic) Print() {
	ip.Common.print()
	fmt.Printf("%v\t= Strain\n", ip.Strain)
	fmt.Printf("[%v]\t\t\t= Full Tensor\n", ip.FullTensor)
	for _, key := range sortedKeys(ip.Phases) {
		fmt.Printf("Phases[%s] = %v\n", key, ip.Phases[key])
	}
}

func (ip *Transport) Print() {
	ip.Common.print()
	fmt.Printf("%v\t= Field\n", ip.Field)
	for _, key := range sortedKeys(ip.Conductivity) {
		fmt.Printf("Conductivity[%s] = %v\n", key, ip.Conductivity[key])
	}
}
