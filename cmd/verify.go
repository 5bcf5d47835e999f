/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/jwbullard/VCCTL-sub001/InputParameters"
	"github.com/jwbullard/VCCTL-sub001/elastic"
	"github.com/jwbullard/VCCTL-sub001/material"
	"github.com/jwbullard/VCCTL-sub001/solver"
	"github.com/jwbullard/VCCTL-sub001/transport"
	"github.com/jwbullard/VCCTL-sub001/utils"
	"github.com/jwbullard/VCCTL-sub001/voxel"
)

// VerifyTolerance bounds the relative difference between the assembled and
// matrix free products
const VerifyTolerance = 1.e-10

// VerifyCmd represents the verify command
var VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the matrix free operators against explicitly assembled matrices",
	Long: `
Assembles the elastic stiffness and the conductance matrix of a small image,
checks that both are symmetric and that they reproduce the matrix free
products used by the solvers,

vcctl verify -F small.img [--size 10,10,10]`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			c         InputParameters.Common
			maxVoxels int
			ms        *voxel.Microstructure
		)
		if c.ImageFile, err = cmd.Flags().GetString("imageFile"); err != nil {
			return
		}
		if len(c.ImageFile) == 0 {
			return fmt.Errorf("must supply an image file (-F, --imageFile)")
		}
		if c.Size, err = cmd.Flags().GetIntSlice("size"); err != nil {
			return
		}
		maxVoxels, _ = cmd.Flags().GetInt("maxVoxels")
		if ms, err = loadImage(&c); err != nil {
			return
		}
		if ms.Grid.N() > maxVoxels {
			return fmt.Errorf("%s grid exceeds %d voxels, assembly is for small images", ms.Grid, maxVoxels)
		}
		return Verify(ms, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(VerifyCmd)
	VerifyCmd.Flags().StringP("imageFile", "F", "", "microstructure image")
	VerifyCmd.Flags().IntSlice("size", nil, "grid of a headerless image")
	VerifyCmd.Flags().Int("maxVoxels", 4096, "largest grid to assemble")
}

// Verify compares both assembled operators with their matrix free products
func Verify(ms *voxel.Microstructure, log io.Writer) (err error) {
	var (
		em *material.ElasticModel
		cm *material.ConductivityModel
	)
	if em, err = material.NewElasticModel(nil); err != nil {
		return
	}
	if cm, err = material.NewConductivityModel(nil); err != nil {
		return
	}
	var (
		ecfg = elastic.DefaultConfig()
		tcfg = transport.DefaultConfig()
	)
	ecfg.ProcLimit = viper.GetInt("parallel")
	tcfg.ProcLimit = ecfg.ProcLimit
	e := elastic.NewElastic(ms, em, ecfg)
	if err = verifyOperator(log, "elastic stiffness", e, e.Assemble()); err != nil {
		return
	}
	tr := transport.NewTransport(ms, cm, tcfg)
	return verifyOperator(log, "conductance", tr, tr.Assemble())
}

func verifyOperator(log io.Writer, name string, op solver.Operator, A utils.DOK) (err error) {
	var (
		n, _ = A.Dims()
		rng  = rand.New(rand.NewSource(1))
		x    = make([]float64, n)
		y    = make([]float64, n)
	)
	for i := range x {
		x[i] = rng.Float64() - 0.5
	}
	op.Apply(x, y)
	yA := A.ToCSR().MulVec(x)
	var (
		scale = math.Max(floats.Norm(yA, math.Inf(1)), 1)
		diff  = floats.Distance(y, yA, math.Inf(1)) / scale
		asym  = A.Asymmetry() / scale
	)
	fmt.Fprintf(log, "%-18s %8d rows %10d nonzeros  asymmetry = %10.3e  |Ax - A*x| = %10.3e\n",
		name, n, A.NNZ(), asym, diff)
	if diff > VerifyTolerance || asym > VerifyTolerance {
		return fmt.Errorf("%s operator disagrees with its assembled matrix: %g, asymmetry %g", name, diff, asym)
	}
	if viper.GetBool("perf") {
		reportInstructions(log, name, op, n)
	}
	return
}

func reportInstructions(log io.Writer, name string, op solver.Operator, n int) {
	var (
		x = make([]float64, n)
		y = make([]float64, n)
	)
	count, err := utils.CountInstructions(func() { op.Apply(x, y) })
	if err != nil {
		fmt.Fprintf(log, "%s: instruction count unavailable: %s\n", name, err)
		return
	}
	fmt.Fprintf(log, "%s: %d instructions per product, %.1f per unknown\n", name, count, float64(count)/float64(n))
}
