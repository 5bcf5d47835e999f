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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jwbullard/VCCTL-sub001/InputParameters"
	"github.com/jwbullard/VCCTL-sub001/elastic"
	"github.com/jwbullard/VCCTL-sub001/material"
	"github.com/jwbullard/VCCTL-sub001/report"
	"github.com/jwbullard/VCCTL-sub001/solver"
)

const exampleElastic = `Strain: [0.1, 0.1, 0.1, 0.1, 0.1, 0.1] # xx, yy, zz, yz, xz, xy
FullTensor: false
Ldemb: 100
Kmax: 40
GtestEps: 1.e-7
Phases:
  CSH:
    E: 22.4
    Nu: 0.25
########################################
`

// ElasticCmd represents the elastic command
var ElasticCmd = &cobra.Command{
	Use:   "elastic",
	Short: "Effective elastic moduli by finite element relaxation",
	Long: `
Relaxes the displacements of a periodic voxel image under an applied strain
and reports bulk, shear and Young's moduli and Poisson's ratio,

vcctl elastic -I run.yaml [-F paste.img] [--fullTensor]`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ip := &InputParameters.Elastic{}
		if err = readInput(cmd, ip.Parse, &ip.Common, exampleElastic); err != nil {
			return
		}
		if cmd.Flags().Changed("fullTensor") {
			ip.FullTensor, _ = cmd.Flags().GetBool("fullTensor")
		}
		if viper.GetBool("verbose") {
			ip.Print()
		}
		_, err = RunElastic(ip, os.Stdout)
		return
	},
}

func init() {
	rootCmd.AddCommand(ElasticCmd)
	commonFlags(ElasticCmd)
	ElasticCmd.Flags().Bool("fullTensor", false, "solve the six unit strains for the full stiffness tensor")
}

// RunElastic solves one elastic run and writes its reports. A run that hits
// the iteration cap still writes them and returns ErrNotConverged.
func RunElastic(ip *InputParameters.Elastic, log io.Writer) (res *elastic.Result, err error) {
	var (
		model *material.ElasticModel
		cfg   elastic.Config
		s     elastic.Strain
	)
	ms, err := loadImage(&ip.Common)
	if err != nil {
		return
	}
	overrides, err := ip.Overrides()
	if err != nil {
		return
	}
	if model, err = material.NewElasticModel(overrides); err != nil {
		return
	}
	if cfg, err = ip.Config(); err != nil {
		return
	}
	if s, err = ip.AppliedStrain(); err != nil {
		return
	}
	cfg.Log = log
	cfg.ProcLimit = viper.GetInt("parallel")
	cfg.Progress = progressFunc(ip.ProgressFile, log)
	e := elastic.NewElastic(ms, model, cfg)
	if viper.GetBool("perf") {
		reportInstructions(log, "elastic operator", e, 3*ms.Grid.N())
	}
	prof := startProfile(ip.OutputDir)
	res, err = e.Run(s, ip.FullTensor)
	prof.Stop()
	if err != nil {
		return
	}
	h := report.Header{RunID: res.RunID, Title: ip.Title, ImageFile: ip.ImageFile}
	writers := map[string]func(io.Writer){
		"summary": func(w io.Writer) { report.ElasticSummary(w, h, res) },
		"phases":  func(w io.Writer) { report.ElasticPhases(w, h, res) },
	}
	if len(res.Layers) != 0 {
		writers["layers"] = func(w io.Writer) { report.ElasticLayers(w, h, res) }
	}
	if err = reportFiles(&ip.Common, "elas", writers); err != nil {
		return
	}
	report.ElasticSummary(log, h, res)
	if res.Status != solver.Converged {
		err = fmt.Errorf("elastic run %s: %s: %w", res.RunID, res.Status.Print(), ErrNotConverged)
	}
	return
}
