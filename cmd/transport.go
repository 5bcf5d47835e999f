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
	"github.com/jwbullard/VCCTL-sub001/material"
	"github.com/jwbullard/VCCTL-sub001/report"
	"github.com/jwbullard/VCCTL-sub001/solver"
	"github.com/jwbullard/VCCTL-sub001/transport"
)

const exampleTransport = `Field: [1, 1, 1]
Ldemb: 8000
Kmax: 1
GtestEps: 5.e-9
Conductivity:
  CSH: [0.0025, 0.0025, 0.0025]
########################################
`

// TransportCmd represents the transport command
var TransportCmd = &cobra.Command{
	Use:   "transport",
	Short: "Effective conductivity and formation factor of a conductor network",
	Long: `
Relaxes the voltages of a periodic voxel image under an applied field and
reports the conductivity relative to the pore solution and the formation factor,

vcctl transport -I run.yaml [-F paste.img]`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ip := &InputParameters.Transport{}
		if err = readInput(cmd, ip.Parse, &ip.Common, exampleTransport); err != nil {
			return
		}
		if viper.GetBool("verbose") {
			ip.Print()
		}
		_, err = RunTransport(ip, os.Stdout)
		return
	},
}

func init() {
	rootCmd.AddCommand(TransportCmd)
	commonFlags(TransportCmd)
}

// RunTransport solves one transport run and writes its reports
func RunTransport(ip *InputParameters.Transport, log io.Writer) (res *transport.Result, err error) {
	var (
		model *material.ConductivityModel
		cfg   transport.Config
		f     transport.Field
	)
	ms, err := loadImage(&ip.Common)
	if err != nil {
		return
	}
	overrides, err := ip.Overrides()
	if err != nil {
		return
	}
	if model, err = material.NewConductivityModel(overrides); err != nil {
		return
	}
	if cfg, err = ip.Config(); err != nil {
		return
	}
	if f, err = ip.AppliedField(); err != nil {
		return
	}
	cfg.Log = log
	cfg.ProcLimit = viper.GetInt("parallel")
	cfg.Progress = progressFunc(ip.ProgressFile, log)
	tr := transport.NewTransport(ms, model, cfg)
	if viper.GetBool("perf") {
		reportInstructions(log, "transport operator", tr, ms.Grid.N())
	}
	prof := startProfile(ip.OutputDir)
	res, err = tr.Run(f)
	prof.Stop()
	if err != nil {
		return
	}
	h := report.Header{RunID: res.RunID, Title: ip.Title, ImageFile: ip.ImageFile}
	writers := map[string]func(io.Writer){
		"summary": func(w io.Writer) { report.TransportSummary(w, h, res) },
		"phases":  func(w io.Writer) { report.TransportPhases(w, h, res) },
	}
	if len(res.Layers) != 0 {
		writers["layers"] = func(w io.Writer) { report.TransportLayers(w, h, res) }
	}
	if err = reportFiles(&ip.Common, "cond", writers); err != nil {
		return
	}
	report.TransportSummary(log, h, res)
	if res.Status != solver.Converged {
		err = fmt.Errorf("transport run %s: %s: %w", res.RunID, res.Status.Print(), ErrNotConverged)
	}
	return
}
