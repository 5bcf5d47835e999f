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
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jwbullard/VCCTL-sub001/InputParameters"
	"github.com/jwbullard/VCCTL-sub001/report"
	"github.com/jwbullard/VCCTL-sub001/voxel"
)

const exampleCommon = `
########################################
Title: "Paste at 28 days"
ImageFile: paste.img
OutputDir: results
ProgressFile: results/progress.json # Optional
Size: [100, 100, 100]   # Only read for headerless images
LayerAxis: x            # Optional layer report against aggregate distance
`

// commonFlags registers the flags every solver command shares
func commonFlags(c *cobra.Command) {
	c.Flags().StringP("inputParametersFile", "I", "", "YAML file describing the run")
	c.Flags().StringP("imageFile", "F", "", "microstructure image, overrides the input file")
	c.Flags().StringP("outputDir", "o", "", "directory for the reports, overrides the input file")
	c.Flags().String("progressFile", "", "JSON progress sentinel, overrides the input file")
}

// readInput loads the YAML run description and applies flag overrides
func readInput(c *cobra.Command, parse func([]byte) error, common *InputParameters.Common, example string) (err error) {
	var (
		ipFile string
		data   []byte
	)
	if ipFile, err = c.Flags().GetString("inputParametersFile"); err != nil {
		return
	}
	if len(ipFile) == 0 {
		fmt.Printf("Example File:%s%s", exampleCommon, example)
		return fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile)")
	}
	if data, err = os.ReadFile(ipFile); err != nil {
		return
	}
	if err = parse(data); err != nil {
		return fmt.Errorf("parsing %s: %w", ipFile, err)
	}
	for flag, target := range map[string]*string{
		"imageFile":    &common.ImageFile,
		"outputDir":    &common.OutputDir,
		"progressFile": &common.ProgressFile,
	} {
		if c.Flags().Changed(flag) {
			*target, _ = c.Flags().GetString(flag)
		}
	}
	if len(common.ImageFile) == 0 {
		return fmt.Errorf("must supply an image file (-F, --imageFile) or ImageFile in %s", ipFile)
	}
	return
}

func loadImage(common *InputParameters.Common) (ms *voxel.Microstructure, err error) {
	var g voxel.Grid
	if len(common.Size) == 0 {
		common.Size = viper.GetIntSlice("size")
	}
	if g, err = common.DefaultGrid(); err != nil {
		return
	}
	return voxel.ReadImageFile(common.ImageFile, g)
}

// startProfile begins CPU profiling into the output directory when asked to
func startProfile(outputDir string) interface{ Stop() } {
	if !viper.GetBool("profile") {
		return nopStop{}
	}
	return profile.Start(profile.CPUProfile, profile.ProfilePath(outputDir), profile.Quiet)
}

type nopStop struct{}

func (nopStop) Stop() {}

func progressFunc(path string, log io.Writer) func(cycle, maxcycle int, gg float64) {
	if len(path) == 0 {
		return nil
	}
	p := report.NewProgress(path)
	return func(cycle, maxcycle int, gg float64) {
		if err := p.Write(cycle, maxcycle, gg); err != nil {
			fmt.Fprintf(log, "progress file: %s\n", err)
		}
	}
}

// reportFiles writes each report next to the others, named after the image
func reportFiles(common *InputParameters.Common, suffix string, writers map[string]func(io.Writer)) (err error) {
	var (
		dir  = common.OutputDir
		base = strings.TrimSuffix(filepath.Base(common.ImageFile), filepath.Ext(common.ImageFile))
	)
	if len(dir) == 0 {
		dir = "."
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	for kind, write := range writers {
		var f *os.File
		if f, err = os.Create(filepath.Join(dir, base+"."+suffix+"."+kind)); err != nil {
			return
		}
		write(f)
		if err = f.Close(); err != nil {
			return
		}
	}
	return
}
