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
	"errors"
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jwbullard/VCCTL-sub001/voxel"
)

// Exit codes
const (
	ExitConverged    = 0
	ExitFatal        = 1
	ExitNotConverged = 2
)

// ErrNotConverged marks a run that finished and wrote its results without
// reaching the gradient threshold
var ErrNotConverged = errors.New("solution did not converge")

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vcctl",
	Short: "Effective elastic and transport properties of cement microstructures",
	Long: `
Relaxes the displacement or voltage field over a periodic voxel image of a
cement paste and reports the effective moduli or conductivity,

vcctl elastic -I run.yaml
vcctl transport -I run.yaml
vcctl verify -F paste.img`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExitCode maps a command error onto the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitConverged
	case errors.Is(err, ErrNotConverged):
		return ExitNotConverged
	}
	return ExitFatal
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
	}
	os.Exit(ExitCode(err))
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vcctl.yaml)")
	rootCmd.PersistentFlags().IntP("parallel", "p", 0, "go routines used by the solvers, 0 uses every CPU")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "echo the parsed run description")
	rootCmd.PersistentFlags().Bool("profile", false, "write a CPU profile of the solve into the output directory")
	rootCmd.PersistentFlags().Bool("perf", false, "count CPU instructions of one operator product (linux)")
	for _, key := range []string{"parallel", "verbose", "profile", "perf"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}
	viper.SetDefault("size", []int{voxel.DefaultSize, voxel.DefaultSize, voxel.DefaultSize})
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(ExitFatal)
		}
		// Search config in home directory with name ".vcctl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".vcctl")
	}
	viper.SetEnvPrefix("VCCTL")
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
