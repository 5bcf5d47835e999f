package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwbullard/VCCTL-sub001/InputParameters"
	"github.com/jwbullard/VCCTL-sub001/report"
	"github.com/jwbullard/VCCTL-sub001/solver"
	"github.com/jwbullard/VCCTL-sub001/types"
	"github.com/jwbullard/VCCTL-sub001/voxel"
)

func writeImage(t *testing.T, dir string, ms *voxel.Microstructure) (path string) {
	path = filepath.Join(dir, "paste.img")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, ms.WriteImage(f))
	require.NoError(t, f.Close())
	return
}

// mixedPaste alternates pore and hydrate voxels along x, CH fills every third y row
func mixedPaste(g voxel.Grid) (ms *voxel.Microstructure) {
	ms = voxel.NewUniform(g, types.POROSITY)
	for m := range ms.Pix {
		c := g.Coordinate(m)
		switch {
		case c.J%3 == 2:
			ms.Pix[m] = types.CH
		case c.I%2 == 1:
			ms.Pix[m] = types.CSH
		}
	}
	return
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitConverged, ExitCode(nil))
	assert.Equal(t, ExitNotConverged, ExitCode(ErrNotConverged))
	assert.Equal(t, ExitFatal, ExitCode(voxel.ErrBadHeader))
	assert.Equal(t, ExitFatal, ExitCode(solver.ErrDegenerate))
}

func TestRunElastic(t *testing.T) {
	viper.Set("parallel", 2)
	var (
		dir = t.TempDir()
		g   = voxel.Grid{Nx: 3, Ny: 3, Nz: 3}
		ip  = &InputParameters.Elastic{}
		log bytes.Buffer
	)
	ip.ImageFile = writeImage(t, dir, voxel.NewUniform(g, types.CSH))
	ip.OutputDir = filepath.Join(dir, "out")
	ip.ProgressFile = filepath.Join(dir, "out", "progress.json")
	ip.LayerAxis = "z"
	{ // A converged run writes every report
		res, err := RunElastic(ip, &log)
		require.NoError(t, err)
		assert.Equal(t, solver.Converged, res.Status)
		for _, kind := range []string{"summary", "phases", "layers"} {
			assert.FileExists(t, filepath.Join(ip.OutputDir, "paste.elas."+kind))
		}
		assert.Contains(t, log.String(), "# run "+res.RunID)
	}
	{ // Out of budget still reports, with its own exit code
		ip.ImageFile = writeImage(t, dir, mixedPaste(voxel.Grid{Nx: 4, Ny: 3, Nz: 2}))
		ip.Ldemb, ip.Kmax, ip.GtestEps = 1, 1, 1.e-30
		res, err := RunElastic(ip, &log)
		assert.True(t, errors.Is(err, ErrNotConverged))
		assert.Equal(t, ExitNotConverged, ExitCode(err))
		require.NotNil(t, res)
		assert.Equal(t, solver.IterationCap, res.Status)
		s, err := report.ReadSentinel(ip.ProgressFile)
		require.NoError(t, err)
		assert.Equal(t, 1, s.MaxCycle)
	}
	{ // Load failures are fatal
		ip.ImageFile = filepath.Join(dir, "missing.img")
		_, err := RunElastic(ip, &log)
		assert.Equal(t, ExitFatal, ExitCode(err))
	}
}

func TestRunTransport(t *testing.T) {
	viper.Set("parallel", 1)
	var (
		dir = t.TempDir()
		ip  = &InputParameters.Transport{}
		log bytes.Buffer
	)
	ip.ImageFile = writeImage(t, dir, mixedPaste(voxel.Grid{Nx: 4, Ny: 3, Nz: 2}))
	ip.OutputDir = dir
	ip.Conductivity = map[string][3]float64{"csh": {0.01, 0.01, 0.01}}
	ip.GtestEps = 1.e-20
	res, err := RunTransport(ip, &log)
	require.NoError(t, err)
	assert.Equal(t, solver.Converged, res.Status)
	// Rows of CH block every path along y
	assert.InDelta(t, 0., res.Sigma[1], 1.e-6)
	assert.Greater(t, res.Sigma[2], res.Sigma[0])
	assert.FileExists(t, filepath.Join(dir, "paste.cond.summary"))
	assert.NoFileExists(t, filepath.Join(dir, "paste.cond.layers"))
	{ // Unknown phase in the overrides
		ip.Conductivity["cement"] = [3]float64{1, 1, 1}
		_, err = RunTransport(ip, &log)
		assert.Equal(t, ExitFatal, ExitCode(err))
	}
}

func TestVerify(t *testing.T) {
	var log bytes.Buffer
	require.NoError(t, Verify(mixedPaste(voxel.Grid{Nx: 3, Ny: 3, Nz: 2}), &log))
	assert.Contains(t, log.String(), "elastic stiffness")
	assert.Contains(t, log.String(), "conductance")
}
