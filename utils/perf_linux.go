//go:build linux

package utils

import (
	perf "github.com/hodgesds/perf-utils"
)

// CountInstructions reports the CPU instructions retired while fn runs
func CountInstructions(fn func()) (count uint64, err error) {
	var (
		pv *perf.ProfileValue
	)
	if pv, err = perf.CPUInstructions(func() error {
		fn()
		return nil
	}); err != nil {
		return
	}
	count = pv.Value
	return
}
