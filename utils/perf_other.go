//go:build !linux

package utils

import "fmt"

func CountInstructions(fn func()) (count uint64, err error) {
	fn()
	err = fmt.Errorf("hardware counters are only available on linux")
	return
}
