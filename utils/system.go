package utils

import (
	"fmt"
	"math"
	"runtime"
)

// GetMemUsage summarises the heap for the final line of a solve
func GetMemUsage() string {
	var (
		m   runtime.MemStats
		mib = func(b uint64) float64 { return float64(b) / (1 << 20) }
	)
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("Memory: heap %.1f MiB, peak reserved %.1f MiB, %d collections",
		mib(m.HeapAlloc), mib(m.Sys), m.NumGC)
}

// IsNan reports NaN or Inf anywhere in A
func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v) || math.IsInf(v, 0)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return true
			}
		}
	case [][3]float64:
		for _, f := range v {
			if IsNan(f[:]) {
				return true
			}
		}
	}
	return false
}
