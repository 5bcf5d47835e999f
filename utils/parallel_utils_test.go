package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				histo[kMax-kMin]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Voxel partitions never exceed the voxel count
		pm := NewVoxelPartitions(8, 3)
		assert.Equal(t, 1, pm.ParallelDegree)
		pm = NewVoxelPartitions(0, 1<<20)
		assert.True(t, pm.ParallelDegree >= 1)
	}
	{ // Parallel fan out covers every index once, sums match serial
		x := make([]float64, 1001)
		for i := range x {
			x[i] = float64(i%7) - 2.5
		}
		for _, NP := range []int{1, 3, 8} {
			pm := NewPartitionMap(NP, len(x))
			hits := make([]int, len(x))
			pm.Run(func(np, kMin, kMax int) {
				for k := kMin; k < kMax; k++ {
					hits[k]++
				}
			})
			for _, h := range hits {
				assert.Equal(t, 1, h)
			}
			total := pm.Sum(func(kMin, kMax int) float64 {
				return floats.Dot(x[kMin:kMax], x[kMin:kMax])
			})
			assert.InDelta(t, floats.Dot(x, x), total, 1.e-9)
		}
	}
}
