package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumHash(t *testing.T) {
	// 'a' = 97, 'b' = 98
	assert.Equal(t, 97%32, SumHash("a", 32))
	assert.Equal(t, (97+98)%32, SumHash("ab", 32))
	assert.Equal(t, SumHash("ab", 32), SumHash("ba", 32))
	assert.Equal(t, 0, SumHash("anything", 1))
	assert.Equal(t, 0, SumHash("", 7))

	for i := 0; i < 10; i++ {
		assert.Equal(t, SumHash("stable-key", 13), SumHash("stable-key", 13))
	}
}

func TestNewStats(t *testing.T) {
	s := NewStats([]int{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, int64(8), s.Count)
	assert.Equal(t, int64(2), s.Min)
	assert.Equal(t, int64(9), s.Max)
	assert.InDelta(t, 5.0, s.Mean, 1e-9)
	assert.InDelta(t, 2.0, s.StdDeviation, 0.2)
	assert.InDelta(t, 2.0/9.0, s.MinMaxRatio, 1e-9)

	assert.Equal(t, Stats{}, NewStats(nil))
}

func TestDistributionQuality(t *testing.T) {
	even := NewDistributionStats([]int{3, 3, 3, 3})
	assert.InDelta(t, 1.0, even.DistributionQuality, 1e-9)

	skewed := NewDistributionStats([]int{0, 0, 0, 12})
	assert.Less(t, skewed.DistributionQuality, even.DistributionQuality)

	empty := NewDistributionStats([]int{0, 0})
	assert.InDelta(t, 1.0, empty.MinMaxRatio, 1e-9)
}
