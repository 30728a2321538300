package util

import (
	"math"

	"github.com/rcrowley/go-metrics"
)

// ----------------------------------------------------------------------------
// Distribution statistics
// ----------------------------------------------------------------------------

type Stats struct {
	Count        int64   `json:"count"`
	StdDeviation float64 `json:"std_deviation"`
	Min          int64   `json:"min"`
	Max          int64   `json:"max"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	MinMaxRatio  float64 `json:"min_max_ratio"`
}

// NewStats summarises a set of sizes (e.g. entries per bucket).
// All samples are kept, so the values are exact.
func NewStats(sizes []int) Stats {
	if len(sizes) == 0 {
		return Stats{}
	}

	h := metrics.NewHistogram(metrics.NewUniformSample(len(sizes)))
	for _, s := range sizes {
		h.Update(int64(s))
	}
	snap := h.Snapshot()

	minMaxRatio := 1.0
	if snap.Max() > 0 {
		minMaxRatio = float64(snap.Min()) / float64(snap.Max())
	}

	return Stats{
		Count:        snap.Count(),
		StdDeviation: snap.StdDev(),
		Min:          snap.Min(),
		Max:          snap.Max(),
		Mean:         snap.Mean(),
		Median:       snap.Percentile(0.5),
		MinMaxRatio:  minMaxRatio,
	}
}

type DistributionStats struct {
	Stats
	DistributionQuality float64 `json:"distribution_quality"`
}

// NewDistributionStats computes quality metrics for the spread of entries
// over buckets. A quality of 1 means every bucket holds the same number of
// entries.
func NewDistributionStats(bucketSizes []int) DistributionStats {
	stats := NewStats(bucketSizes)

	// coefficient of variation
	var cv float64
	if stats.Mean > 0 {
		cv = stats.StdDeviation / stats.Mean
	}

	// lower CV and higher min/max ratio indicate a better distribution
	quality := (1.0-math.Min(1.0, cv))*0.5 + stats.MinMaxRatio*0.5

	return DistributionStats{
		Stats:               stats,
		DistributionQuality: quality,
	}
}
