package timing

import (
	"math"
	"slices"
)

// welford online mean and variance
type welford struct {
	n    float64
	mean float64
	m2   float64
}

func (w *welford) push(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / w.n
	w.m2 += delta * (x - w.mean)
}

func (w *welford) variance() float64 {
	if w.n < 2 {
		return 0
	}
	return w.m2 / (w.n - 1)
}

// welchT Welch's t statistic between two samples; zero when either side lacks data or variance
func welchT(a, b *welford) float64 {
	if a.n < 2 || b.n < 2 {
		return 0
	}
	den := math.Sqrt(a.variance()/a.n + b.variance()/b.n)
	if den == 0 {
		return 0
	}
	return (a.mean - b.mean) / den
}

// percentile value below which a fraction p of durations lies, nearest rank
func percentile(durations []int64, p float64) int64 {
	if len(durations) == 0 {
		return 0
	}
	sorted := slices.Clone(durations)
	slices.Sort(sorted)
	i := int(math.Ceil(p*float64(len(sorted)))) - 1
	return sorted[min(max(i, 0), len(sorted)-1)]
}
