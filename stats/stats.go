// Package stats computes time-domain statistics of signal windows in a
// single pass. The delineators use these as adaptive thresholds: RMS as a
// local noise-floor estimate, Range as an amplitude reference for height
// floors.
package stats

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Window holds the statistics of one signal window.
type Window struct {
	Length        int
	Mean          float64
	RMS           float64
	Min           float64
	MinPos        int
	Max           float64
	MaxPos        int
	Range         float64 // Max - Min
	Energy        float64 // sum of squares
	Variance      float64
	ZeroCrossings int
}

// Calculate computes all window statistics in one pass using Welford's
// online algorithm for the variance.
func Calculate(x []float64) Window {
	n := len(x)
	if n == 0 {
		return Window{}
	}

	var (
		mean  float64
		m2    float64
		sumSq float64
	)
	minVal, maxVal := x[0], x[0]
	minPos, maxPos := 0, 0
	zeroCrossings := 0

	for i, v := range x {
		delta := v - mean
		mean += delta / float64(i+1)
		m2 += delta * (v - mean)

		sumSq += v * v

		if v > maxVal {
			maxVal = v
			maxPos = i
		}
		if v < minVal {
			minVal = v
			minPos = i
		}
		if i > 0 && x[i-1]*v < 0 {
			zeroCrossings++
		}
	}

	return Window{
		Length:        n,
		Mean:          mean,
		RMS:           math.Sqrt(sumSq / float64(n)),
		Min:           minVal,
		MinPos:        minPos,
		Max:           maxVal,
		MaxPos:        maxPos,
		Range:         maxVal - minVal,
		Energy:        sumSq,
		Variance:      m2 / float64(n),
		ZeroCrossings: zeroCrossings,
	}
}

// RMS returns the root-mean-square of x, or 0 for an empty slice. The
// squaring runs through the SIMD block multiply.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	sq := make([]float64, len(x))
	vecmath.MulBlock(sq, x, x)

	var sum float64
	for _, v := range sq {
		sum += v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Range returns max(x) - min(x), or 0 for an empty slice.
func Range(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	minVal, maxVal := x[0], x[0]
	for _, v := range x {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal - minVal
}

// Max returns the maximum of x, or 0 for an empty slice.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	maxVal := x[0]
	for _, v := range x[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// ArgMax returns the index of the maximum of x, or -1 for an empty slice.
func ArgMax(x []float64) int {
	if len(x) == 0 {
		return -1
	}
	pos := 0
	for i, v := range x {
		if v > x[pos] {
			pos = i
		}
	}
	return pos
}
