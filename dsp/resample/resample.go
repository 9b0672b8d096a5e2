// Package resample provides sample-rate conversion by uniform cubic
// interpolation, plus the matching integer index mapping.
//
// The delineation pipeline resamples a signal to a fixed analysis rate,
// searches it, and maps the found sample indices back to the original rate.
// Points is the index-space counterpart of Signal: for any index p and rate
// pair (r, r'), Points(Points(p, r→r'), r'→r) is within one sample of p.
package resample

import (
	"errors"
	"math"
)

// ErrInvalidRate indicates a non-positive or non-finite sample rate.
var ErrInvalidRate = errors.New("resample: invalid sample rate")

// ErrEmptySignal indicates an empty input signal.
var ErrEmptySignal = errors.New("resample: empty signal")

// Signal converts x from rate to desiredRate using cubic 4-point (Hermite)
// interpolation and returns a new slice of length
// round(len(x) * desiredRate / rate).
func Signal(x []float64, rate, desiredRate float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	if !validRate(rate) || !validRate(desiredRate) {
		return nil, ErrInvalidRate
	}

	if rate == desiredRate {
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	}

	ratio := desiredRate / rate
	outLen := int(math.Round(float64(len(x)) * ratio))
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float64, outLen)
	for j := range out {
		pos := float64(j) / ratio
		i := int(math.Floor(pos))
		frac := pos - float64(i)

		out[j] = hermite4(frac,
			x[clampIndex(i-1, len(x))],
			x[clampIndex(i, len(x))],
			x[clampIndex(i+1, len(x))],
			x[clampIndex(i+2, len(x))])
	}
	return out, nil
}

// Points maps sample indices from rate to desiredRate by scaling and
// rounding. Negative sentinel indices are passed through unchanged so
// undefined markers survive the mapping.
func Points(points []int, rate, desiredRate float64) []int {
	out := make([]int, len(points))
	for i, p := range points {
		if p < 0 {
			out[i] = p
			continue
		}
		out[i] = int(math.Round(float64(p) * desiredRate / rate))
	}
	return out
}

// hermite4 computes cubic 4-point interpolation between x0 and x1 at
// fractional position t in [0, 1], using neighbor points xm1 and x2.
func hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func validRate(r float64) bool {
	return r > 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}
