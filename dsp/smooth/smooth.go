// Package smooth provides moving-average smoothing and discrete
// differentiation for one-dimensional signals.
package smooth

import (
	"errors"

	"github.com/cwbudde/algo-ecg/dsp/conv"
)

// ErrEmptySignal indicates an empty input signal.
var ErrEmptySignal = errors.New("smooth: empty signal")

// MovingAverage smooths x with a centered boxcar of the given size and
// returns a new slice of the same length. The input is extended with edge
// values before convolving so the borders stay close to the signal level.
// Sizes below one are clamped to one (identity); sizes above the signal
// length are clamped to the signal length.
func MovingAverage(x []float64, size int) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	if size < 1 {
		size = 1
	}
	if size > len(x) {
		size = len(x)
	}
	if size == 1 {
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	}

	kernel := make([]float64, size)
	for i := range kernel {
		kernel[i] = 1 / float64(size)
	}

	// Edge padding by size samples on both ends.
	padded := make([]float64, 0, len(x)+2*size)
	for i := 0; i < size; i++ {
		padded = append(padded, x[0])
	}
	padded = append(padded, x...)
	for i := 0; i < size; i++ {
		padded = append(padded, x[len(x)-1])
	}

	full, err := conv.Convolve(padded, kernel)
	if err != nil {
		return nil, err
	}

	// Center of the full result aligned with the unpadded signal.
	start := size + (size-1)/2
	return full[start : start+len(x)], nil
}

// Gradient returns the discrete first derivative of x using central
// differences for interior samples and one-sided differences at the edges.
// A single-sample signal has zero gradient.
func Gradient(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n < 2 {
		return out
	}

	out[0] = x[1] - x[0]
	out[n-1] = x[n-1] - x[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (x[i+1] - x[i-1]) / 2
	}
	return out
}

// SecondDerivative returns the discrete second derivative of x, computed as
// the gradient of the gradient.
func SecondDerivative(x []float64) []float64 {
	return Gradient(Gradient(x))
}
