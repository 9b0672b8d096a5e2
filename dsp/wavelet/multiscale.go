// Package wavelet provides the two signal decompositions used by the ECG
// delineators: a dyadic à-trous multiscale decomposition built from a fixed
// two-filter cascade, and a continuous wavelet transform with a
// first-derivative-of-Gaussian wavelet.
package wavelet

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-ecg/dsp/conv"
)

// Errors returned by the decompositions.
var (
	ErrEmptySignal   = errors.New("wavelet: empty signal")
	ErrInvalidDegree = errors.New("wavelet: scale degree out of range")
	ErrInvalidScales = errors.New("wavelet: scales must be positive")
)

// Multiscale holds the detail signals of an à-trous decomposition. Higher
// degrees correspond to coarser (lower-frequency) detail. All detail signals
// have the length of the decomposed input.
type Multiscale struct {
	details [][]float64
}

// Decompose computes degrees detail signals of x.
//
// Each stage convolves a running residual with two dilated kernels: a 4-tap
// low-pass (1/8, 3/8, 3/8, 1/8) producing the next residual and a 2-tap
// difference (2, -2) producing the stage's detail signal. Kernel taps are
// spaced by 2^degree-1 zeros, and each convolution result is shifted left by
// 2^degree samples to remove the filter delay, keeping every scale aligned
// with the input.
func Decompose(x []float64, degrees int) (*Multiscale, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	if degrees < 1 {
		return nil, ErrInvalidDegree
	}

	residual := make([]float64, len(x))
	copy(residual, x)

	details := make([][]float64, 0, degrees)
	for deg := 0; deg < degrees; deg++ {
		detail, err := applyCascadeFilter(residual, differenceKernel(deg), 1<<deg)
		if err != nil {
			return nil, err
		}
		next, err := applyCascadeFilter(residual, lowpassKernel(deg), 1<<deg)
		if err != nil {
			return nil, err
		}
		details = append(details, detail[:len(x)])
		residual = next
	}
	return &Multiscale{details: details}, nil
}

// Degrees returns the number of decomposed scales.
func (m *Multiscale) Degrees() int {
	return len(m.details)
}

// Detail returns the detail signal at the given scale degree. The returned
// slice is shared, not copied; treat it as read-only.
func (m *Multiscale) Detail(degree int) ([]float64, error) {
	if degree < 0 || degree >= len(m.details) {
		return nil, ErrInvalidDegree
	}
	return m.details[degree], nil
}

// CompensationDegree returns the scale-degree offset that maps the 250 Hz
// reference design onto the given sampling rate: floor(log2(rate / 250)).
// Rates below 250 Hz yield a negative offset and are outside the design
// range of the delineators.
func CompensationDegree(samplingRate float64) int {
	return int(math.Floor(math.Log2(samplingRate / 250)))
}

// applyCascadeFilter convolves x with the kernel and shifts the result left
// by delay samples, mirroring the causal delay correction of the cascade.
// The trailing delay samples keep their pre-shift values; callers truncate
// the usable range to the original signal length.
func applyCascadeFilter(x, kernel []float64, delay int) ([]float64, error) {
	full, err := conv.Convolve(x, kernel)
	if err != nil {
		return nil, err
	}
	copy(full, full[delay:])
	return full, nil
}

// lowpassKernel returns the dilated 4-tap averaging kernel for the degree.
func lowpassKernel(degree int) []float64 {
	gap := 1<<degree - 1
	kernel := make([]float64, 3*(gap+1)+1)
	kernel[0] = 1.0 / 8
	kernel[gap+1] = 3.0 / 8
	kernel[2*(gap+1)] = 3.0 / 8
	kernel[3*(gap+1)] = 1.0 / 8
	return kernel
}

// differenceKernel returns the dilated 2-tap difference kernel for the degree.
func differenceKernel(degree int) []float64 {
	gap := 1<<degree - 1
	kernel := make([]float64, gap+2)
	kernel[0] = 2
	kernel[gap+1] = -2
	return kernel
}
