package wavelet

import (
	"math"

	"github.com/cwbudde/algo-ecg/dsp/conv"
)

// DefaultScales is the dyadic scale set used by the CWT delineation path.
// Scale index 2 (scale 4) carries the QRS edges, index 4 (scale 16) the
// P/T waves.
var DefaultScales = []float64{1, 2, 4, 8, 16}

// gaus1Norm makes the first Gaussian derivative wavelet unit-energy.
var gaus1Norm = math.Sqrt2 / math.Pow(math.Pi/2, 0.25)

// Gaus1CWT computes the continuous wavelet transform of x with a
// first-derivative-of-Gaussian wavelet at the given scales. The result has
// one coefficient row per scale, each the length of x.
//
// The coefficient at position b and scale a is the correlation of the signal
// with the wavelet centered at b and dilated by a:
//
//	C[a][b] = (1/sqrt(a)) * sum_j x[b+j] * psi(j/a)
//
// with psi(t) = -2t * exp(-t^2) up to normalization. A rising edge in the
// signal therefore produces negative coefficients, a falling edge positive
// ones.
func Gaus1CWT(x []float64, scales []float64) ([][]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	if len(scales) == 0 {
		return nil, ErrInvalidScales
	}
	for _, a := range scales {
		if a <= 0 || math.IsNaN(a) {
			return nil, ErrInvalidScales
		}
	}

	coefs := make([][]float64, len(scales))
	for s, a := range scales {
		row, err := cwtRow(x, a)
		if err != nil {
			return nil, err
		}
		coefs[s] = row
	}
	return coefs, nil
}

// cwtRow correlates x with the wavelet at one scale. The correlation is
// evaluated as a convolution with the time-reversed kernel, so long kernels
// go through the FFT path.
func cwtRow(x []float64, scale float64) ([]float64, error) {
	// The wavelet is negligible outside |t| > 5.
	half := int(math.Ceil(5 * scale))
	kernel := make([]float64, 2*half+1)
	for j := -half; j <= half; j++ {
		// Reversed: kernel[half-j] holds psi(j/scale).
		kernel[half-j] = gaus1(float64(j)/scale) / math.Sqrt(scale)
	}

	full, err := conv.Convolve(x, kernel)
	if err != nil {
		return nil, err
	}
	return full[half : half+len(x)], nil
}

// gaus1 evaluates the unit-energy first derivative of a Gaussian.
func gaus1(t float64) float64 {
	return gaus1Norm * -2 * t * math.Exp(-t*t)
}
