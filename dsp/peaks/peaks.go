// Package peaks provides local-maximum detection and zero-crossing
// localization for one-dimensional signals.
//
// Find follows the usual local-maximum semantics: a sample is a peak when it
// is strictly greater than both neighbors, so flat plateau tops are excluded.
// Each detected peak carries its height, prominence, and the left/right base
// positions used in the prominence calculation, allowing callers to derive
// secondary thresholds from the surrounding valleys.
package peaks

import "math"

// Peak describes one detected local maximum.
type Peak struct {
	// Index is the sample position of the maximum.
	Index int

	// Height is the sample value at the maximum.
	Height float64

	// Prominence is the height of the maximum above the higher of the two
	// valleys separating it from taller terrain (or the signal border).
	Prominence float64

	// LeftBase and RightBase are the positions of those valleys.
	LeftBase  int
	RightBase int
}

type config struct {
	minHeight     float64
	minProminence float64
	useHeight     bool
	useProminence bool
}

// Option configures Find.
type Option func(*config)

// WithMinHeight keeps only peaks whose height is at least h.
func WithMinHeight(h float64) Option {
	return func(cfg *config) {
		cfg.minHeight = h
		cfg.useHeight = true
	}
}

// WithMinProminence keeps only peaks whose prominence is at least p.
func WithMinProminence(p float64) Option {
	return func(cfg *config) {
		cfg.minProminence = p
		cfg.useProminence = true
	}
}

// Find returns all local maxima of x satisfying the configured constraints,
// in ascending index order. Signals shorter than three samples have no
// interior and yield no peaks.
func Find(x []float64, opts ...Option) []Peak {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var found []Peak
	for i := 1; i < len(x)-1; i++ {
		if !(x[i] > x[i-1] && x[i] > x[i+1]) {
			continue
		}
		if cfg.useHeight && x[i] < cfg.minHeight {
			continue
		}

		p := Peak{Index: i, Height: x[i]}
		p.Prominence, p.LeftBase, p.RightBase = prominence(x, i)
		if cfg.useProminence && p.Prominence < cfg.minProminence {
			continue
		}
		found = append(found, p)
	}
	return found
}

// prominence computes the prominence of the peak at index i along with the
// positions of its left and right bases. On each side the search extends
// until the signal rises above the peak height or the border is reached; the
// base is the lowest sample in that span.
func prominence(x []float64, i int) (prom float64, leftBase, rightBase int) {
	height := x[i]

	leftMin := height
	leftBase = i
	for j := i - 1; j >= 0; j-- {
		if x[j] > height {
			break
		}
		if x[j] < leftMin {
			leftMin = x[j]
			leftBase = j
		}
	}

	rightMin := height
	rightBase = i
	for j := i + 1; j < len(x); j++ {
		if x[j] > height {
			break
		}
		if x[j] < rightMin {
			rightMin = x[j]
			rightBase = j
		}
	}

	return height - math.Max(leftMin, rightMin), leftBase, rightBase
}
