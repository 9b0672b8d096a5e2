// Package epoch extracts fixed time-span windows anchored at sample indices.
//
// An epoch spans a time range around an anchor (for heartbeats, the R-peak):
// negative relative indices lie before the anchor, zero is the anchor itself.
// Windows reaching past the signal borders are truncated, so the anchor
// offset must be read from the epoch rather than assumed from the span.
package epoch

import (
	"errors"
	"math"
)

// Errors returned by Extract.
var (
	ErrEmptySignal      = errors.New("epoch: empty signal")
	ErrInvalidRate      = errors.New("epoch: sampling rate must be positive")
	ErrInvalidSpan      = errors.New("epoch: window span must be positive")
	ErrAnchorOutOfRange = errors.New("epoch: anchor index outside signal")
)

// Epoch is one extracted window.
type Epoch struct {
	// Samples holds the window data.
	Samples []float64

	// Start is the absolute signal index of Samples[0].
	Start int

	// Anchor is the absolute signal index the window is anchored at.
	Anchor int
}

// AnchorOffset returns the index of the anchor within Samples.
func (e Epoch) AnchorOffset() int {
	return e.Anchor - e.Start
}

// At returns the sample at the given anchor-relative index (negative before
// the anchor) and whether it lies within the window.
func (e Epoch) At(rel int) (float64, bool) {
	i := e.AnchorOffset() + rel
	if i < 0 || i >= len(e.Samples) {
		return 0, false
	}
	return e.Samples[i], true
}

// Extract returns one epoch per anchor, spanning before seconds ahead of the
// anchor to after seconds behind it. Windows are clamped to the signal
// bounds; the epochs are returned in anchor order.
func Extract(signal []float64, anchors []int, samplingRate, before, after float64) ([]Epoch, error) {
	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}
	if samplingRate <= 0 || math.IsNaN(samplingRate) {
		return nil, ErrInvalidRate
	}
	if before < 0 || after < 0 || before+after <= 0 {
		return nil, ErrInvalidSpan
	}

	pre := int(math.Round(before * samplingRate))
	post := int(math.Round(after * samplingRate))

	epochs := make([]Epoch, 0, len(anchors))
	for _, anchor := range anchors {
		if anchor < 0 || anchor >= len(signal) {
			return nil, ErrAnchorOutOfRange
		}

		start := anchor - pre
		if start < 0 {
			start = 0
		}
		end := anchor + post + 1
		if end > len(signal) {
			end = len(signal)
		}

		window := make([]float64, end-start)
		copy(window, signal[start:end])
		epochs = append(epochs, Epoch{Samples: window, Start: start, Anchor: anchor})
	}
	return epochs, nil
}
