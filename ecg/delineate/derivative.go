package delineate

import (
	"github.com/cwbudde/algo-ecg/dsp/epoch"
	"github.com/cwbudde/algo-ecg/dsp/peaks"
	"github.com/cwbudde/algo-ecg/dsp/smooth"
	"github.com/cwbudde/algo-ecg/stats"
)

// Heartbeat epoch span around each R-peak, in seconds.
const (
	derivativeEpochBefore = 0.35
	derivativeEpochAfter  = 0.5
)

// derivativeHeightFraction is the minimum peak height relative to the
// peak-to-peak amplitude of the searched segment.
const derivativeHeightFraction = 0.05

// delineateDerivative locates Q, P, S, and T peaks plus P onset and T offset
// for every heartbeat, searching one epoch around each R-peak. A failed
// stage leaves its slot (and those of dependent stages) undefined for that
// beat only.
func delineateDerivative(signal []float64, rpeaks []int, samplingRate float64) (map[Feature][]int, error) {
	epochs, err := epoch.Extract(signal, rpeaks, samplingRate, derivativeEpochBefore, derivativeEpochAfter)
	if err != nil {
		return nil, err
	}

	n := len(rpeaks)
	waves := map[Feature][]int{
		FeaturePPeaks:   make([]int, 0, n),
		FeatureQPeaks:   make([]int, 0, n),
		FeatureSPeaks:   make([]int, 0, n),
		FeatureTPeaks:   make([]int, 0, n),
		FeaturePOnsets:  make([]int, 0, n),
		FeatureTOffsets: make([]int, 0, n),
	}

	for _, e := range epochs {
		r := e.AnchorOffset()

		q := derivativeQ(e.Samples, r)
		p := derivativeP(e.Samples, q)
		s := derivativeS(e.Samples, r)
		t := derivativeT(e.Samples, s)
		pOnset := derivativePOnset(e.Samples, r, p)
		tOffset := derivativeTOffset(e.Samples, r, t)

		waves[FeatureQPeaks] = append(waves[FeatureQPeaks], toAbsolute(e.Start, q))
		waves[FeaturePPeaks] = append(waves[FeaturePPeaks], toAbsolute(e.Start, p))
		waves[FeatureSPeaks] = append(waves[FeatureSPeaks], toAbsolute(e.Start, s))
		waves[FeatureTPeaks] = append(waves[FeatureTPeaks], toAbsolute(e.Start, t))
		waves[FeaturePOnsets] = append(waves[FeaturePOnsets], toAbsolute(e.Start, pOnset))
		waves[FeatureTOffsets] = append(waves[FeatureTOffsets], toAbsolute(e.Start, tOffset))
	}
	return waves, nil
}

// toAbsolute converts an epoch index to a signal index, passing the
// undefined sentinel through.
func toAbsolute(epochStart, idx int) int {
	if idx < 0 {
		return undefined
	}
	return epochStart + idx
}

// derivativeQ searches the segment before the R-peak for the right-most
// local minimum. Returns an epoch index or the undefined sentinel.
func derivativeQ(samples []float64, r int) int {
	if r <= 0 {
		return undefined
	}
	segment := samples[:r]
	found := segmentTroughs(segment)
	if len(found) == 0 {
		return undefined
	}
	return found[len(found)-1].Index
}

// derivativeP searches the segment before the Q wave for the right-most
// local maximum.
func derivativeP(samples []float64, q int) int {
	if q < 0 {
		return undefined
	}
	segment := samples[:q]
	found := segmentPeaks(segment)
	if len(found) == 0 {
		return undefined
	}
	return found[len(found)-1].Index
}

// derivativeS searches the segment after the R-peak for the left-most local
// minimum.
func derivativeS(samples []float64, r int) int {
	if r < 0 || r >= len(samples) {
		return undefined
	}
	segment := samples[r:]
	found := segmentTroughs(segment)
	if len(found) == 0 {
		return undefined
	}
	return r + found[0].Index
}

// derivativeT searches the segment after the S wave for the left-most local
// maximum.
func derivativeT(samples []float64, s int) int {
	if s < 0 {
		return undefined
	}
	segment := samples[s:]
	found := segmentPeaks(segment)
	if len(found) == 0 {
		return undefined
	}
	return s + found[0].Index
}

// derivativePOnset locates the P onset as the curvature maximum of the
// smoothed segment before the P wave. The smoothing window grows with the
// distance from epoch start to the R-peak.
func derivativePOnset(samples []float64, r, p int) int {
	if p <= 0 {
		return undefined
	}
	return curvatureMax(samples[:p], r)
}

// derivativeTOffset locates the T offset as the curvature maximum of the
// smoothed segment after the T wave.
func derivativeTOffset(samples []float64, r, t int) int {
	if t < 0 || t >= len(samples)-1 {
		return undefined
	}
	off := curvatureMax(samples[t:], r)
	if off < 0 {
		return undefined
	}
	return t + off
}

// curvatureMax smooths the segment with a window proportional to the
// R-to-epoch-start distance, takes the second derivative, and returns the
// index of its maximum.
func curvatureMax(segment []float64, r int) int {
	if len(segment) == 0 {
		return undefined
	}
	size := r / 10
	if size < 1 {
		size = 1
	}
	smoothed, err := smooth.MovingAverage(segment, size)
	if err != nil {
		return undefined
	}
	return stats.ArgMax(smooth.SecondDerivative(smoothed))
}

// segmentPeaks finds local maxima with the relative height floor.
func segmentPeaks(segment []float64) []peaks.Peak {
	if len(segment) < 3 {
		return nil
	}
	floor := derivativeHeightFraction * stats.Range(segment)
	return peaks.Find(segment, peaks.WithMinHeight(floor))
}

// segmentTroughs finds local minima via the negated segment, applying the
// same relative height floor.
func segmentTroughs(segment []float64) []peaks.Peak {
	if len(segment) < 3 {
		return nil
	}
	floor := derivativeHeightFraction * stats.Range(segment)
	return peaks.Find(negated(segment), peaks.WithMinHeight(floor))
}
