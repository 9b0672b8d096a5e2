package delineate

import (
	"fmt"

	"github.com/cwbudde/algo-ecg/dsp/peaks"
	"github.com/cwbudde/algo-ecg/dsp/resample"
	"github.com/cwbudde/algo-ecg/dsp/wavelet"
	"github.com/cwbudde/algo-ecg/stats"
)

// The DWT method resamples the signal to a fixed analysis rate before
// decomposing; all search indices live at this rate until the final
// back-mapping.
const dwtAnalysisRate = 2000.0

// dwtScaleCount is the number of decomposed detail scales.
const dwtScaleCount = 9

const (
	dwtQRSDuration  = 0.05 // seconds, nominal QRS width
	dwtPSearchSpan  = 0.5  // seconds before R searched for the P wave
	dwtTPeakDegree  = 3    // detail degree for T-peak search (pre-compensation)
	dwtPPeakDegree  = 2    // detail degree for P-peak search (pre-compensation)
	dwtBoundDegree  = 2    // detail degree for all boundary searches
	dwtTHeight      = 0.25 // T-peak RMS threshold weight
	dwtPHeight      = 0.02 // P-peak RMS threshold weight
	dwtMagnitudeMin = 0.025
)

// dwtBoundParams parameterizes the generic onset/offset search around a
// wave peak.
type dwtBoundParams struct {
	onsetDuration  float64 // seconds searched before the peak
	offsetDuration float64 // seconds searched after the peak
	onsetWeight    float64
	offsetWeight   float64
}

// delineateDWT delineates T/P peaks, QRS onsets/offsets, and P/T
// onsets/offsets on a 9-scale decomposition of the signal resampled to
// 2 kHz. Output indices are mapped back to the caller's rate; the per-field
// boundary trims match the reference alignment exactly.
func delineateDWT(signal []float64, rpeaks []int, samplingRate float64) (map[Feature][]int, error) {
	analysis, err := resample.Signal(signal, samplingRate, dwtAnalysisRate)
	if err != nil {
		return nil, fmt.Errorf("delineate: resampling to analysis rate failed: %w", err)
	}

	ms, err := wavelet.Decompose(analysis, dwtScaleCount)
	if err != nil {
		return nil, fmt.Errorf("delineate: multiscale decomposition failed: %w", err)
	}

	rp := resample.Points(rpeaks, samplingRate, dwtAnalysisRate)
	comp := wavelet.CompensationDegree(dwtAnalysisRate)

	tPeaks, pPeaks, err := dwtTPPeaks(ms, rp, comp)
	if err != nil {
		return nil, err
	}
	qrsOnsets, qrsOffsets, err := dwtQRSBounds(ms, rp, pPeaks, tPeaks, comp)
	if err != nil {
		return nil, err
	}
	pOnsets, pOffsets, err := dwtWaveBounds(ms, pPeaks, comp, dwtBoundParams{
		onsetDuration:  0.3,
		offsetDuration: 0.3,
		onsetWeight:    0.4,
		offsetWeight:   0.4,
	})
	if err != nil {
		return nil, err
	}
	tOnsets, tOffsets, err := dwtWaveBounds(ms, tPeaks, comp, dwtBoundParams{
		onsetDuration:  0.6,
		offsetDuration: 0.3,
		onsetWeight:    0.6,
		offsetWeight:   0.4,
	})
	if err != nil {
		return nil, err
	}

	// Back to the caller's rate. Undefined slots are dropped first and the
	// per-field trims applied afterwards, preserving the reference output
	// alignment: T onsets lose their last element, P peaks, P onsets, and
	// QRS onsets their first.
	back := func(points []int) []int {
		defined := make([]int, 0, len(points))
		for _, p := range points {
			if p >= 0 {
				defined = append(defined, p)
			}
		}
		return resample.Points(defined, dwtAnalysisRate, samplingRate)
	}

	return map[Feature][]int{
		FeatureTPeaks:   back(tPeaks),
		FeatureTOnsets:  trimLast(back(tOnsets)),
		FeatureTOffsets: back(tOffsets),
		FeaturePPeaks:   trimFirst(back(pPeaks)),
		FeaturePOnsets:  trimFirst(back(pOnsets)),
		FeaturePOffsets: back(pOffsets),
		FeatureROnsets:  trimFirst(back(qrsOnsets)),
		FeatureROffsets: back(qrsOffsets),
	}, nil
}

func trimFirst(points []int) []int {
	if len(points) == 0 {
		return points
	}
	return points[1:]
}

func trimLast(points []int) []int {
	if len(points) == 0 {
		return points
	}
	return points[:len(points)-1]
}

// dwtSearchBoundary returns the guard distance kept from each R-peak when
// windowing an R-R interval.
func dwtSearchBoundary() int {
	return int(0.9 * dwtQRSDuration * dwtAnalysisRate / 2)
}

// dwtTPPeaks searches every R-R interval for one T peak and one P peak,
// appending one slot (defined or not) per interval.
func dwtTPPeaks(ms *wavelet.Multiscale, rp []int, comp int) (tPeaks, pPeaks []int, err error) {
	boundary := dwtSearchBoundary()

	tDetail, err := ms.Detail(dwtTPeakDegree + comp)
	if err != nil {
		return nil, nil, fmt.Errorf("delineate: %w", err)
	}
	pDetail, err := ms.Detail(dwtPPeakDegree + comp)
	if err != nil {
		return nil, nil, fmt.Errorf("delineate: %w", err)
	}

	for i := 0; i+1 < len(rp); i++ {
		tPeaks = append(tPeaks, dwtHumpPeak(tDetail,
			rp[i]+boundary, rp[i+1]-8*boundary, dwtTHeight, true))
		pPeaks = append(pPeaks, dwtHumpPeak(pDetail,
			rp[i]-int(dwtPSearchSpan*dwtAnalysisRate), rp[i]-boundary, dwtPHeight, false))
	}
	return tPeaks, pPeaks, nil
}

// dwtHumpPeak locates a wave peak inside [start, end) of the detail signal.
// Candidate extrema of the absolute detail above an RMS-adaptive threshold
// are paired into positive-then-negative humps; the zero crossing between a
// pair marks the peak. When first is true the first crossing wins (T search,
// scanning away from R), otherwise the last (P search, scanning towards R).
func dwtHumpPeak(detail []float64, start, end int, heightWeight float64, first bool) int {
	start, end, ok := clampWindow(start, end, len(detail))
	if !ok {
		return undefined
	}
	window := detail[start:end]

	height := heightWeight * stats.RMS(window)
	found := peaks.Find(absolute(window), peaks.WithMinHeight(height))

	// Reject marginal candidates relative to the strongest raw deflection.
	magnitudeFloor := dwtMagnitudeMin * stats.Max(window)
	candidates := make([]int, 0, len(found)+1)
	if window[0] > 0 {
		candidates = append(candidates, 0)
	}
	for _, p := range found {
		if absValue(window[p.Index]) > magnitudeFloor {
			candidates = append(candidates, p.Index)
		}
	}

	crossings := make([]int, 0, len(candidates))
	for i := 0; i+1 < len(candidates); i++ {
		cur, next := candidates[i], candidates[i+1]
		if !(window[cur] > 0 && window[next] < 0) {
			continue
		}
		if zc, ok := peaks.FirstZeroCrossing(window[cur : next+1]); ok {
			crossings = append(crossings, cur+zc)
		}
	}
	if len(crossings) == 0 {
		return undefined
	}
	if first {
		return start + crossings[0]
	}
	return start + crossings[len(crossings)-1]
}

// dwtQRSBounds locates the QRS onset and offset of every R-R interval. The
// onset search runs from the interval's P peak to its R-peak on the negated
// boundary-degree detail; the offset search mirrors it from R to the T peak
// on the raw detail.
func dwtQRSBounds(ms *wavelet.Multiscale, rp, pPeaks, tPeaks []int, comp int) (onsets, offsets []int, err error) {
	detail, err := ms.Detail(dwtBoundDegree + comp)
	if err != nil {
		return nil, nil, fmt.Errorf("delineate: %w", err)
	}

	for i := 0; i+1 < len(rp); i++ {
		onset := undefined
		if pPeaks[i] >= 0 {
			onset = dwtEdgeBackward(detail, pPeaks[i], rp[i], 0.5, true)
		}
		onsets = append(onsets, onset)

		offset := undefined
		if tPeaks[i] >= 0 {
			offset = dwtEdgeForward(detail, rp[i], tPeaks[i], 0.5, false)
		}
		offsets = append(offsets, offset)
	}
	return onsets, offsets, nil
}

// dwtWaveBounds locates onset and offset for every peak in waves, one slot
// per peak. Undefined peaks propagate undefined bounds.
func dwtWaveBounds(ms *wavelet.Multiscale, waves []int, comp int, params dwtBoundParams) (onsets, offsets []int, err error) {
	detail, err := ms.Detail(dwtBoundDegree + comp)
	if err != nil {
		return nil, nil, fmt.Errorf("delineate: %w", err)
	}

	onsetSpan := int(params.onsetDuration * dwtAnalysisRate)
	offsetSpan := int(params.offsetDuration * dwtAnalysisRate)

	for _, peak := range waves {
		if peak < 0 {
			onsets = append(onsets, undefined)
			offsets = append(offsets, undefined)
			continue
		}
		onsets = append(onsets,
			dwtEdgeBackward(detail, peak-onsetSpan, peak, params.onsetWeight, false))
		offsets = append(offsets,
			dwtEdgeForward(detail, peak, peak+offsetSpan, params.offsetWeight, true))
	}
	return onsets, offsets, nil
}

// dwtEdgeBackward finds the onset edge in [start, end): take the last local
// maximum of the (optionally negated) detail, set the threshold at weight
// times its value, and return the last preceding sample below the
// threshold.
func dwtEdgeBackward(detail []float64, start, end int, weight float64, negate bool) int {
	start, end, ok := clampWindow(start, end, len(detail))
	if !ok {
		return undefined
	}
	window := detail[start:end]
	if negate {
		window = negated(window)
	}

	found := peaks.Find(window)
	if len(found) == 0 {
		return undefined
	}
	anchor := found[len(found)-1].Index
	threshold := weight * window[anchor]

	for j := anchor - 1; j >= 0; j-- {
		if window[j] < threshold {
			return start + j
		}
	}
	return undefined
}

// dwtEdgeForward mirrors dwtEdgeBackward for offsets: anchor on the first
// local maximum and return the first following sample below the threshold.
func dwtEdgeForward(detail []float64, start, end int, weight float64, negate bool) int {
	start, end, ok := clampWindow(start, end, len(detail))
	if !ok {
		return undefined
	}
	window := detail[start:end]
	if negate {
		window = negated(window)
	}

	found := peaks.Find(window)
	if len(found) == 0 {
		return undefined
	}
	anchor := found[0].Index
	threshold := weight * window[anchor]

	for j := anchor + 1; j < len(window); j++ {
		if window[j] < threshold {
			return start + j
		}
	}
	return undefined
}

func absValue(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
