package delineate

import (
	"fmt"

	"github.com/cwbudde/algo-ecg/dsp/peaks"
	"github.com/cwbudde/algo-ecg/dsp/wavelet"
	"github.com/cwbudde/algo-ecg/stats"
)

const (
	cwtQRSDuration    = 0.1  // seconds, nominal QRS width for T/P windowing
	cwtPeakScale      = 4    // scale row used for T/P peak search
	cwtQRSScale       = 2    // scale row used for QRS boundary search
	cwtPeakHeight     = 0.25 // RMS weight for candidate extrema
	cwtSignificance   = 0.125
	cwtRefineDuration = 0.05 // seconds searched around a zero crossing
	cwtBoundSpan      = 100  // samples scanned past the anchor extremum
)

// cwtPeakKind selects the boundary-search parameter set.
type cwtPeakKind int

const (
	kindR cwtPeakKind = iota
	kindP
	kindT
)

// delineateCWT delineates all wave features on a shared continuous wavelet
// transform of the signal. The transform is computed once over the default
// scale set and every search reads from the same coefficient matrix.
func delineateCWT(signal []float64, rpeaks []int, samplingRate float64, transform ContinuousTransform) (map[Feature][]int, error) {
	if transform == nil {
		return nil, ErrTransformUnavailable
	}
	coefs, err := transform(signal, wavelet.DefaultScales)
	if err != nil {
		return nil, fmt.Errorf("delineate: continuous transform failed: %w", err)
	}
	if len(coefs) <= cwtPeakScale {
		return nil, fmt.Errorf("delineate: continuous transform returned %d scale rows, need %d",
			len(coefs), cwtPeakScale+1)
	}
	for _, row := range coefs {
		if len(row) != len(signal) {
			return nil, fmt.Errorf("delineate: continuous transform row length %d does not match signal length %d",
				len(row), len(signal))
		}
	}

	tPeaks, pPeaks := cwtTPPeaks(signal, coefs, rpeaks, samplingRate)
	qrsOnsets, qrsOffsets := cwtBounds(coefs, rpeaks, samplingRate, kindR)
	pOnsets, pOffsets := cwtBounds(coefs, pPeaks, samplingRate, kindP)
	tOnsets, tOffsets := cwtBounds(coefs, tPeaks, samplingRate, kindT)

	return map[Feature][]int{
		FeatureTPeaks:   tPeaks,
		FeatureTOnsets:  tOnsets,
		FeatureTOffsets: tOffsets,
		FeaturePPeaks:   pPeaks,
		FeaturePOnsets:  pOnsets,
		FeaturePOffsets: pOffsets,
		FeatureROnsets:  qrsOnsets,
		FeatureROffsets: qrsOffsets,
	}, nil
}

// cwtTPPeaks searches every R-R interval for its T and P peaks, always
// appending one slot per interval so the output stays aligned with the
// intervals even when a wave is missing.
func cwtTPPeaks(signal []float64, coefs [][]float64, rpeaks []int, samplingRate float64) (tPeaks, pPeaks []int) {
	boundary := int(0.9 * cwtQRSDuration * samplingRate / 2)
	row := coefs[cwtPeakScale]

	for i := 0; i+1 < len(rpeaks); i++ {
		group := cwtIntervalPeaks(signal, row,
			rpeaks[i]+boundary, rpeaks[i+1]-boundary, samplingRate)
		if len(group) == 0 {
			tPeaks = append(tPeaks, undefined)
			pPeaks = append(pPeaks, undefined)
			continue
		}
		tPeaks = append(tPeaks, group[0])
		pPeaks = append(pPeaks, group[len(group)-1])
	}
	return tPeaks, pPeaks
}

// cwtIntervalPeaks locates the wave peaks inside one R-R interval. Extrema
// of the absolute scale-4 coefficients above an RMS-adaptive height are
// filtered against a fraction of the window maximum, then each
// negative-to-positive pair is resolved through its zero crossing to the
// maximum of the raw signal nearby.
func cwtIntervalPeaks(signal, row []float64, start, end int, samplingRate float64) []int {
	start, end, ok := clampWindow(start, end, len(row))
	if !ok {
		return nil
	}
	window := row[start:end]

	height := cwtPeakHeight * stats.RMS(window)
	found := peaks.Find(absolute(window), peaks.WithMinHeight(height))

	threshold := cwtSignificance * stats.Max(window)
	significant := make([]int, 0, len(found))
	for _, p := range found {
		if p.Height > threshold {
			significant = append(significant, start+p.Index)
		}
	}

	span := int(cwtRefineDuration * samplingRate)
	var located []int
	for i := 0; i+1 < len(significant); i++ {
		cur, next := significant[i], significant[i+1]
		if !(row[cur] < 0 && row[next] > 0) {
			continue
		}
		zc, ok := peaks.FirstZeroCrossing(row[cur : next+1])
		if !ok {
			continue
		}
		center := cur + zc
		lo, hi, ok := clampWindow(center-span, center+span, len(signal))
		if !ok {
			continue
		}
		located = append(located, lo+stats.ArgMax(signal[lo:hi]))
	}
	return located
}

// cwtBounds locates the onset and offset of every peak in waves, one slot
// per peak. The scale row, search polarity, and thresholds depend on the
// peak kind: QRS boundaries read scale 2 and wave boundaries scale 4.
func cwtBounds(coefs [][]float64, waves []int, samplingRate float64, kind cwtPeakKind) (onsets, offsets []int) {
	halfWidth := int(0.1 * samplingRate)

	for _, peak := range waves {
		if peak < 0 {
			onsets = append(onsets, undefined)
			offsets = append(offsets, undefined)
			continue
		}
		onsets = append(onsets, cwtOnset(coefs, peak, halfWidth, kind))
		offsets = append(offsets, cwtOffset(coefs, peak, halfWidth, kind))
	}
	return onsets, offsets
}

// cwtOnset anchors on the last coefficient extremum before the peak and
// returns the latest preceding sample where the coefficients fall below an
// extremum-relative threshold, falling back to the extremum's left base.
func cwtOnset(coefs [][]float64, peak, halfWidth int, kind cwtPeakKind) int {
	row, prominence, epsilon := cwtOnsetParams(kind)

	start, end, ok := clampWindow(peak-halfWidth, peak, len(coefs[row]))
	if !ok {
		return undefined
	}
	window := coefs[row][start:end]
	if kind != kindR {
		window = negated(window)
	}

	found := peaks.Find(window,
		peaks.WithMinHeight(0),
		peaks.WithMinProminence(prominence*stats.Max(window)))
	if len(found) == 0 {
		return undefined
	}
	anchor := found[len(found)-1]
	threshold := epsilon * anchor.Height
	leftBase := start + anchor.LeftBase

	lo, hi, ok := clampWindow(start+anchor.Index-cwtBoundSpan, start+anchor.Index, len(coefs[row]))
	if !ok {
		return leftBase
	}
	onset := leftBase
	for j := lo; j < hi; j++ {
		v := coefs[row][j]
		if kind != kindR {
			v = -v
		}
		if v < threshold && j > onset {
			onset = j
		}
	}
	return onset
}

// cwtOffset mirrors cwtOnset after the peak: anchor on the first extremum,
// scan forward for the earliest sample below the threshold, fall back to
// the extremum's right base.
func cwtOffset(coefs [][]float64, peak, halfWidth int, kind cwtPeakKind) int {
	row, prominence, epsilon := cwtOffsetParams(kind)

	start, end, ok := clampWindow(peak, peak+halfWidth, len(coefs[row]))
	if !ok {
		return undefined
	}
	window := coefs[row][start:end]
	if kind == kindR {
		window = negated(window)
	}

	found := peaks.Find(window,
		peaks.WithMinHeight(0),
		peaks.WithMinProminence(prominence*stats.Max(window)))
	if len(found) == 0 {
		return undefined
	}
	anchor := found[0]
	threshold := epsilon * anchor.Height
	rightBase := start + anchor.RightBase

	lo, hi, ok := clampWindow(start+anchor.Index, start+anchor.Index+cwtBoundSpan, len(coefs[row]))
	if !ok {
		return rightBase
	}
	offset := rightBase
	for j := lo; j < hi; j++ {
		v := coefs[row][j]
		if kind == kindR {
			v = -v
		}
		if v < threshold && j < offset {
			offset = j
		}
	}
	return offset
}

func cwtOnsetParams(kind cwtPeakKind) (row int, prominence, epsilon float64) {
	switch kind {
	case kindR:
		return cwtQRSScale, 0.20, 0.05
	case kindP:
		return cwtPeakScale, 0.10, 0.50
	default:
		return cwtPeakScale, 0.10, 0.25
	}
}

func cwtOffsetParams(kind cwtPeakKind) (row int, prominence, epsilon float64) {
	switch kind {
	case kindR:
		return cwtQRSScale, 0.50, 0.125
	case kindP:
		return cwtPeakScale, 0.10, 0.90
	default:
		return cwtPeakScale, 0.10, 0.40
	}
}
