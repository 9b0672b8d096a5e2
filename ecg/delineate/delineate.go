package delineate

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cwbudde/algo-ecg/dsp/wavelet"
)

// Errors returned by Delineate.
var (
	ErrEmptySignal          = errors.New("delineate: empty signal")
	ErrInvalidSamplingRate  = errors.New("delineate: sampling rate must be positive")
	ErrInvalidRPeaks        = errors.New("delineate: r-peaks must be a non-empty, strictly increasing sequence within signal bounds")
	ErrUnknownMethod        = errors.New("delineate: unknown method")
	ErrTransformUnavailable = errors.New("delineate: continuous wavelet transform capability unavailable")
)

// undefined marks a feature slot where no point was found. Per-beat search
// results keep one slot per beat/interval with this sentinel so positional
// pairing stays intact; sentinels are dropped when the final result is built.
const undefined = -1

// Feature names a delineated fiducial point list. The names mirror the
// conventional ECG wave labels.
type Feature string

// Features produced by the delineators. The derivative method emits the
// P/Q/S/T peaks plus P onsets and T offsets; the wavelet methods emit P/T
// peaks and the P, T, and QRS (R) boundary features.
const (
	FeaturePPeaks   Feature = "ECG_P_Peaks"
	FeatureQPeaks   Feature = "ECG_Q_Peaks"
	FeatureSPeaks   Feature = "ECG_S_Peaks"
	FeatureTPeaks   Feature = "ECG_T_Peaks"
	FeaturePOnsets  Feature = "ECG_P_Onsets"
	FeaturePOffsets Feature = "ECG_P_Offsets"
	FeatureTOnsets  Feature = "ECG_T_Onsets"
	FeatureTOffsets Feature = "ECG_T_Offsets"
	FeatureROnsets  Feature = "ECG_R_Onsets"
	FeatureROffsets Feature = "ECG_R_Offsets"
)

// Method selects one of the delineation strategies.
type Method int

const (
	// MethodDerivative delineates per heartbeat epoch using local extrema
	// and second-derivative heuristics.
	MethodDerivative Method = iota

	// MethodCWT delineates on continuous wavelet transform coefficients at
	// fixed dyadic scales.
	MethodCWT

	// MethodDWT delineates on a discrete multiscale decomposition of the
	// signal resampled to a fixed analysis rate.
	MethodDWT
)

// String returns the canonical method name.
func (m Method) String() string {
	switch m {
	case MethodDerivative:
		return "derivative"
	case MethodCWT:
		return "cwt"
	case MethodDWT:
		return "dwt"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod resolves a method name, case-insensitively. Accepted aliases:
// "derivative"/"gradient", "cwt"/"continuous wavelet transform", and
// "dwt"/"discrete wavelet transform".
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "derivative", "gradient":
		return MethodDerivative, nil
	case "cwt", "continuous wavelet transform":
		return MethodCWT, nil
	case "dwt", "discrete wavelet transform":
		return MethodDWT, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// ContinuousTransform computes continuous wavelet coefficients of a signal
// at the given scales, one row per scale. It is the capability consumed by
// the CWT method; the default is the in-package Gaussian-derivative
// transform.
type ContinuousTransform func(signal []float64, scales []float64) ([][]float64, error)

type config struct {
	samplingRate float64
	method       Method
	transform    ContinuousTransform
}

// Option configures Delineate.
type Option func(*config)

// WithSamplingRate sets the sampling rate of the signal in Hz. Defaults to
// 1000 Hz.
func WithSamplingRate(rate float64) Option {
	return func(cfg *config) {
		cfg.samplingRate = rate
	}
}

// WithMethod selects the delineation strategy. Defaults to
// MethodDerivative.
func WithMethod(m Method) Option {
	return func(cfg *config) {
		cfg.method = m
	}
}

// WithContinuousTransform overrides the continuous wavelet transform used by
// MethodCWT. Passing nil removes the capability; MethodCWT then fails with
// ErrTransformUnavailable.
func WithContinuousTransform(t ContinuousTransform) Option {
	return func(cfg *config) {
		cfg.transform = t
	}
}

func defaultConfig() config {
	return config{
		samplingRate: 1000,
		method:       MethodDerivative,
		transform:    wavelet.Gaus1CWT,
	}
}

// Result holds the delineated fiducial points of one signal.
type Result struct {
	// Method is the strategy that produced the result.
	Method Method

	// SignalLen is the length of the delineated signal in samples.
	SignalLen int

	// Waves maps each produced feature to its defined sample indices, in
	// ascending beat/interval order. Slots where no point was found are
	// omitted, so lists may be shorter than the beat count.
	Waves map[Feature][]int
}

// Features returns the produced feature names in sorted order.
func (r *Result) Features() []Feature {
	features := make([]Feature, 0, len(r.Waves))
	for f := range r.Waves {
		features = append(features, f)
	}
	sort.Slice(features, func(i, j int) bool { return features[i] < features[j] })
	return features
}

// Indicator returns a binary row of length SignalLen with 1 at every defined
// index of the feature and 0 elsewhere.
func (r *Result) Indicator(f Feature) []int {
	row := make([]int, r.SignalLen)
	for _, idx := range r.Waves[f] {
		if idx >= 0 && idx < r.SignalLen {
			row[idx] = 1
		}
	}
	return row
}

// Indicators returns the full indicator table, one binary row per feature.
func (r *Result) Indicators() map[Feature][]int {
	table := make(map[Feature][]int, len(r.Waves))
	for f := range r.Waves {
		table[f] = r.Indicator(f)
	}
	return table
}

// Delineate locates the fiducial points of a cleaned ECG signal given its
// R-peak sample indices.
//
// The signal is never modified, and repeated calls with identical inputs
// yield identical results. Failures local to one beat or interval (empty
// search window, no qualifying extremum) degrade to missing points; only
// structural problems (bad input, unknown method, missing transform
// capability) return an error.
func Delineate(signal []float64, rpeaks []int, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(signal) == 0 {
		return nil, ErrEmptySignal
	}
	if cfg.samplingRate <= 0 || math.IsNaN(cfg.samplingRate) {
		return nil, ErrInvalidSamplingRate
	}
	if err := validateRPeaks(rpeaks, len(signal)); err != nil {
		return nil, err
	}

	var (
		waves map[Feature][]int
		err   error
	)
	switch cfg.method {
	case MethodDerivative:
		waves, err = delineateDerivative(signal, rpeaks, cfg.samplingRate)
	case MethodDWT:
		waves, err = delineateDWT(signal, rpeaks, cfg.samplingRate)
	case MethodCWT:
		waves, err = delineateCWT(signal, rpeaks, cfg.samplingRate, cfg.transform)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, cfg.method)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Method:    cfg.method,
		SignalLen: len(signal),
		Waves:     make(map[Feature][]int, len(waves)),
	}
	for f, points := range waves {
		result.Waves[f] = definedPoints(points, len(signal))
	}
	return result, nil
}

func validateRPeaks(rpeaks []int, signalLen int) error {
	if len(rpeaks) == 0 {
		return ErrInvalidRPeaks
	}
	for i, r := range rpeaks {
		if r < 0 || r >= signalLen {
			return fmt.Errorf("%w: index %d at position %d", ErrInvalidRPeaks, r, i)
		}
		if i > 0 && r <= rpeaks[i-1] {
			return fmt.Errorf("%w: index %d at position %d not increasing", ErrInvalidRPeaks, r, i)
		}
	}
	return nil
}

// definedPoints drops undefined sentinels and out-of-range indices.
func definedPoints(points []int, signalLen int) []int {
	defined := make([]int, 0, len(points))
	for _, p := range points {
		if p >= 0 && p < signalLen {
			defined = append(defined, p)
		}
	}
	return defined
}

// clampWindow limits [start, end) to [0, n) and reports whether anything
// remains.
func clampWindow(start, end, n int) (int, int, bool) {
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	return start, end, start < end
}

func negated(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = -v
	}
	return out
}

func absolute(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Abs(v)
	}
	return out
}
