package delineate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cwbudde/algo-ecg/ecg/ecgsim"
)

func simulate(t *testing.T, duration, rate, bpm float64) *ecgsim.Recording {
	t.Helper()
	rec, err := ecgsim.New(
		ecgsim.WithSamplingRate(rate),
		ecgsim.WithHeartRate(bpm),
	).Simulate(duration)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	return rec
}

func TestDelineateInputValidation(t *testing.T) {
	signal := make([]float64, 100)

	tests := []struct {
		name   string
		signal []float64
		rpeaks []int
		opts   []Option
		want   error
	}{
		{"empty signal", nil, []int{10}, nil, ErrEmptySignal},
		{"zero sampling rate", signal, []int{10}, []Option{WithSamplingRate(0)}, ErrInvalidSamplingRate},
		{"negative sampling rate", signal, []int{10}, []Option{WithSamplingRate(-250)}, ErrInvalidSamplingRate},
		{"no r-peaks", signal, nil, nil, ErrInvalidRPeaks},
		{"r-peak out of range", signal, []int{10, 100}, nil, ErrInvalidRPeaks},
		{"negative r-peak", signal, []int{-1, 50}, nil, ErrInvalidRPeaks},
		{"non-increasing r-peaks", signal, []int{50, 50}, nil, ErrInvalidRPeaks},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Delineate(tt.signal, tt.rpeaks, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Delineate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name string
		want Method
	}{
		{"derivative", MethodDerivative},
		{"gradient", MethodDerivative},
		{"DWT", MethodDWT},
		{"discrete wavelet transform", MethodDWT},
		{"cwt", MethodCWT},
		{" Continuous Wavelet Transform ", MethodCWT},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.name)
		if err != nil {
			t.Fatalf("ParseMethod(%q) error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("ParseMethod(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := ParseMethod("fourier"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("ParseMethod(unknown) error = %v, want %v", err, ErrUnknownMethod)
	}
}

func TestMethodString(t *testing.T) {
	if got, want := MethodDWT.String(), "dwt"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := Method(42).String(), "Method(42)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestDelineateIsIdempotent(t *testing.T) {
	rec := simulate(t, 10, 1000, 60)

	for _, method := range []Method{MethodDerivative, MethodDWT, MethodCWT} {
		first, err := Delineate(rec.Signal, rec.RPeaks,
			WithSamplingRate(rec.SamplingRate), WithMethod(method))
		if err != nil {
			t.Fatalf("%v: Delineate() error = %v", method, err)
		}
		second, err := Delineate(rec.Signal, rec.RPeaks,
			WithSamplingRate(rec.SamplingRate), WithMethod(method))
		if err != nil {
			t.Fatalf("%v: Delineate() error = %v", method, err)
		}
		if !reflect.DeepEqual(first.Waves, second.Waves) {
			t.Fatalf("%v: repeated delineation differs", method)
		}
	}
}

func TestDelineateDoesNotModifySignal(t *testing.T) {
	rec := simulate(t, 5, 1000, 60)
	backup := append([]float64(nil), rec.Signal...)

	if _, err := Delineate(rec.Signal, rec.RPeaks, WithMethod(MethodDWT)); err != nil {
		t.Fatalf("Delineate() error = %v", err)
	}
	if !reflect.DeepEqual(rec.Signal, backup) {
		t.Fatal("Delineate() modified the input signal")
	}
}

func TestDelineateIndicesWithinBounds(t *testing.T) {
	rec := simulate(t, 10, 500, 70)

	for _, method := range []Method{MethodDerivative, MethodDWT, MethodCWT} {
		result, err := Delineate(rec.Signal, rec.RPeaks,
			WithSamplingRate(rec.SamplingRate), WithMethod(method))
		if err != nil {
			t.Fatalf("%v: Delineate() error = %v", method, err)
		}
		for _, f := range result.Features() {
			for _, idx := range result.Waves[f] {
				if idx < 0 || idx >= len(rec.Signal) {
					t.Fatalf("%v: %s index %d out of bounds [0, %d)",
						method, f, idx, len(rec.Signal))
				}
			}
		}
	}
}

func TestDelineateAllZeroSignal(t *testing.T) {
	signal := make([]float64, 2500)
	rpeaks := []int{150, 450, 750, 1050, 1350}

	for _, method := range []Method{MethodDerivative, MethodDWT, MethodCWT} {
		result, err := Delineate(signal, rpeaks,
			WithSamplingRate(250), WithMethod(method))
		if err != nil {
			t.Fatalf("%v: Delineate() error = %v", method, err)
		}
		for _, f := range result.Features() {
			if got := len(result.Waves[f]); got != 0 {
				t.Errorf("%v: %s: found %d points on a flat signal, want 0", method, f, got)
			}
		}
	}
}

func TestDelineateSingleRPeak(t *testing.T) {
	rec := simulate(t, 2, 250, 60)
	rpeaks := rec.RPeaks[:1]

	for _, method := range []Method{MethodDerivative, MethodDWT, MethodCWT} {
		result, err := Delineate(rec.Signal, rpeaks,
			WithSamplingRate(rec.SamplingRate), WithMethod(method))
		if err != nil {
			t.Fatalf("%v: Delineate() error = %v", method, err)
		}
		if result.SignalLen != len(rec.Signal) {
			t.Fatalf("%v: SignalLen = %d, want %d", method, result.SignalLen, len(rec.Signal))
		}
	}
}

func TestDelineateCWTWithoutTransform(t *testing.T) {
	rec := simulate(t, 5, 1000, 60)

	_, err := Delineate(rec.Signal, rec.RPeaks,
		WithMethod(MethodCWT), WithContinuousTransform(nil))
	if !errors.Is(err, ErrTransformUnavailable) {
		t.Fatalf("Delineate() error = %v, want %v", err, ErrTransformUnavailable)
	}
}

func TestDelineateCWTTransformError(t *testing.T) {
	rec := simulate(t, 5, 1000, 60)
	sentinel := errors.New("transform broken")

	_, err := Delineate(rec.Signal, rec.RPeaks,
		WithMethod(MethodCWT),
		WithContinuousTransform(func([]float64, []float64) ([][]float64, error) {
			return nil, sentinel
		}))
	if !errors.Is(err, sentinel) {
		t.Fatalf("Delineate() error = %v, want wrapped %v", err, sentinel)
	}
}

func TestDelineateCWTTransformShapeMismatch(t *testing.T) {
	rec := simulate(t, 5, 1000, 60)

	_, err := Delineate(rec.Signal, rec.RPeaks,
		WithMethod(MethodCWT),
		WithContinuousTransform(func(signal, scales []float64) ([][]float64, error) {
			return [][]float64{make([]float64, len(signal))}, nil
		}))
	if err == nil {
		t.Fatal("Delineate() expected error for truncated coefficient matrix")
	}
}

func TestResultIndicator(t *testing.T) {
	result := &Result{
		SignalLen: 10,
		Waves: map[Feature][]int{
			FeaturePPeaks: {2, 7},
		},
	}

	row := result.Indicator(FeaturePPeaks)
	if len(row) != 10 {
		t.Fatalf("Indicator() length = %d, want 10", len(row))
	}
	for i, v := range row {
		want := 0
		if i == 2 || i == 7 {
			want = 1
		}
		if v != want {
			t.Fatalf("Indicator()[%d] = %d, want %d", i, v, want)
		}
	}

	table := result.Indicators()
	if !reflect.DeepEqual(table[FeaturePPeaks], row) {
		t.Fatal("Indicators() row differs from Indicator()")
	}
}

func TestResultFeaturesSorted(t *testing.T) {
	result := &Result{
		Waves: map[Feature][]int{
			FeatureTPeaks:  {},
			FeaturePPeaks:  {},
			FeatureROnsets: {},
		},
	}
	got := result.Features()
	want := []Feature{FeaturePPeaks, FeatureROnsets, FeatureTPeaks}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Features() = %v, want %v", got, want)
	}
}
