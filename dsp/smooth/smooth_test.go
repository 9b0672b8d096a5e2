package smooth

import (
	"math"
	"testing"
)

func TestMovingAverageConstant(t *testing.T) {
	x := make([]float64, 50)
	for i := range x {
		x[i] = 2.5
	}

	got, err := MovingAverage(x, 7)
	if err != nil {
		t.Fatalf("MovingAverage returned error: %v", err)
	}
	if len(got) != len(x) {
		t.Fatalf("length mismatch: got=%d want=%d", len(got), len(x))
	}
	for i, v := range got {
		if math.Abs(v-2.5) > 1e-12 {
			t.Fatalf("sample %d: got=%f want=2.5", i, v)
		}
	}
}

func TestMovingAverageReducesRipple(t *testing.T) {
	x := make([]float64, 200)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * float64(i) / 8) // fast ripple
	}

	got, err := MovingAverage(x, 8)
	if err != nil {
		t.Fatalf("MovingAverage returned error: %v", err)
	}

	var inPow, outPow float64
	for i := 50; i < 150; i++ {
		inPow += x[i] * x[i]
		outPow += got[i] * got[i]
	}
	if outPow > 0.01*inPow {
		t.Fatalf("ripple not attenuated: in=%f out=%f", inPow, outPow)
	}
}

func TestMovingAverageClampsSize(t *testing.T) {
	x := []float64{1, 2, 3}

	got, err := MovingAverage(x, 0)
	if err != nil {
		t.Fatalf("MovingAverage returned error: %v", err)
	}
	for i := range x {
		if got[i] != x[i] {
			t.Fatalf("size 0 should be identity, got %v", got)
		}
	}

	if _, err := MovingAverage(nil, 3); err != ErrEmptySignal {
		t.Fatalf("expected ErrEmptySignal, got %v", err)
	}
}

func TestGradientLinear(t *testing.T) {
	x := []float64{0, 2, 4, 6, 8}

	got := Gradient(x)
	for i, v := range got {
		if math.Abs(v-2) > 1e-12 {
			t.Fatalf("gradient[%d]=%f want=2", i, v)
		}
	}
}

func TestSecondDerivativeQuadratic(t *testing.T) {
	x := make([]float64, 20)
	for i := range x {
		x[i] = float64(i * i)
	}

	got := SecondDerivative(x)
	// Interior samples of a quadratic have constant curvature 2.
	for i := 2; i < len(got)-2; i++ {
		if math.Abs(got[i]-2) > 1e-12 {
			t.Fatalf("second derivative[%d]=%f want=2", i, got[i])
		}
	}
}

func TestGradientShortInputs(t *testing.T) {
	if got := Gradient([]float64{5}); len(got) != 1 || got[0] != 0 {
		t.Fatalf("single-sample gradient: got=%v", got)
	}
	if got := Gradient(nil); len(got) != 0 {
		t.Fatalf("empty gradient: got=%v", got)
	}
}
