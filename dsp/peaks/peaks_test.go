package peaks

import (
	"math"
	"testing"
)

func TestFindSimpleMaxima(t *testing.T) {
	x := []float64{0, 1, 0, 2, 0, 3, 0}

	got := Find(x)
	if len(got) != 3 {
		t.Fatalf("peak count: got=%d want=3", len(got))
	}

	wantIdx := []int{1, 3, 5}
	wantHeight := []float64{1, 2, 3}
	for i, p := range got {
		if p.Index != wantIdx[i] {
			t.Fatalf("peak %d index: got=%d want=%d", i, p.Index, wantIdx[i])
		}
		if p.Height != wantHeight[i] {
			t.Fatalf("peak %d height: got=%f want=%f", i, p.Height, wantHeight[i])
		}
	}
}

func TestFindExcludesPlateaus(t *testing.T) {
	x := []float64{0, 1, 1, 0}
	if got := Find(x); len(got) != 0 {
		t.Fatalf("plateau should not count as peak, got %v", got)
	}
}

func TestFindMinHeight(t *testing.T) {
	x := []float64{0, 1, 0, 2, 0, 3, 0}

	got := Find(x, WithMinHeight(1.5))
	if len(got) != 2 {
		t.Fatalf("peak count with height floor: got=%d want=2", len(got))
	}
	if got[0].Index != 3 || got[1].Index != 5 {
		t.Fatalf("unexpected filtered peaks: %v", got)
	}
}

func TestProminenceAndBases(t *testing.T) {
	// Small peak at 3 (height 1) between deep valleys, tall peak at 7.
	x := []float64{0, 0, 0, 1, 0.2, 0.5, 0.9, 3, 0, 0}

	got := Find(x, WithMinProminence(0.7))
	if len(got) != 2 {
		t.Fatalf("peak count: got=%d want=2: %v", len(got), got)
	}

	small := got[0]
	if small.Index != 3 {
		t.Fatalf("small peak index: got=%d want=3", small.Index)
	}
	// Left side runs to the border (min 0), right side stops at x[7] > 1
	// with valley min 0.2 at index 4. Prominence = 1 - max(0, 0.2) = 0.8.
	if math.Abs(small.Prominence-0.8) > 1e-12 {
		t.Fatalf("small peak prominence: got=%f want=0.8", small.Prominence)
	}
	if small.RightBase != 4 {
		t.Fatalf("small peak right base: got=%d want=4", small.RightBase)
	}

	tall := got[1]
	if tall.Index != 7 || math.Abs(tall.Prominence-3) > 1e-12 {
		t.Fatalf("tall peak: got=%+v", tall)
	}
}

func TestZeroCrossings(t *testing.T) {
	x := []float64{1, 0.5, -0.5, -1, 2, 3}

	got := ZeroCrossings(x)
	want := []int{2, 4}
	if len(got) != len(want) {
		t.Fatalf("crossing count: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("crossing %d: got=%d want=%d", i, got[i], want[i])
		}
	}

	if got := ZeroCrossings([]float64{1, 2, 3}); got != nil {
		t.Fatalf("monotone positive signal should have no crossings, got %v", got)
	}

	idx, ok := FirstZeroCrossing(x)
	if !ok || idx != 2 {
		t.Fatalf("FirstZeroCrossing: got=(%d,%v) want=(2,true)", idx, ok)
	}

	if _, ok := FirstZeroCrossing([]float64{0, 0}); ok {
		t.Fatalf("all-zero signal should have no crossing")
	}
}
