package epoch

import "testing"

func TestExtractInterior(t *testing.T) {
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = float64(i)
	}

	got, err := Extract(signal, []int{500}, 100, 0.35, 0.5)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("epoch count: got=%d want=1", len(got))
	}

	e := got[0]
	if e.Start != 465 {
		t.Fatalf("start: got=%d want=465", e.Start)
	}
	if len(e.Samples) != 86 { // 35 before + anchor + 50 after
		t.Fatalf("length: got=%d want=86", len(e.Samples))
	}
	if e.AnchorOffset() != 35 {
		t.Fatalf("anchor offset: got=%d want=35", e.AnchorOffset())
	}

	v, ok := e.At(0)
	if !ok || v != 500 {
		t.Fatalf("At(0): got=(%f,%v) want=(500,true)", v, ok)
	}
	v, ok = e.At(-35)
	if !ok || v != 465 {
		t.Fatalf("At(-35): got=(%f,%v)", v, ok)
	}
	if _, ok := e.At(-36); ok {
		t.Fatalf("At(-36) should be out of window")
	}
}

func TestExtractClampsAtBorders(t *testing.T) {
	signal := make([]float64, 100)

	got, err := Extract(signal, []int{5, 95}, 100, 0.35, 0.5)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	first := got[0]
	if first.Start != 0 || first.AnchorOffset() != 5 {
		t.Fatalf("front clamp: start=%d offset=%d", first.Start, first.AnchorOffset())
	}

	last := got[1]
	if last.Start+len(last.Samples) != 100 {
		t.Fatalf("back clamp: start=%d len=%d", last.Start, len(last.Samples))
	}
	if last.AnchorOffset() != 35 {
		t.Fatalf("back clamp anchor offset: got=%d want=35", last.AnchorOffset())
	}
}

func TestExtractErrors(t *testing.T) {
	if _, err := Extract(nil, []int{0}, 100, 0.1, 0.1); err != ErrEmptySignal {
		t.Fatalf("expected ErrEmptySignal, got %v", err)
	}
	if _, err := Extract([]float64{1}, []int{0}, 0, 0.1, 0.1); err != ErrInvalidRate {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
	if _, err := Extract([]float64{1, 2}, []int{5}, 100, 0.1, 0.1); err != ErrAnchorOutOfRange {
		t.Fatalf("expected ErrAnchorOutOfRange, got %v", err)
	}
	if _, err := Extract([]float64{1, 2}, []int{0}, 100, 0, 0); err != ErrInvalidSpan {
		t.Fatalf("expected ErrInvalidSpan, got %v", err)
	}
}
