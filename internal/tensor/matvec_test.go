package tensor

import (
	"math"
	"testing"
)

func TestMatVecMatchesNaive(t *testing.T) {
	w := NewMat(7, 5)
	FillRand(&w, 42)
	x := []float32{0.5, -1, 2, 0.25, -0.75}

	got := make([]float32, w.R)
	MatVec(got, &w, x)

	for r := 0; r < w.R; r++ {
		var want float32
		for c := 0; c < w.C; c++ {
			want += w.Row(r)[c] * x[c]
		}
		if math.Abs(float64(got[r]-want)) > 1e-5 {
			t.Fatalf("row %d: got %f, want %f", r, got[r], want)
		}
	}
}

func TestMatVecLargeMatchesSerial(t *testing.T) {
	// Big enough to take the parallel path.
	w := NewMat(256, 128)
	FillRand(&w, 7)
	x := make([]float32, w.C)
	for i := range x {
		x[i] = float32(i%13) - 6
	}

	got := make([]float32, w.R)
	MatVec(got, &w, x)

	want := make([]float32, w.R)
	matVecRange(want, &w, x, 0, w.R)

	for r := range want {
		if math.Abs(float64(got[r]-want[r])) > 1e-4 {
			t.Fatalf("row %d: got %f, want %f", r, got[r], want[r])
		}
	}
}

func TestFillRandIsDeterministic(t *testing.T) {
	a := NewMat(4, 4)
	b := NewMat(4, 4)
	FillRand(&a, 99)
	FillRand(&b, 99)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatal("same seed produced different matrices")
		}
	}

	c := NewMat(4, 4)
	FillRand(&c, 100)
	same := true
	for i := range a.Data {
		if a.Data[i] != c.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical matrices")
	}
}

func TestNewMatFromData(t *testing.T) {
	m := NewMatFromData(2, 3, []float32{1, 2, 3, 4, 5, 6})
	if m.Row(1)[2] != 6 {
		t.Fatalf("row view = %v", m.Row(1))
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for mismatched data length")
		}
	}()
	NewMatFromData(2, 2, []float32{1, 2, 3})
}
