package toy

import (
	"context"
	"math"
	"testing"

	"github.com/kweston/braid/internal/tensor"
)

func TestForwardMatchesNaive(t *testing.T) {
	vocab, hidden := 12, 6
	m := NewModel(vocab, hidden, 5)

	window := []int{3, 7, 1}
	out, err := m.Forward(context.Background(), window, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(window) {
		t.Fatalf("got %d logit rows for %d positions", len(out), len(window))
	}

	// Recompute by hand with the same weights.
	ref := NewModel(vocab, hidden, 5)
	h := make([]float32, hidden)
	for i, tok := range window {
		for j := range h {
			h[j] = h[j]*0.9 + ref.emb.Row(tok)[j]
		}
		want := make([]float32, vocab)
		tensor.MatVec(want, &ref.proj, h)
		for v := range want {
			if math.Abs(float64(out[i][v]-want[v])) > 1e-4 {
				t.Fatalf("position %d logit %d: got %f, want %f", i, v, out[i][v], want[v])
			}
		}
	}
}

func TestForwardIsDeterministic(t *testing.T) {
	a := NewModel(VocabSize, 16, 42)
	b := NewModel(VocabSize, 16, 42)

	outA, err := a.Forward(context.Background(), []int{10, 20, 30}, 0)
	if err != nil {
		t.Fatal(err)
	}
	outB, err := b.Forward(context.Background(), []int{10, 20, 30}, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range outA {
		for v := range outA[i] {
			if outA[i][v] != outB[i][v] {
				t.Fatal("same seed produced different logits")
			}
		}
	}
}

func TestForwardContiguity(t *testing.T) {
	m := NewModel(VocabSize, 8, 1)
	ctx := context.Background()

	if _, err := m.Forward(ctx, []int{1, 2}, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Forward(ctx, []int{3}, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Forward(ctx, []int{4}, 7); err == nil {
		t.Fatal("expected error for a window that skips positions")
	}

	// Starting over at position zero resets the state.
	first, err := m.Forward(ctx, []int{1, 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	m2 := NewModel(VocabSize, 8, 1)
	fresh, err := m2.Forward(ctx, []int{1, 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		for v := range first[i] {
			if first[i][v] != fresh[i][v] {
				t.Fatal("restart at position zero did not reset the state")
			}
		}
	}
}

func TestForwardWrapsOutOfRangeTokens(t *testing.T) {
	m := NewModel(10, 4, 3)
	ctx := context.Background()
	a, err := m.Forward(ctx, []int{13}, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Forward(ctx, []int{3}, 0)
	if err != nil {
		t.Fatal(err)
	}
	for v := range a[0] {
		if a[0][v] != b[0][v] {
			t.Fatal("out-of-range token not reduced modulo vocab")
		}
	}
}
