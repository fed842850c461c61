// Package toy provides a self-contained backend for exercising the decode
// loop without checkpoint weights: a tiny recurrent language model with
// seeded random parameters and a byte-level tokenizer. Output is
// meaningless but fully deterministic for a given seed.
package toy

import (
	"context"
	"fmt"

	"github.com/kweston/braid/internal/tensor"
)

// Model is a minimal recurrent language model. Each token folds its
// embedding into a decayed hidden state, which is then projected back to
// vocabulary logits. Forward calls must advance contiguously through the
// sequence; a call starting at position zero resets the state. The hidden
// state makes a Model single-caller: one decode at a time.
type Model struct {
	vocab  int
	hidden int
	decay  float32

	emb  tensor.Mat // [vocab x hidden]
	proj tensor.Mat // [vocab x hidden], logits[v] = proj[v] . h

	h   []float32
	pos int
}

// NewModel constructs a model with reproducible random weights derived
// from the seed.
func NewModel(vocab, hidden int, seed int64) *Model {
	m := &Model{
		vocab:  vocab,
		hidden: hidden,
		decay:  0.9,
		emb:    tensor.NewMat(vocab, hidden),
		proj:   tensor.NewMat(vocab, hidden),
		h:      make([]float32, hidden),
	}
	tensor.FillRand(&m.emb, seed+11)
	tensor.FillRand(&m.proj, seed+23)
	return m
}

// VocabSize returns the width of the logits rows Forward produces.
func (m *Model) VocabSize() int { return m.vocab }

// Reset clears the hidden state and rewinds to position zero.
func (m *Model) Reset() {
	for i := range m.h {
		m.h[i] = 0
	}
	m.pos = 0
}

// Forward consumes a contiguous token window and returns one logits row
// per position. Token ids outside [0, vocab) are reduced modulo vocab.
func (m *Model) Forward(ctx context.Context, window []int, startPos int) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if startPos == 0 {
		m.Reset()
	} else if startPos != m.pos {
		return nil, fmt.Errorf("non-contiguous window: start %d, state at %d", startPos, m.pos)
	}

	out := make([][]float32, len(window))
	for i, tok := range window {
		if tok < 0 || tok >= m.vocab {
			tok = tok % m.vocab
			if tok < 0 {
				tok += m.vocab
			}
		}
		tensor.Scale(m.decay, m.h)
		tensor.AXPY(1, m.emb.Row(tok), m.h)

		logits := make([]float32, m.vocab)
		tensor.MatVec(logits, &m.proj, m.h)
		out[i] = logits
		m.pos++
	}
	return out, nil
}
