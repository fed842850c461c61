package generate

import "fmt"

// SequenceBuffer holds the prompt and generated tokens for a batch of
// sequences decoded in lockstep. Every row has a fixed capacity, is
// pre-filled with the pad id, and carries a mask that pins the original
// prompt positions for the buffer's lifetime. The adapters in this package
// drive a single row per call, but the mask, cursor, and done flag are kept
// per row so a multi-sequence batcher can reuse the type unchanged.
type SequenceBuffer struct {
	padID        int
	totalLen     int
	minPromptLen int
	rows         []bufferRow
}

type bufferRow struct {
	tokens    []int
	mask      []bool // true where the position was part of the prompt
	logProbs  []float64
	promptLen int
	done      bool
}

// NewSequenceBuffer builds a buffer of totalLen positions per row. Each
// prompt is copied into the head of its row; the remaining positions stay
// at padID until the decode loop finalizes them. Log-probability storage is
// allocated only when requested.
func NewSequenceBuffer(prompts [][]int, totalLen, padID int, withLogProbs bool) (*SequenceBuffer, error) {
	if len(prompts) == 0 {
		return nil, fmt.Errorf("sequence buffer needs at least one prompt")
	}
	buf := &SequenceBuffer{
		padID:        padID,
		totalLen:     totalLen,
		minPromptLen: totalLen + 1,
		rows:         make([]bufferRow, len(prompts)),
	}
	for i, prompt := range prompts {
		if len(prompt) == 0 {
			return nil, fmt.Errorf("row %d: empty prompt", i)
		}
		if len(prompt) > totalLen {
			return nil, fmt.Errorf("row %d: prompt length %d exceeds buffer length %d", i, len(prompt), totalLen)
		}
		row := bufferRow{
			tokens:    make([]int, totalLen),
			mask:      make([]bool, totalLen),
			promptLen: len(prompt),
		}
		for p := range row.tokens {
			row.tokens[p] = padID
		}
		copy(row.tokens, prompt)
		for p, tok := range row.tokens {
			row.mask[p] = tok != padID
		}
		if withLogProbs {
			row.logProbs = make([]float64, totalLen)
		}
		buf.rows[i] = row
		if len(prompt) < buf.minPromptLen {
			buf.minPromptLen = len(prompt)
		}
	}
	return buf, nil
}

// Rows returns the batch size.
func (b *SequenceBuffer) Rows() int { return len(b.rows) }

// TotalLen returns the fixed per-row capacity.
func (b *SequenceBuffer) TotalLen() int { return b.totalLen }

// MinPromptLen returns the shortest prompt length across rows; decoding
// starts at this position.
func (b *SequenceBuffer) MinPromptLen() int { return b.minPromptLen }

// PromptLen returns the prompt length of the given row.
func (b *SequenceBuffer) PromptLen(row int) int { return b.rows[row].promptLen }

// Token returns the token at the given position of a row.
func (b *SequenceBuffer) Token(row, pos int) int { return b.rows[row].tokens[pos] }

// Tokens returns a copy of the row's full token vector, pad included.
func (b *SequenceBuffer) Tokens(row int) []int {
	return append([]int(nil), b.rows[row].tokens...)
}

// IsPrompt reports whether the position belongs to the row's original
// prompt region.
func (b *SequenceBuffer) IsPrompt(row, pos int) bool { return b.rows[row].mask[pos] }

// LogProbs returns a copy of the row's log-probability vector, or nil when
// diagnostics were not requested.
func (b *SequenceBuffer) LogProbs(row int) []float64 {
	if b.rows[row].logProbs == nil {
		return nil
	}
	return append([]float64(nil), b.rows[row].logProbs...)
}

// Done reports whether the row has produced a stop token outside its
// prompt region. The flag is sticky.
func (b *SequenceBuffer) Done(row int) bool { return b.rows[row].done }

func (b *SequenceBuffer) allDone() bool {
	for i := range b.rows {
		if !b.rows[i].done {
			return false
		}
	}
	return true
}
