package generate

import (
	"context"
	"fmt"

	"github.com/kweston/braid/internal/logits"
	"github.com/kweston/braid/internal/tokenizer"
)

// Stream is the decode loop: a demand-pulled state machine over a
// SequenceBuffer. Each call to Next blocks on one forward pass, finalizes
// one buffer position per row, and returns exactly one TokenResult for the
// first row. A Stream is good for a single traversal; once exhausted (or
// failed) it stays that way.
type Stream struct {
	ctx     context.Context
	model   Model
	sampler *logits.Sampler
	tok     tokenizer.Tokenizer
	buf     *SequenceBuffer
	stop    map[int]struct{}

	curPos       int
	prevPos      int
	wantLogProbs bool
	done         bool
	err          error
}

func newStream(ctx context.Context, model Model, sampler *logits.Sampler, tok tokenizer.Tokenizer, buf *SequenceBuffer, wantLogProbs bool) *Stream {
	stop := make(map[int]struct{})
	for _, id := range tok.StopTokens() {
		stop[id] = struct{}{}
	}
	return &Stream{
		ctx:          ctx,
		model:        model,
		sampler:      sampler,
		tok:          tok,
		buf:          buf,
		stop:         stop,
		curPos:       buf.minPromptLen,
		prevPos:      0,
		wantLogProbs: wantLogProbs,
	}
}

// prefill handles the degenerate case where the shortest prompt already
// fills the buffer: one forward pass over the whole prompt populates the
// diagnostics and the stream yields nothing. Each prompt token is scored
// against the logits at its own position.
func (s *Stream) prefill() error {
	for ri := range s.buf.rows {
		row := &s.buf.rows[ri]
		lg, err := s.model.Forward(s.ctx, row.tokens, 0)
		if err != nil {
			return s.fail(fmt.Errorf("forward pass over prompt: %w", err))
		}
		if len(lg) != len(row.tokens) {
			return s.fail(fmt.Errorf("model returned %d logit rows for %d positions", len(lg), len(row.tokens)))
		}
		if s.wantLogProbs {
			for pos, l := range lg {
				tgt := row.tokens[pos]
				if tgt == s.buf.padID {
					continue
				}
				row.logProbs[pos] = logits.LogProb(l, tgt)
			}
		}
	}
	s.done = true
	return nil
}

// Next advances the loop by one step. It returns (nil, nil) once the
// stream is exhausted; after a failure it keeps returning the same error.
func (s *Stream) Next() (*TokenResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.done {
		return nil, nil
	}
	if err := s.ctx.Err(); err != nil {
		return nil, s.fail(err)
	}

	for ri := range s.buf.rows {
		row := &s.buf.rows[ri]

		window := row.tokens[s.prevPos:s.curPos]
		lg, err := s.model.Forward(s.ctx, window, s.prevPos)
		if err != nil {
			return nil, s.fail(fmt.Errorf("forward pass at position %d: %w", s.curPos, err))
		}
		if len(lg) != len(window) {
			return nil, s.fail(fmt.Errorf("model returned %d logit rows for a %d token window", len(lg), len(window)))
		}

		// Only the final window position drives sampling; the earlier
		// rows exist to rescore already-known tokens.
		next := s.sampler.Sample(lg[len(lg)-1])

		// Positions still inside the prompt region echo the prompt
		// token, whatever was sampled.
		if row.mask[s.curPos] {
			next = row.tokens[s.curPos]
		}
		row.tokens[s.curPos] = next

		if s.wantLogProbs {
			for i, l := range lg {
				pos := s.prevPos + 1 + i
				tgt := row.tokens[pos]
				if tgt == s.buf.padID {
					continue
				}
				row.logProbs[pos] = logits.LogProb(l, tgt)
			}
		}

		if !row.mask[s.curPos] {
			if _, isStop := s.stop[next]; isStop {
				row.done = true
			}
		}
	}

	emitted := s.buf.rows[0].tokens[s.curPos]
	text, err := s.tok.Decode([]int{emitted})
	if err != nil {
		return nil, s.fail(fmt.Errorf("decode token %d: %w", emitted, err))
	}
	res := &TokenResult{Token: emitted, Text: text}
	if s.wantLogProbs {
		res.LogProbs = append([]float64(nil), s.buf.rows[0].logProbs[s.prevPos+1:s.curPos+1]...)
	}

	s.prevPos = s.curPos
	s.curPos++
	if s.curPos >= s.buf.totalLen || s.buf.allDone() {
		s.done = true
	}
	return res, nil
}

// Buffer exposes the underlying sequence buffer for inspection.
func (s *Stream) Buffer() *SequenceBuffer { return s.buf }

// PromptLogProbs returns the log-probabilities recorded for the first
// row, covering prompt positions as they are rescored. Nil unless
// diagnostics were requested.
func (s *Stream) PromptLogProbs() []float64 { return s.buf.LogProbs(0) }

func (s *Stream) fail(err error) error {
	s.err = err
	s.done = true
	return err
}
