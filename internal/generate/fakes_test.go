package generate

import (
	"context"
	"fmt"
)

const testVocab = 16

// Marker ids the fake tokenizer renders as the llama-style control
// strings.
const (
	fakeEOT = 13
	fakeEOM = 14
	fakeEOS = 15
)

// peaked returns a logits vector whose argmax is peak, with a small
// deterministic slope elsewhere so log-probabilities are well defined.
func peaked(peak int) []float32 {
	v := make([]float32, testVocab)
	for i := range v {
		v[i] = float32(i) * 0.01
	}
	v[peak] = 10
	return v
}

type forwardCall struct {
	window   []int
	startPos int
}

// scriptModel returns, per Forward call, the same peaked logits vector for
// every window position. The peaks are consumed from the script in call
// order; the last entry repeats once the script is exhausted.
type scriptModel struct {
	script []int
	calls  []forwardCall
	failAt int // 1-based call index that fails; 0 disables
}

func newScriptModel(script ...int) *scriptModel {
	return &scriptModel{script: script}
}

func (m *scriptModel) Forward(_ context.Context, window []int, startPos int) ([][]float32, error) {
	m.calls = append(m.calls, forwardCall{
		window:   append([]int(nil), window...),
		startPos: startPos,
	})
	if m.failAt > 0 && len(m.calls) == m.failAt {
		return nil, fmt.Errorf("backend unavailable")
	}
	idx := len(m.calls) - 1
	if idx >= len(m.script) {
		idx = len(m.script) - 1
	}
	out := make([][]float32, len(window))
	for i := range out {
		out[i] = peaked(m.script[idx])
	}
	return out, nil
}

// fakeTok is a scriptable tokenizer: Encode returns the configured prompt
// ids, Decode renders ids positionally with control markers for the stop
// ids.
type fakeTok struct {
	enc []int
}

func (f *fakeTok) Encode(text string, bos, eos bool) ([]int, error) {
	return append([]int(nil), f.enc...), nil
}

func (f *fakeTok) Decode(ids []int) (string, error) {
	var s string
	for _, id := range ids {
		switch id {
		case fakeEOT:
			s += "<|eot_id|>"
		case fakeEOM:
			s += "<|eom_id|>"
		case fakeEOS:
			s += "<|end_of_text|>"
		default:
			s += fmt.Sprintf("<%d>", id)
		}
	}
	return s, nil
}

func (f *fakeTok) PadID() int { return -1 }

func (f *fakeTok) StopTokens() []int { return []int{fakeEOS, fakeEOT, fakeEOM} }
