package tokenizer

import (
	"fmt"

	"github.com/daulet/tokenizers"
)

// HF wraps a HuggingFace tokenizer.json file. Begin/end markers are applied
// by id from the special-token table rather than relying on the file's
// post-processor, so Encode behaves identically across model exports.
type HF struct {
	tk       *tokenizers.Tokenizer
	specials SpecialTokens
}

// NewHF loads tokenizer.json from path.
func NewHF(path string, specials SpecialTokens) (*HF, error) {
	tk, err := tokenizers.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", path, err)
	}
	return &HF{tk: tk, specials: specials}, nil
}

// Close releases the underlying native tokenizer.
func (t *HF) Close() error {
	return t.tk.Close()
}

// Specials returns the control-token table.
func (t *HF) Specials() SpecialTokens {
	return t.specials
}

func (t *HF) Encode(text string, bos, eos bool) ([]int, error) {
	ids, _ := t.tk.Encode(text, false)
	out := make([]int, 0, len(ids)+2)
	if bos {
		out = append(out, t.specials.BeginOfText)
	}
	for _, id := range ids {
		out = append(out, int(id))
	}
	if eos {
		out = append(out, t.specials.EndOfText)
	}
	return out, nil
}

func (t *HF) Decode(ids []int) (string, error) {
	u := make([]uint32, 0, len(ids))
	for _, id := range ids {
		if id < 0 {
			return "", fmt.Errorf("decode: negative token id %d", id)
		}
		u = append(u, uint32(id))
	}
	// Keep special tokens: stop-reason classification depends on seeing
	// their marker text.
	return t.tk.Decode(u, false), nil
}

func (t *HF) PadID() int {
	return t.specials.Pad
}

func (t *HF) StopTokens() []int {
	return t.specials.Stops()
}
