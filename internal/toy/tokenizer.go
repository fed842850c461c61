package toy

import (
	"fmt"
	"strings"

	"github.com/kweston/braid/internal/dialog"
	"github.com/kweston/braid/internal/tokenizer"
)

// Byte-level vocabulary: ids 0-255 are raw bytes, control ids follow.
const (
	bosID = 256
	eosID = 257
	shID  = 258
	ehID  = 259
	eomID = 260
	eotID = 261
	pyID  = 262

	// VocabSize is the model vocabulary matching this tokenizer.
	VocabSize = 263
)

// Tokenizer maps text to raw bytes one id each, with llama-style control
// ids above the byte range. It needs no vocabulary file, so the toy
// backend runs anywhere.
type Tokenizer struct{}

func NewTokenizer() *Tokenizer { return &Tokenizer{} }

func (t *Tokenizer) Encode(text string, bos, eos bool) ([]int, error) {
	ids := make([]int, 0, len(text)+2)
	if bos {
		ids = append(ids, bosID)
	}
	for _, b := range []byte(text) {
		ids = append(ids, int(b))
	}
	if eos {
		ids = append(ids, eosID)
	}
	return ids, nil
}

func (t *Tokenizer) Decode(ids []int) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		switch {
		case id >= 0 && id < 256:
			sb.WriteByte(byte(id))
		case id == bosID:
			sb.WriteString("<|begin_of_text|>")
		case id == eosID:
			sb.WriteString("<|end_of_text|>")
		case id == shID:
			sb.WriteString("<|start_header_id|>")
		case id == ehID:
			sb.WriteString("<|end_header_id|>")
		case id == eotID:
			sb.WriteString(dialog.EndOfTurnMarker)
		case id == eomID:
			sb.WriteString(dialog.EndOfMessageMarker)
		case id == pyID:
			sb.WriteString(dialog.PythonTagMarker)
		default:
			return "", fmt.Errorf("token id %d out of range", id)
		}
	}
	return sb.String(), nil
}

func (t *Tokenizer) PadID() int { return -1 }

func (t *Tokenizer) StopTokens() []int { return []int{eosID, eotID, eomID} }

// Specials returns the control-token table so the chat format can run
// over the toy backend.
func (t *Tokenizer) Specials() tokenizer.SpecialTokens {
	return tokenizer.SpecialTokens{
		BeginOfText:   bosID,
		EndOfText:     eosID,
		StartHeaderID: shID,
		EndHeaderID:   ehID,
		EndOfMessage:  eomID,
		EndOfTurn:     eotID,
		PythonTag:     pyID,
		Pad:           -1,
	}
}
