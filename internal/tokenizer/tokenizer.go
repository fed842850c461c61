package tokenizer

// Tokenizer maps text to token ids and back. Implementations must be safe
// for concurrent readers; the engine treats them as read-only handles.
type Tokenizer interface {
	// Encode tokenizes text, optionally prepending the begin-of-text
	// marker and appending the end-of-text marker.
	Encode(text string, bos, eos bool) ([]int, error)
	// Decode renders token ids as text. Special tokens are rendered as
	// their marker strings, not dropped: the generation engine inspects
	// decoded fragments to classify stop reasons.
	Decode(ids []int) (string, error)
	// PadID is the id used to fill unwritten buffer positions. It is
	// never a valid vocabulary id.
	PadID() int
	// StopTokens lists the ids that end generation when emitted outside
	// the prompt region.
	StopTokens() []int
}

// SpecialTokens holds the control-token ids a chat-capable tokenizer
// reserves beyond its plain vocabulary.
type SpecialTokens struct {
	BeginOfText   int
	EndOfText     int
	StartHeaderID int
	EndHeaderID   int
	EndOfMessage  int
	EndOfTurn     int
	PythonTag     int
	Pad           int
}

// Llama3Specials returns the reserved token ids used by the llama3 family.
func Llama3Specials() SpecialTokens {
	return SpecialTokens{
		BeginOfText:   128000,
		EndOfText:     128001,
		StartHeaderID: 128006,
		EndHeaderID:   128007,
		EndOfMessage:  128008,
		EndOfTurn:     128009,
		PythonTag:     128010,
		Pad:           -1,
	}
}

// Stops returns the stop-token set implied by the special table: end of
// text, end of turn, and end of message.
func (st SpecialTokens) Stops() []int {
	return []int{st.EndOfText, st.EndOfTurn, st.EndOfMessage}
}
