package dialog

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/kweston/braid/internal/tokenizer"
)

// Codec is the tokenizer surface the chat format needs.
type Codec interface {
	Encode(text string, bos, eos bool) ([]int, error)
	Decode(ids []int) (string, error)
}

// ChatFormat flattens a dialog into a prompt token sequence and rebuilds
// the assistant message from generated tokens. The wire layout is the
// llama3 header scheme:
//
//	<|begin_of_text|>
//	<|start_header_id|>role<|end_header_id|>\n\n content <|eot_id|>  (per message)
//	<|start_header_id|>assistant<|end_header_id|>\n\n                (generation cue)
type ChatFormat struct {
	codec    Codec
	specials tokenizer.SpecialTokens
}

// NewChatFormat builds a formatter over the given codec and control-token
// table.
func NewChatFormat(codec Codec, specials tokenizer.SpecialTokens) *ChatFormat {
	return &ChatFormat{codec: codec, specials: specials}
}

// EncodeDialogPrompt renders the messages followed by an empty assistant
// header so generation continues as the assistant. The tool prompt format
// governs how tool output turns are framed; it does not alter ordinary
// text turns.
func (f *ChatFormat) EncodeDialogPrompt(msgs []Message, format ToolPromptFormat) ([]int, error) {
	tokens := []int{f.specials.BeginOfText}
	for _, m := range msgs {
		enc, err := f.encodeMessage(m, format)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, enc...)
	}
	header, err := f.encodeHeader(RoleAssistant)
	if err != nil {
		return nil, err
	}
	return append(tokens, header...), nil
}

func (f *ChatFormat) encodeHeader(role Role) ([]int, error) {
	body, err := f.codec.Encode(string(role), false, false)
	if err != nil {
		return nil, fmt.Errorf("encode role %q: %w", role, err)
	}
	sep, err := f.codec.Encode("\n\n", false, false)
	if err != nil {
		return nil, err
	}
	tokens := append([]int{f.specials.StartHeaderID}, body...)
	tokens = append(tokens, f.specials.EndHeaderID)
	return append(tokens, sep...), nil
}

func (f *ChatFormat) encodeMessage(m Message, format ToolPromptFormat) ([]int, error) {
	tokens, err := f.encodeHeader(m.Role)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(m.Content)
	if m.Role == RoleTool && format == ToolFormatFunctionTag {
		content = "<function_response>" + content + "</function_response>"
	}
	body, err := f.codec.Encode(content, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", m.Role, err)
	}
	tokens = append(tokens, body...)
	return append(tokens, f.specials.EndOfTurn), nil
}

// DecodeAssistantMessage rebuilds the assistant message from the generated
// tokens. Trailing stop markers are stripped, and tool-call payloads
// (either <|python_tag|>-prefixed or a bare JSON invocation) are parsed
// into structured calls. The stop reason is recorded as given; a
// StopOutOfTokens message may hold a truncated payload, in which case the
// raw text is preserved as content.
func (f *ChatFormat) DecodeAssistantMessage(tokens []int, reason StopReason) (CompletionMessage, error) {
	msg := CompletionMessage{Role: RoleAssistant, StopReason: reason}

	text, err := f.codec.Decode(tokens)
	if err != nil {
		return msg, fmt.Errorf("decode assistant tokens: %w", err)
	}
	text = strings.TrimSuffix(text, EndOfTurnMarker)
	text = strings.TrimSuffix(text, EndOfMessageMarker)
	text = strings.TrimSpace(text)

	if payload, ok := strings.CutPrefix(text, PythonTagMarker); ok {
		if call, ok := parseToolPayload(payload); ok && reason != StopOutOfTokens {
			msg.ToolCalls = []ToolCall{call}
			return msg, nil
		}
		msg.Content = payload
		return msg, nil
	}

	if call, ok := parseToolPayload(text); ok {
		msg.ToolCalls = []ToolCall{call}
		return msg, nil
	}

	msg.Content = text
	return msg, nil
}

// toolEnvelope matches both the {"type":"function","name":...,"parameters":...}
// and the {"name":...,"arguments":...} shapes.
type toolEnvelope struct {
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
	Arguments  map[string]any `json:"arguments"`
}

func parseToolPayload(text string) (ToolCall, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return ToolCall{}, false
	}
	var env toolEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return ToolCall{}, false
	}
	if env.Name == "" {
		return ToolCall{}, false
	}
	args := env.Arguments
	if args == nil {
		args = env.Parameters
	}
	return ToolCall{Name: env.Name, Arguments: args}, true
}
