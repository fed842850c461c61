package dialog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kweston/braid/internal/tokenizer"
)

// byteCodec tokenizes one byte per id and renders the test control ids as
// their marker strings, mirroring how a real tokenizer surfaces specials.
type byteCodec struct{}

const (
	tEOT    = 1000
	tEOM    = 1001
	tPython = 1002
	tBOS    = 1003
	tEOS    = 1004
	tSH     = 1005
	tEH     = 1006
)

func testSpecials() tokenizer.SpecialTokens {
	return tokenizer.SpecialTokens{
		BeginOfText:   tBOS,
		EndOfText:     tEOS,
		StartHeaderID: tSH,
		EndHeaderID:   tEH,
		EndOfMessage:  tEOM,
		EndOfTurn:     tEOT,
		PythonTag:     tPython,
		Pad:           -1,
	}
}

func (byteCodec) Encode(text string, bos, eos bool) ([]int, error) {
	ids := make([]int, 0, len(text)+2)
	if bos {
		ids = append(ids, tBOS)
	}
	for _, b := range []byte(text) {
		ids = append(ids, int(b))
	}
	if eos {
		ids = append(ids, tEOS)
	}
	return ids, nil
}

func (byteCodec) Decode(ids []int) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		switch id {
		case tEOT:
			sb.WriteString(EndOfTurnMarker)
		case tEOM:
			sb.WriteString(EndOfMessageMarker)
		case tPython:
			sb.WriteString(PythonTagMarker)
		case tBOS, tEOS, tSH, tEH:
			// headers render as nothing in this fake
		default:
			if id < 0 || id > 255 {
				return "", fmt.Errorf("unknown id %d", id)
			}
			sb.WriteByte(byte(id))
		}
	}
	return sb.String(), nil
}

func encodeIDs(t *testing.T, text string) []int {
	t.Helper()
	ids, err := byteCodec{}.Encode(text, false, false)
	if err != nil {
		t.Fatal(err)
	}
	return ids
}

func TestEncodeDialogPromptLayout(t *testing.T) {
	f := NewChatFormat(byteCodec{}, testSpecials())

	got, err := f.EncodeDialogPrompt([]Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	}, ToolFormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	var want []int
	want = append(want, tBOS)
	for _, m := range []struct {
		role, content string
	}{
		{"system", "be brief"},
		{"user", "hi"},
	} {
		want = append(want, tSH)
		want = append(want, encodeIDs(t, m.role)...)
		want = append(want, tEH)
		want = append(want, encodeIDs(t, "\n\n")...)
		want = append(want, encodeIDs(t, m.content)...)
		want = append(want, tEOT)
	}
	// trailing assistant header cues generation
	want = append(want, tSH)
	want = append(want, encodeIDs(t, "assistant")...)
	want = append(want, tEH)
	want = append(want, encodeIDs(t, "\n\n")...)

	if len(got) != len(want) {
		t.Fatalf("prompt length %d, want %d\ngot  %v\nwant %v", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("prompt[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEncodeDialogPromptTrimsContent(t *testing.T) {
	f := NewChatFormat(byteCodec{}, testSpecials())
	a, err := f.EncodeDialogPrompt([]Message{{Role: RoleUser, Content: "  hi  "}}, ToolFormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.EncodeDialogPrompt([]Message{{Role: RoleUser, Content: "hi"}}, ToolFormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("padded content should encode identically: %d vs %d tokens", len(a), len(b))
	}
}

func TestDecodeAssistantMessagePlainText(t *testing.T) {
	f := NewChatFormat(byteCodec{}, testSpecials())
	tokens := encodeIDs(t, "hello there")
	tokens = append(tokens, tEOT)

	msg, err := f.DecodeAssistantMessage(tokens, StopEndOfTurn)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Role != RoleAssistant {
		t.Fatalf("role = %q", msg.Role)
	}
	if msg.Content != "hello there" {
		t.Fatalf("content = %q, stop marker should be stripped", msg.Content)
	}
	if msg.StopReason != StopEndOfTurn {
		t.Fatalf("stop reason = %q", msg.StopReason)
	}
	if len(msg.ToolCalls) != 0 {
		t.Fatalf("unexpected tool calls: %v", msg.ToolCalls)
	}
}

func TestDecodeAssistantMessagePythonTagToolCall(t *testing.T) {
	f := NewChatFormat(byteCodec{}, testSpecials())
	tokens := []int{tPython}
	tokens = append(tokens, encodeIDs(t, `{"name": "get_weather", "arguments": {"city": "Oslo"}}`)...)
	tokens = append(tokens, tEOM)

	msg, err := f.DecodeAssistantMessage(tokens, StopEndOfMessage)
	if err != nil {
		t.Fatal(err)
	}
	if len(msg.ToolCalls) != 1 {
		t.Fatalf("expected one tool call, got %v", msg.ToolCalls)
	}
	call := msg.ToolCalls[0]
	if call.Name != "get_weather" {
		t.Fatalf("tool name = %q", call.Name)
	}
	if call.Arguments["city"] != "Oslo" {
		t.Fatalf("arguments = %v", call.Arguments)
	}
	if msg.Content != "" {
		t.Fatalf("tool-call message should carry no content, got %q", msg.Content)
	}
}

func TestDecodeAssistantMessageBareJSONToolCall(t *testing.T) {
	f := NewChatFormat(byteCodec{}, testSpecials())
	tokens := encodeIDs(t, `{"type": "function", "name": "lookup", "parameters": {"q": "go"}}`)
	tokens = append(tokens, tEOT)

	msg, err := f.DecodeAssistantMessage(tokens, StopEndOfTurn)
	if err != nil {
		t.Fatal(err)
	}
	if len(msg.ToolCalls) != 1 || msg.ToolCalls[0].Name != "lookup" {
		t.Fatalf("tool calls = %v", msg.ToolCalls)
	}
	if msg.ToolCalls[0].Arguments["q"] != "go" {
		t.Fatalf("arguments = %v", msg.ToolCalls[0].Arguments)
	}
}

func TestDecodeAssistantMessageTruncatedToolPayload(t *testing.T) {
	f := NewChatFormat(byteCodec{}, testSpecials())
	// Generation ran out of tokens mid-payload: the partial text is kept
	// as content and no tool call is synthesized.
	tokens := []int{tPython}
	tokens = append(tokens, encodeIDs(t, `{"name": "get_wea`)...)

	msg, err := f.DecodeAssistantMessage(tokens, StopOutOfTokens)
	if err != nil {
		t.Fatal(err)
	}
	if len(msg.ToolCalls) != 0 {
		t.Fatalf("truncated payload must not produce tool calls: %v", msg.ToolCalls)
	}
	if msg.Content != `{"name": "get_wea` {
		t.Fatalf("content = %q", msg.Content)
	}
	if msg.StopReason != StopOutOfTokens {
		t.Fatalf("stop reason = %q", msg.StopReason)
	}
}

func TestEncodeToolResponseFraming(t *testing.T) {
	f := NewChatFormat(byteCodec{}, testSpecials())
	plain, err := f.EncodeDialogPrompt([]Message{{Role: RoleTool, Content: "42"}}, ToolFormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	tagged, err := f.EncodeDialogPrompt([]Message{{Role: RoleTool, Content: "42"}}, ToolFormatFunctionTag)
	if err != nil {
		t.Fatal(err)
	}
	if len(tagged) <= len(plain) {
		t.Fatalf("function_tag framing should add tokens: %d vs %d", len(tagged), len(plain))
	}
}
