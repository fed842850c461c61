package dialog

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleTool carries tool-call output back into the dialog.
	RoleTool Role = "ipython"
)

// Message is one turn of a dialog.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StopReason records why a chat completion stopped emitting tokens. It is
// assigned exactly once per completion.
type StopReason string

const (
	StopEndOfTurn    StopReason = "end_of_turn"
	StopEndOfMessage StopReason = "end_of_message"
	// StopOutOfTokens is the default when no stop marker was produced
	// before the token budget ran out.
	StopOutOfTokens StopReason = "out_of_tokens"
)

// ToolPromptFormat selects how tool payloads are rendered and parsed.
type ToolPromptFormat string

const (
	ToolFormatJSON        ToolPromptFormat = "json"
	ToolFormatFunctionTag ToolPromptFormat = "function_tag"
	ToolFormatPythonList  ToolPromptFormat = "python_list"
)

// ToolCall is a structured tool invocation reconstructed from generated
// text.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// CompletionMessage is the assistant message reconstructed from one chat
// completion.
type CompletionMessage struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	StopReason StopReason `json:"stop_reason"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// Marker strings rendered by the tokenizer for the control tokens the chat
// adapters inspect.
const (
	EndOfTurnMarker    = "<|eot_id|>"
	EndOfMessageMarker = "<|eom_id|>"
	PythonTagMarker    = "<|python_tag|>"
)
