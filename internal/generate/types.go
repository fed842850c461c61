package generate

import (
	"context"
	"errors"

	"github.com/kweston/braid/internal/dialog"
)

// Model is the forward-pass collaborator: a black box mapping a token
// window plus its start offset to per-position vocabulary logits. Attention
// caching across calls with growing offsets is the implementation's
// concern; the engine only requires that the returned matrix has one logits
// row per window position.
type Model interface {
	Forward(ctx context.Context, window []int, startPos int) ([][]float32, error)
}

// Formatter is the dialog-formatting collaborator used by chat completion.
type Formatter interface {
	EncodeDialogPrompt(msgs []dialog.Message, format dialog.ToolPromptFormat) ([]int, error)
	DecodeAssistantMessage(tokens []int, reason dialog.StopReason) (dialog.CompletionMessage, error)
}

// TokenResult is emitted once per decode step and consumed immediately by
// the caller; the engine does not retain it.
type TokenResult struct {
	Token int
	Text  string
	// LogProbs holds one value per position finalized by this step (the
	// whole prompt window on the first step, a single value afterwards).
	// Nil unless log-probabilities were requested.
	LogProbs []float64
}

// CompletionPrediction is the accumulated result of one text completion.
// DecodedTokens and LogProbs are populated only when log-probabilities
// were requested.
type CompletionPrediction struct {
	Generation    string
	DecodedTokens []string
	LogProbs      [][]float64
}

// ChatPrediction is the accumulated result of one chat completion.
type ChatPrediction struct {
	Generation    dialog.CompletionMessage
	DecodedTokens []string
	LogProbs      [][]float64
}

// ErrPromptTooLong is returned when the prompt already meets or exceeds
// the context limit; no tokens are generated.
var ErrPromptTooLong = errors.New("prompt exceeds the context limit")
