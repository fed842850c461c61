package generate

import "github.com/kweston/braid/internal/dialog"

// Options are the caller-facing generation knobs. All fields are pointers
// so an unset field falls back to the engine default.
type Options struct {
	// Temperature scales the logits before softmax; <= 0 disables
	// stochastic sampling entirely in favor of argmax. Default 0.6.
	Temperature *float64
	// TopP is the nucleus mass threshold, in (0, 1]. Default 0.9.
	TopP *float64
	// MaxGenLen bounds the number of generated tokens. Unset, zero, or a
	// value at or beyond the context limit resolves to contextLimit-1.
	MaxGenLen *int
	// LogProbs requests per-token log-probability diagnostics.
	LogProbs *bool
	// Seed fixes the sampling RNG; unset draws from the engine's
	// sequence so repeated calls differ.
	Seed *int64
	// ToolPromptFormat applies to chat completion only. Default json.
	ToolPromptFormat *dialog.ToolPromptFormat
}

// request is a fully resolved Options.
type request struct {
	temperature float64
	topP        float64
	maxGenLen   int
	logProbs    bool
	seed        int64
	toolFormat  dialog.ToolPromptFormat
}

func (e *Engine) resolve(opts Options) request {
	req := request{
		temperature: 0.6,
		topP:        0.9,
		maxGenLen:   e.maxSeqLen - 1,
		logProbs:    false,
		seed:        e.seeds.Add(1),
		toolFormat:  dialog.ToolFormatJSON,
	}
	if opts.Temperature != nil {
		req.temperature = *opts.Temperature
	}
	if opts.TopP != nil {
		req.topP = *opts.TopP
	}
	if opts.MaxGenLen != nil && *opts.MaxGenLen > 0 && *opts.MaxGenLen < e.maxSeqLen {
		req.maxGenLen = *opts.MaxGenLen
	}
	if opts.LogProbs != nil {
		req.logProbs = *opts.LogProbs
	}
	if opts.Seed != nil {
		req.seed = *opts.Seed
	}
	if opts.ToolPromptFormat != nil {
		req.toolFormat = *opts.ToolPromptFormat
	}
	return req
}
