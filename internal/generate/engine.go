package generate

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kweston/braid/internal/dialog"
	"github.com/kweston/braid/internal/logger"
	"github.com/kweston/braid/internal/logits"
	"github.com/kweston/braid/internal/tokenizer"
)

// Config assembles an Engine from its collaborators. Model and Tokenizer
// are required; Formatter only for chat completion.
type Config struct {
	Model     Model
	Tokenizer tokenizer.Tokenizer
	Formatter Formatter
	// MaxSeqLen is the context limit: the maximum total token length
	// (prompt plus generated) per call.
	MaxSeqLen int
	// Seed is the base of the per-call sampling seed sequence.
	Seed   int64
	Logger logger.Logger
}

// Engine drives autoregressive decoding over a model, tokenizer, and
// dialog formatter. The collaborator handles are treated as read-only;
// every call owns its own buffer and stream, so an Engine may serve
// concurrent callers.
type Engine struct {
	model     Model
	tok       tokenizer.Tokenizer
	formatter Formatter
	maxSeqLen int
	log       logger.Logger
	seeds     atomic.Int64
}

// New validates the configuration and returns an Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("engine: model is required")
	}
	if cfg.Tokenizer == nil {
		return nil, fmt.Errorf("engine: tokenizer is required")
	}
	if cfg.MaxSeqLen <= 0 {
		return nil, fmt.Errorf("engine: max sequence length must be positive, got %d", cfg.MaxSeqLen)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	e := &Engine{
		model:     cfg.Model,
		tok:       cfg.Tokenizer,
		formatter: cfg.Formatter,
		maxSeqLen: cfg.MaxSeqLen,
		log:       log,
	}
	e.seeds.Store(cfg.Seed)
	return e, nil
}

// MaxSeqLen returns the engine's context limit.
func (e *Engine) MaxSeqLen() int { return e.maxSeqLen }

// Tokenizer returns the engine's tokenizer handle.
func (e *Engine) Tokenizer() tokenizer.Tokenizer { return e.tok }

// Generate starts a decode stream over the given prompt tokens. It fails
// before any forward pass when the prompt meets or exceeds the context
// limit or when the sampling parameters are invalid.
func (e *Engine) Generate(ctx context.Context, promptTokens []int, opts Options) (*Stream, error) {
	return e.generate(ctx, promptTokens, e.resolve(opts))
}

func (e *Engine) generate(ctx context.Context, promptTokens []int, req request) (*Stream, error) {
	if len(promptTokens) == 0 {
		return nil, fmt.Errorf("empty prompt")
	}
	if len(promptTokens) >= e.maxSeqLen {
		return nil, fmt.Errorf("%w: %d tokens, limit %d", ErrPromptTooLong, len(promptTokens), e.maxSeqLen)
	}

	sampler, err := logits.NewSampler(logits.SamplerConfig{
		Seed:        req.seed,
		Temperature: req.temperature,
		TopP:        req.topP,
	})
	if err != nil {
		return nil, err
	}

	totalLen := min(req.maxGenLen+len(promptTokens), e.maxSeqLen)
	buf, err := NewSequenceBuffer([][]int{promptTokens}, totalLen, e.tok.PadID(), req.logProbs)
	if err != nil {
		return nil, err
	}

	s := newStream(ctx, e.model, sampler, e.tok, buf, req.logProbs)
	if buf.minPromptLen == totalLen {
		if err := s.prefill(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// TextCompletion encodes the prompt with a leading begin-of-text marker,
// drives the decode stream to exhaustion, and returns the concatenated
// generation. Token fragments and log-probabilities are included when
// requested.
func (e *Engine) TextCompletion(ctx context.Context, prompt string, opts Options) (*CompletionPrediction, error) {
	req := e.resolve(opts)
	log := e.log.With("request_id", uuid.NewString())

	promptTokens, err := e.tok.Encode(prompt, true, false)
	if err != nil {
		return nil, fmt.Errorf("encode prompt: %w", err)
	}
	log.Debug("text completion",
		"prompt_tokens", len(promptTokens),
		"max_gen_len", req.maxGenLen,
		"temperature", req.temperature,
		"top_p", req.topP)

	stream, err := e.generate(ctx, promptTokens, req)
	if err != nil {
		return nil, err
	}

	var (
		tokens   []int
		decoded  []string
		logProbs [][]float64
	)
	for {
		res, err := stream.Next()
		if err != nil {
			return nil, err
		}
		if res == nil {
			break
		}
		tokens = append(tokens, res.Token)
		if req.logProbs {
			decoded = append(decoded, res.Text)
			logProbs = append(logProbs, res.LogProbs)
		}
	}

	generation := ""
	if len(tokens) > 0 {
		generation, err = e.tok.Decode(tokens)
		if err != nil {
			return nil, fmt.Errorf("decode generation: %w", err)
		}
	}
	log.Debug("text completion done", "generated_tokens", len(tokens))

	pred := &CompletionPrediction{Generation: generation}
	if req.logProbs {
		pred.DecodedTokens = decoded
		pred.LogProbs = logProbs
	}
	return pred, nil
}

// ChatCompletion flattens the dialog through the formatter, drives the
// decode stream to exhaustion, classifies the stop reason from the decoded
// fragments, and reconstructs the assistant message.
func (e *Engine) ChatCompletion(ctx context.Context, msgs []dialog.Message, opts Options) (*ChatPrediction, error) {
	if e.formatter == nil {
		return nil, fmt.Errorf("chat completion requires a dialog formatter")
	}
	req := e.resolve(opts)
	log := e.log.With("request_id", uuid.NewString())

	promptTokens, err := e.formatter.EncodeDialogPrompt(msgs, req.toolFormat)
	if err != nil {
		return nil, fmt.Errorf("encode dialog: %w", err)
	}
	log.Debug("chat completion",
		"messages", len(msgs),
		"prompt_tokens", len(promptTokens),
		"max_gen_len", req.maxGenLen,
		"tool_prompt_format", string(req.toolFormat))

	stream, err := e.generate(ctx, promptTokens, req)
	if err != nil {
		return nil, err
	}

	var (
		tokens     []int
		decoded    []string
		logProbs   [][]float64
		stopReason dialog.StopReason
	)
	for {
		res, err := stream.Next()
		if err != nil {
			return nil, err
		}
		if res == nil {
			break
		}
		tokens = append(tokens, res.Token)
		if res.Text == dialog.EndOfTurnMarker {
			stopReason = dialog.StopEndOfTurn
		} else if res.Text == dialog.EndOfMessageMarker {
			stopReason = dialog.StopEndOfMessage
		}
		if req.logProbs {
			decoded = append(decoded, res.Text)
			logProbs = append(logProbs, res.LogProbs)
		}
	}
	if stopReason == "" {
		stopReason = dialog.StopOutOfTokens
	}
	log.Debug("chat completion done", "generated_tokens", len(tokens), "stop_reason", string(stopReason))

	message, err := e.formatter.DecodeAssistantMessage(tokens, stopReason)
	if err != nil {
		return nil, fmt.Errorf("decode assistant message: %w", err)
	}

	pred := &ChatPrediction{Generation: message}
	if req.logProbs {
		pred.DecodedTokens = decoded
		pred.LogProbs = logProbs
	}
	return pred, nil
}
