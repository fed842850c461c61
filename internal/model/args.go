package model

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// Args are the transformer hyperparameters, matching the params.json file
// shipped alongside llama checkpoints. Fields absent from the file keep
// their zero value and are filled in by ApplyDefaults.
type Args struct {
	Dim              int      `json:"dim"`
	Layers           int      `json:"n_layers"`
	Heads            int      `json:"n_heads"`
	KVHeads          int      `json:"n_kv_heads"`
	VocabSize        int      `json:"vocab_size"`
	MultipleOf       int      `json:"multiple_of"`
	FFNDimMultiplier *float64 `json:"ffn_dim_multiplier,omitempty"`
	NormEps          float64  `json:"norm_eps"`
	RopeTheta        float64  `json:"rope_theta"`
	UseScaledRope    bool     `json:"use_scaled_rope"`

	// Runtime limits, not part of params.json.
	MaxSeqLen    int `json:"max_seq_len,omitempty"`
	MaxBatchSize int `json:"max_batch_size,omitempty"`
}

const paramsFile = "params.json"

// LoadArgs reads params.json from a checkpoint directory and overlays the
// runtime limits.
func LoadArgs(ckptDir string, maxSeqLen, maxBatchSize int) (Args, error) {
	path := filepath.Join(ckptDir, paramsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return Args{}, fmt.Errorf("read model params: %w", err)
	}
	var args Args
	if err := json.Unmarshal(data, &args); err != nil {
		return Args{}, fmt.Errorf("parse %s: %w", path, err)
	}
	args.MaxSeqLen = maxSeqLen
	args.MaxBatchSize = maxBatchSize
	args.ApplyDefaults()
	if err := args.Validate(); err != nil {
		return Args{}, fmt.Errorf("%s: %w", path, err)
	}
	return args, nil
}

// ApplyDefaults fills the optional fields the checkpoint format leaves out.
func (a *Args) ApplyDefaults() {
	if a.KVHeads == 0 {
		a.KVHeads = a.Heads
	}
	if a.MultipleOf == 0 {
		a.MultipleOf = 256
	}
	if a.NormEps == 0 {
		a.NormEps = 1e-5
	}
	if a.RopeTheta == 0 {
		a.RopeTheta = 500000.0
	}
	if a.MaxSeqLen == 0 {
		a.MaxSeqLen = 2048
	}
	if a.MaxBatchSize == 0 {
		a.MaxBatchSize = 1
	}
}

// Validate rejects hyperparameter combinations no checkpoint produces.
func (a Args) Validate() error {
	switch {
	case a.Dim <= 0:
		return fmt.Errorf("model dim must be positive, got %d", a.Dim)
	case a.Layers <= 0:
		return fmt.Errorf("layer count must be positive, got %d", a.Layers)
	case a.Heads <= 0:
		return fmt.Errorf("head count must be positive, got %d", a.Heads)
	case a.KVHeads <= 0 || a.KVHeads > a.Heads:
		return fmt.Errorf("kv head count %d out of range for %d heads", a.KVHeads, a.Heads)
	case a.Heads%a.KVHeads != 0:
		return fmt.Errorf("head count %d not divisible by kv head count %d", a.Heads, a.KVHeads)
	case a.Dim%a.Heads != 0:
		return fmt.Errorf("dim %d not divisible by head count %d", a.Dim, a.Heads)
	case a.VocabSize <= 0:
		return fmt.Errorf("vocab size must be positive, got %d", a.VocabSize)
	case a.MaxSeqLen <= 0:
		return fmt.Errorf("max sequence length must be positive, got %d", a.MaxSeqLen)
	case a.MaxBatchSize <= 0:
		return fmt.Errorf("max batch size must be positive, got %d", a.MaxBatchSize)
	}
	return nil
}

// HeadDim is the per-head embedding width.
func (a Args) HeadDim() int { return a.Dim / a.Heads }

// FFNHiddenDim reproduces the checkpoint feed-forward sizing: two thirds of
// 4*dim, scaled by the optional multiplier, rounded up to a multiple of
// MultipleOf.
func (a Args) FFNHiddenDim() int {
	hidden := 4 * a.Dim
	hidden = 2 * hidden / 3
	if a.FFNDimMultiplier != nil {
		hidden = int(*a.FFNDimMultiplier * float64(hidden))
	}
	return a.MultipleOf * ((hidden + a.MultipleOf - 1) / a.MultipleOf)
}
