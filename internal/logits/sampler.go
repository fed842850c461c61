package logits

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ErrInvalidTopP is returned when top-p lies outside (0, 1].
var ErrInvalidTopP = errors.New("top-p must be in (0, 1]")

// SamplerConfig configures a Sampler.
type SamplerConfig struct {
	Seed        int64
	Temperature float64
	TopP        float64
}

// Sampler turns a logits vector into a token id. Temperature <= 0 selects
// the greedy path: the argmax of the raw logits, with no softmax and no
// randomness. Temperature > 0 applies softmax(logits/temperature) and then
// nucleus (top-p) truncation.
type Sampler struct {
	rng         *rand.Rand
	temperature float64
	topP        float64

	// scratch reused across steps
	probs []float64
}

// NewSampler validates the configuration and returns a sampler. TopP is
// checked here so a bad parameter fails before any forward pass runs.
func NewSampler(cfg SamplerConfig) (*Sampler, error) {
	if cfg.TopP <= 0 || cfg.TopP > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidTopP, cfg.TopP)
	}
	return &Sampler{
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
	}, nil
}

// Greedy reports whether the sampler always takes the deterministic path.
func (s *Sampler) Greedy() bool { return s.temperature <= 0 }

// Sample selects the next token id from the logits of the final window
// position.
func (s *Sampler) Sample(logits []float32) int {
	if s.temperature <= 0 {
		return Argmax(logits)
	}
	probs := s.softmax(logits)
	return TopP(s.rng, probs, s.topP)
}

// softmax fills the scratch probability vector with
// softmax(logits/temperature) in float64.
func (s *Sampler) softmax(logits []float32) []float64 {
	if cap(s.probs) < len(logits) {
		s.probs = make([]float64, len(logits))
	}
	probs := s.probs[:len(logits)]

	invTemp := 1.0 / s.temperature
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		v := float64(l) * invTemp
		if v > maxLogit {
			maxLogit = v
		}
	}
	var sum float64
	for i, l := range logits {
		e := math.Exp(float64(l)*invTemp - maxLogit)
		probs[i] = e
		sum += e
	}
	inv := 1.0 / sum
	for i := range probs {
		probs[i] *= inv
	}
	return probs
}

// TopP draws one index from the distribution restricted to its nucleus: the
// entries are visited in descending probability order and an entry is kept
// while the cumulative mass of the entries before it does not exceed p, so
// the entry that crosses the threshold is itself retained. The kept prefix
// is renormalized and sampled multinomially.
func TopP(rng *rand.Rand, probs []float64, p float64) int {
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probs[order[a]] > probs[order[b]]
	})

	cut := len(order)
	var cum float64
	for i, idx := range order {
		if cum > p {
			cut = i
			break
		}
		cum += probs[idx]
	}
	kept := order[:cut]

	var total float64
	for _, idx := range kept {
		total += probs[idx]
	}

	r := rng.Float64() * total
	var c float64
	for _, idx := range kept {
		c += probs[idx]
		if r < c {
			return idx
		}
	}
	return kept[len(kept)-1]
}

// Argmax returns the index of the largest value; ties resolve to the first
// occurrence. It panics on an empty slice.
func Argmax(x []float32) int {
	if len(x) == 0 {
		panic("logits: argmax of empty slice")
	}
	bestI := 0
	bestV := x[0]
	for i := 1; i < len(x); i++ {
		if x[i] > bestV {
			bestV = x[i]
			bestI = i
		}
	}
	return bestI
}

// LogProb returns the natural-log probability the logits assign to token id
// target, computed as logits[target] - logSumExp(logits).
func LogProb(logits []float32, target int) float64 {
	if target < 0 || target >= len(logits) {
		return 0
	}
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	var sum float64
	for _, l := range logits {
		sum += math.Exp(float64(l - maxLogit))
	}
	return float64(logits[target]-maxLogit) - math.Log(sum)
}
