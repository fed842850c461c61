package model

import (
	"fmt"
	"sort"
	"strings"
)

// Llama 3 family vocabulary width.
const llama3VocabSize = 128256

// Spec is a catalog entry: a named model family member with its canonical
// hyperparameters and upstream repository.
type Spec struct {
	Name            string
	Description     string
	HuggingFaceRepo string
	Instruct        bool
	Args            Args
}

func f64(v float64) *float64 { return &v }

var catalog = []Spec{
	{
		Name:            "llama3-8b",
		Description:     "Llama 3 8B base",
		HuggingFaceRepo: "meta-llama/Meta-Llama-3-8B",
		Args: Args{
			Dim: 4096, Layers: 32, Heads: 32, KVHeads: 8,
			VocabSize: llama3VocabSize, MultipleOf: 1024,
			FFNDimMultiplier: f64(1.3), NormEps: 1e-5, RopeTheta: 500000.0,
		},
	},
	{
		Name:            "llama3-8b-instruct",
		Description:     "Llama 3 8B instruct-tuned",
		HuggingFaceRepo: "meta-llama/Meta-Llama-3-8B-Instruct",
		Instruct:        true,
		Args: Args{
			Dim: 4096, Layers: 32, Heads: 32, KVHeads: 8,
			VocabSize: llama3VocabSize, MultipleOf: 1024,
			FFNDimMultiplier: f64(1.3), NormEps: 1e-5, RopeTheta: 500000.0,
		},
	},
	{
		Name:            "llama3-70b",
		Description:     "Llama 3 70B base",
		HuggingFaceRepo: "meta-llama/Meta-Llama-3-70B",
		Args: Args{
			Dim: 8192, Layers: 80, Heads: 64, KVHeads: 8,
			VocabSize: llama3VocabSize, MultipleOf: 4096,
			FFNDimMultiplier: f64(1.3), NormEps: 1e-5, RopeTheta: 500000.0,
		},
	},
	{
		Name:            "llama3-70b-instruct",
		Description:     "Llama 3 70B instruct-tuned",
		HuggingFaceRepo: "meta-llama/Meta-Llama-3-70B-Instruct",
		Instruct:        true,
		Args: Args{
			Dim: 8192, Layers: 80, Heads: 64, KVHeads: 8,
			VocabSize: llama3VocabSize, MultipleOf: 4096,
			FFNDimMultiplier: f64(1.3), NormEps: 1e-5, RopeTheta: 500000.0,
		},
	},
	{
		Name:            "llama3.1-8b",
		Description:     "Llama 3.1 8B base",
		HuggingFaceRepo: "meta-llama/Meta-Llama-3.1-8B",
		Args: Args{
			Dim: 4096, Layers: 32, Heads: 32, KVHeads: 8,
			VocabSize: llama3VocabSize, MultipleOf: 1024,
			FFNDimMultiplier: f64(1.3), NormEps: 1e-5, RopeTheta: 500000.0,
			UseScaledRope: true,
		},
	},
	{
		Name:            "llama3.1-8b-instruct",
		Description:     "Llama 3.1 8B instruct-tuned",
		HuggingFaceRepo: "meta-llama/Meta-Llama-3.1-8B-Instruct",
		Instruct:        true,
		Args: Args{
			Dim: 4096, Layers: 32, Heads: 32, KVHeads: 8,
			VocabSize: llama3VocabSize, MultipleOf: 1024,
			FFNDimMultiplier: f64(1.3), NormEps: 1e-5, RopeTheta: 500000.0,
			UseScaledRope: true,
		},
	},
	{
		Name:            "llama3.1-70b",
		Description:     "Llama 3.1 70B base",
		HuggingFaceRepo: "meta-llama/Meta-Llama-3.1-70B",
		Args: Args{
			Dim: 8192, Layers: 80, Heads: 64, KVHeads: 8,
			VocabSize: llama3VocabSize, MultipleOf: 4096,
			FFNDimMultiplier: f64(1.3), NormEps: 1e-5, RopeTheta: 500000.0,
			UseScaledRope: true,
		},
	},
	{
		Name:            "llama3.1-405b",
		Description:     "Llama 3.1 405B base",
		HuggingFaceRepo: "meta-llama/Meta-Llama-3.1-405B",
		Args: Args{
			Dim: 16384, Layers: 126, Heads: 128, KVHeads: 8,
			VocabSize: llama3VocabSize, MultipleOf: 4096,
			FFNDimMultiplier: f64(1.2), NormEps: 1e-5, RopeTheta: 500000.0,
			UseScaledRope: true,
		},
	},
}

// Resolve looks up a catalog entry by name, case-insensitively.
func Resolve(name string) (Spec, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, spec := range catalog {
		if spec.Name == needle {
			return spec, nil
		}
	}
	return Spec{}, fmt.Errorf("unknown model %q", name)
}

// List returns the catalog entries sorted by name.
func List() []Spec {
	out := append([]Spec(nil), catalog...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
