package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kweston/braid/internal/dialog"
	"github.com/kweston/braid/internal/generate"
	"github.com/kweston/braid/internal/logger"
	"github.com/kweston/braid/internal/model"
	"github.com/kweston/braid/internal/tokenizer"
	"github.com/kweston/braid/internal/toy"
)

func setupLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if debug {
		level = logger.ParseLevel("debug")
	}
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.Default()
	default:
		return logger.Pretty(os.Stderr, level)
	}
}

// buildEngine assembles an engine over the seeded toy weights. With
// --tokenizer-json the HuggingFace vocabulary is used (llama3 control
// ids); otherwise the built-in byte tokenizer keeps everything
// self-contained. The cleanup func releases the native tokenizer, if any.
func buildEngine(log logger.Logger, samplingSeed int64) (*generate.Engine, func(), error) {
	vocab := toy.VocabSize
	if modelName != "" {
		spec, err := model.Resolve(modelName)
		if err != nil {
			return nil, nil, err
		}
		vocab = spec.Args.VocabSize
		log.Info("model resolved", "name", spec.Name, "vocab", vocab, "layers", spec.Args.Layers)
	}

	var (
		tok      tokenizer.Tokenizer
		specials tokenizer.SpecialTokens
		codec    dialog.Codec
		cleanup  = func() {}
	)
	if tokenizerJSON != "" {
		hf, err := tokenizer.NewHF(tokenizerJSON, tokenizer.Llama3Specials())
		if err != nil {
			return nil, nil, err
		}
		tok, codec, specials = hf, hf, hf.Specials()
		cleanup = func() { _ = hf.Close() }
		if modelName == "" {
			vocab = 128256
		}
	} else {
		bt := toy.NewTokenizer()
		tok, codec, specials = bt, bt, bt.Specials()
		if vocab < toy.VocabSize {
			vocab = toy.VocabSize
		}
	}

	if samplingSeed < 0 {
		samplingSeed = time.Now().UnixNano()
	}

	eng, err := generate.New(generate.Config{
		Model:     toy.NewModel(vocab, int(hiddenDim), weightSeed),
		Tokenizer: tok,
		Formatter: dialog.NewChatFormat(codec, specials),
		MaxSeqLen: int(maxSeqLen),
		Seed:      samplingSeed,
		Logger:    log,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("build engine: %w", err)
	}
	return eng, cleanup, nil
}
