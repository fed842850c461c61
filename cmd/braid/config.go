package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the braid configuration file (~/.config/braid/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	Model         string `yaml:"model"`
	TokenizerJSON string `yaml:"tokenizer_json"`

	Temperature *float64 `yaml:"temperature"`
	TopP        *float64 `yaml:"top_p"`
	MaxGenLen   *int64   `yaml:"max_gen_len"`
	MaxSeqLen   *int64   `yaml:"max_seq_len"`
	Seed        *int64   `yaml:"seed"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "braid", "config.yaml")
}

// loadConfig reads the config file. A missing or unreadable file yields a
// zero Config.
func loadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyConfig overlays config file values onto flag variables the user did
// not set explicitly.
func applyConfig(c *cli.Command, cfg Config, temp, topP *float64, maxGenLen, seed *int64) {
	if cfg.Model != "" && !c.IsSet("model") {
		modelName = cfg.Model
	}
	if cfg.TokenizerJSON != "" && !c.IsSet("tokenizer-json") {
		tokenizerJSON = cfg.TokenizerJSON
	}
	if cfg.MaxSeqLen != nil && !c.IsSet("max-seq-len") {
		maxSeqLen = *cfg.MaxSeqLen
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if temp != nil && cfg.Temperature != nil && !c.IsSet("temp") && !c.IsSet("temperature") && !c.IsSet("t") {
		*temp = *cfg.Temperature
	}
	if topP != nil && cfg.TopP != nil && !c.IsSet("top-p") && !c.IsSet("top_p") && !c.IsSet("topp") {
		*topP = *cfg.TopP
	}
	if maxGenLen != nil && cfg.MaxGenLen != nil && !c.IsSet("max-gen-len") && !c.IsSet("n") {
		*maxGenLen = *cfg.MaxGenLen
	}
	if seed != nil && cfg.Seed != nil && !c.IsSet("seed") {
		*seed = *cfg.Seed
	}
}
