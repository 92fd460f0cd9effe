// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads silo's configuration from silo.yaml and SILO_
// environment variables, env taking precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	// StorePath is the SQLite database file.
	StorePath string `mapstructure:"store_path"`

	// ArchiveDir is the directory for the local snapshot content store.
	ArchiveDir string `mapstructure:"archive_dir"`

	AI       AIConfig       `mapstructure:"ai"`
	Timeouts TimeoutConfig  `mapstructure:"timeouts"`
	Search   SearchConfig   `mapstructure:"search"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// AIConfig holds language-model provider settings. Hosts are
// OpenAI-compatible API endpoints.
type AIConfig struct {
	EmbeddingHost  string `mapstructure:"embedding_host"`
	ChatHost       string `mapstructure:"chat_host"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	ChatModel      string `mapstructure:"chat_model"`
	Token          string `mapstructure:"token"`
}

// TimeoutConfig bounds the pipeline's external calls.
type TimeoutConfig struct {
	Fetch   time.Duration `mapstructure:"fetch"`
	AI      time.Duration `mapstructure:"ai"`
	Archive time.Duration `mapstructure:"archive"`
}

// SearchConfig tunes retrieval.
type SearchConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// PipelineConfig tunes ingestion concurrency.
type PipelineConfig struct {
	Workers int `mapstructure:"workers"`
}

// Defaults returns the configuration used when no file or env overrides
// are present: a local Ollama endpoint and on-disk stores under ./data.
func Defaults() *Config {
	return &Config{
		StorePath:  "data/silo.db",
		ArchiveDir: "data/snapshots",
		AI: AIConfig{
			EmbeddingHost:  "http://localhost:11434/v1",
			ChatHost:       "http://localhost:11434/v1",
			EmbeddingModel: "embeddinggemma",
			ChatModel:      "qwen2.5:3b",
			Token:          "none",
		},
		Timeouts: TimeoutConfig{
			Fetch:   12 * time.Second,
			AI:      30 * time.Second,
			Archive: 20 * time.Second,
		},
		Search:   SearchConfig{PageSize: 5},
		Pipeline: PipelineConfig{Workers: 4},
	}
}

// Load reads configuration from the given file (or ./silo.yaml when empty),
// layered over Defaults and under SILO_ environment variables. A missing
// config file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()

	cfg := Defaults()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("silo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SILO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return errors.New("store_path is required")
	}
	if c.ArchiveDir == "" {
		return errors.New("archive_dir is required")
	}
	if c.Search.PageSize <= 0 {
		return errors.New("search.page_size must be positive")
	}
	if c.Pipeline.Workers <= 0 {
		return errors.New("pipeline.workers must be positive")
	}
	for name, d := range map[string]time.Duration{
		"timeouts.fetch":   c.Timeouts.Fetch,
		"timeouts.ai":      c.Timeouts.AI,
		"timeouts.archive": c.Timeouts.Archive,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
