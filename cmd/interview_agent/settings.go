package main

import (
	"fmt"
	"time"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/llm"
)

// loadSettings reads the optional config file and fills gaps from the environment.
func loadSettings(path string) (config.Config, error) {
	env := config.FromEnv()

	file := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		file = loaded
	}

	merged := file.MergeWithDefaults(env)
	if err := merged.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return merged, nil
}

// llmConfig applies per-tier model and temperature overrides to the Gemini defaults.
func llmConfig(cfg config.Config) *llm.Config {
	result := llm.DefaultConfig().WithOverrides(map[llm.ModelTier]string{
		llm.TierLite:     cfg.Models.Lite,
		llm.TierStandard: cfg.Models.Standard,
		llm.TierAdvanced: cfg.Models.Advanced,
	})
	if cfg.Temperature > 0 {
		result.Temperature = cfg.Temperature
	}
	return result
}

func lockTTL(cfg config.Config) time.Duration {
	return time.Duration(cfg.LockTTLSeconds) * time.Second
}
