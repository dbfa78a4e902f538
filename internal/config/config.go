// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

// Package config loads EngineConfig by layering defaults, an optional
// YAML file, and CLI flags, in that order of increasing precedence.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/rulelang/rulelang/internal/rulelang/ast"
)

// EngineConfig is the evaluator's tunable posture, the config-layer
// counterpart of ast.Options plus the ambient log/metrics settings.
type EngineConfig struct {
	MaxNestingDepth             int    `koanf:"max_nesting_depth"`
	AllowFreeTextFallback       bool   `koanf:"allow_free_text_fallback"`
	FuzzyRuleNameMatching       bool   `koanf:"fuzzy_rule_name_matching"`
	ListContainsCaseInsensitive bool   `koanf:"list_contains_case_insensitive"`
	LogFormat                   string `koanf:"log_format"`
	MetricsEnabled              bool   `koanf:"metrics_enabled"`
}

// Defaults returns the baseline EngineConfig before any file or flag
// layer is applied, matching ast.DefaultOptions()'s posture.
func Defaults() EngineConfig {
	return EngineConfig{
		MaxNestingDepth:             ast.DefaultMaxNestingDepth,
		AllowFreeTextFallback:       false,
		FuzzyRuleNameMatching:       true,
		ListContainsCaseInsensitive: true,
		LogFormat:                   "json",
		MetricsEnabled:              true,
	}
}

// Load layers Defaults() under an optional YAML config file (path may be
// empty to skip) under CLI flags bound via flags (may be nil to skip),
// matching the teacher's file-then-posflag precedence order. Only keys
// actually present in the file or flags overwrite the defaults already
// populated on the returned EngineConfig.
func Load(path string, flags *pflag.FlagSet) (EngineConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if loadErr := k.Load(file.Provider(path), yaml.Parser()); loadErr != nil {
				return EngineConfig{}, oops.In("config").Code("IO_ERROR").With("path", path).Hint("failed to load config file").Wrap(loadErr)
			}
		} else if !os.IsNotExist(err) {
			return EngineConfig{}, oops.In("config").Code("IO_ERROR").With("path", path).Hint("failed to stat config file").Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return EngineConfig{}, oops.In("config").Code("IO_ERROR").Hint("failed to load flag overrides").Wrap(err)
		}
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return EngineConfig{}, oops.In("config").Code("IO_ERROR").Hint("failed to unmarshal config").Wrap(err)
	}
	return cfg, nil
}

// ToOptions converts an EngineConfig into the ast.Options the parser and
// evaluator consume.
func (c EngineConfig) ToOptions() ast.Options {
	return ast.Options{
		AllowFreeTextFallback:       c.AllowFreeTextFallback,
		FuzzyRuleNameMatching:       c.FuzzyRuleNameMatching,
		ListContainsCaseInsensitive: c.ListContainsCaseInsensitive,
		MaxNestingDepth:             c.MaxNestingDepth,
	}
}
