// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulelang/rulelang/pkg/errutil"
)

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadYAMLFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rulelang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allow_free_text_fallback: true\nlog_format: text\n"), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.True(t, cfg.AllowFreeTextFallback)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, Defaults().MaxNestingDepth, cfg.MaxNestingDepth)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rulelang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_nesting_depth: 8\n"), 0o600))

	flags := pflag.NewFlagSet("rulelang", pflag.ContinueOnError)
	flags.Int("max_nesting_depth", 0, "")
	require.NoError(t, flags.Set("max_nesting_depth", "4"))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxNestingDepth)
}

func TestToOptionsCarriesFields(t *testing.T) {
	cfg := EngineConfig{
		MaxNestingDepth:             16,
		AllowFreeTextFallback:       true,
		FuzzyRuleNameMatching:       false,
		ListContainsCaseInsensitive: true,
	}
	opts := cfg.ToOptions()
	assert.Equal(t, 16, opts.MaxNestingDepth)
	assert.True(t, opts.AllowFreeTextFallback)
	assert.False(t, opts.FuzzyRuleNameMatching)
	assert.True(t, opts.ListContainsCaseInsensitive)
}

func TestLoadMalformedYAMLIsIOError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rulelang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: valid: yaml: [\n"), 0o600))

	_, err := Load(path, nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "IO_ERROR")
}
