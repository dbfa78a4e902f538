// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

// Command rulelang evaluates natural-language rule sets against JSON data
// documents from the command line.
package main

import (
	"log/slog"
	"os"

	"github.com/rulelang/rulelang/internal/logging"
	"github.com/rulelang/rulelang/pkg/errutil"
)

func main() {
	logging.SetDefault("rulelang", version, "json")

	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		errutil.LogError(slog.Default(), "rulelang command failed", err)
		os.Exit(1)
	}
}
