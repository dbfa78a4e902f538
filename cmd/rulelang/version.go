// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package main

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/rulelang/rulelang/internal/rulelang/ast"
	"github.com/rulelang/rulelang/internal/rulelang/grammar"
)

// version is set at build time via -ldflags.
var version = "dev"

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print rulelang and grammar version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gv, err := semver.NewVersion(grammar.GrammarSemver)
			if err != nil {
				return fmt.Errorf("invalid grammar semver: %w", err)
			}
			cmd.Printf("rulelang %s (grammar v%d / semver %s)\n", version, ast.GrammarVersion, gv.String())
			return nil
		},
	}
}
