// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the rulelang CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rulelang",
		Short: "rulelang - a natural-language rule engine",
		Long: `rulelang parses controlled-English rule sets and evaluates them
against JSON data documents, producing an outcome and a structured trace.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
