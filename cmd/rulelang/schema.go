// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rulelang/rulelang/internal/rulelang/grammar"
	"github.com/rulelang/rulelang/pkg/ruleengine"
)

// newSchemaCmd creates the schema subcommand, generalizing the teacher's
// standalone gen-schema command into a CLI subcommand with a kind argument.
func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [request|trace|grammar]",
		Short:     "Print the JSON Schema for an evaluation request or trace, or the rule grammar",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"request", "trace", "grammar"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "grammar" {
				cmd.Print(grammar.Source())
				return nil
			}
			schema, err := ruleengine.GenerateSchema(ruleengine.SchemaKind(args[0]))
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			cmd.Print(string(schema))
			return nil
		},
	}
}
