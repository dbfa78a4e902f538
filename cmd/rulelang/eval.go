// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rulelang/rulelang/internal/clock"
	"github.com/rulelang/rulelang/internal/config"
	"github.com/rulelang/rulelang/pkg/ruleengine"
)

// evalConfig holds configuration for the eval command.
type evalConfig struct {
	ruleFile   string
	dataFile   string
	withTrace  bool
	format     string
	schemaFile string
}

// newEvalCmd creates the eval subcommand with all flags configured.
func newEvalCmd() *cobra.Command {
	cfg := &evalConfig{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a rule set against a data document",
		Long:  `Parses a rule-text file in the controlled-English dialect and evaluates it against a JSON data document.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.ruleFile, "rule", "", "path to rule-text file (required)")
	cmd.Flags().StringVar(&cfg.dataFile, "data", "", "path to JSON data document (required)")
	cmd.Flags().BoolVar(&cfg.withTrace, "trace", false, "include the structured execution trace")
	cmd.Flags().StringVar(&cfg.format, "format", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&cfg.schemaFile, "schema", "", "optional JSON Schema to validate the data document against before evaluating")

	_ = cmd.MarkFlagRequired("rule")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func runEval(cmd *cobra.Command, cfg *evalConfig) error {
	ruleText, err := os.ReadFile(cfg.ruleFile)
	if err != nil {
		return fmt.Errorf("failed to read rule file: %w", err)
	}

	dataJSON, err := os.ReadFile(cfg.dataFile)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	if cfg.schemaFile != "" {
		schemaJSON, readErr := os.ReadFile(cfg.schemaFile)
		if readErr != nil {
			return fmt.Errorf("failed to read schema file: %w", readErr)
		}
		if validateErr := ruleengine.ValidateDataDocument(schemaJSON, dataJSON); validateErr != nil {
			return fmt.Errorf("data document failed schema validation: %w", validateErr)
		}
	}

	engineCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	engine := &ruleengine.Engine{
		Options: engineCfg.ToOptions(),
		Clock:   clock.Real{},
	}

	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // correlation ID, not a security token
	requestID := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()

	resp, err := engine.Evaluate(context.Background(), ruleengine.EvalRequest{
		RuleText:  string(ruleText),
		Data:      dataJSON,
		Trace:     cfg.withTrace,
		RequestID: requestID,
	})
	if err != nil {
		return fmt.Errorf("evaluation request failed: %w", err)
	}

	var out []byte
	switch cfg.format {
	case "yaml":
		out, err = yaml.Marshal(resp)
	default:
		out, err = json.MarshalIndent(resp, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}

	cmd.Println(string(out))
	if resp.Error != "" {
		return fmt.Errorf("rule evaluation reported: %s", resp.Error)
	}
	return nil
}
