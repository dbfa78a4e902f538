// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	for _, sub := range []string{"eval", "schema", "version"} {
		if !strings.Contains(output, sub) {
			t.Errorf("help output missing %q command", sub)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(buf.String(), "rulelang") {
		t.Errorf("version output missing program name: %s", buf.String())
	}
}

func TestSchemaCommandRejectsUnknownKind(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"schema", "bogus"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for an invalid schema kind")
	}
}

func TestSchemaCommandPrintsRequestSchema(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"schema", "request"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "rule_text") {
		t.Errorf("schema output missing rule_text field: %s", buf.String())
	}
}
