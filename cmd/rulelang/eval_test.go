// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestEvalCommandPrintsResult(t *testing.T) {
	rulePath := writeTempFile(t, "rule.txt", `A **Person** gets discount if __age__ of **Person** is greater than or equal to 65.`)
	dataPath := writeTempFile(t, "data.json", `{"Person":{"age":70}}`)

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"eval", "--rule", rulePath, "--data", dataPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"result": true`) {
		t.Errorf("expected result:true in output, got: %s", buf.String())
	}
}

func TestEvalCommandYAMLFormat(t *testing.T) {
	rulePath := writeTempFile(t, "rule.txt", `A **Person** gets discount if __age__ of **Person** is greater than or equal to 65.`)
	dataPath := writeTempFile(t, "data.json", `{"Person":{"age":30}}`)

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"eval", "--rule", rulePath, "--data", dataPath, "--format", "yaml"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "result: false") {
		t.Errorf("expected result: false in YAML output, got: %s", buf.String())
	}
}

func TestEvalCommandMissingRuleFlag(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"eval", "--data", "whatever.json"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when --rule is omitted")
	}
}

func TestEvalCommandSchemaValidationFailure(t *testing.T) {
	rulePath := writeTempFile(t, "rule.txt", `A **Person** gets discount if __age__ of **Person** is greater than 1.`)
	dataPath := writeTempFile(t, "data.json", `[1,2,3]`)
	schemaPath := writeTempFile(t, "schema.json", `{"type":"object"}`)

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"eval", "--rule", rulePath, "--data", dataPath, "--schema", schemaPath})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected a schema validation error")
	}
}
