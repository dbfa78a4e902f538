// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package ruleengine

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/rulelang/rulelang/internal/rulelang/trace"
)

// SchemaKind names which generated schema a caller wants.
type SchemaKind string

const (
	SchemaKindRequest SchemaKind = "request"
	SchemaKindTrace   SchemaKind = "trace"
)

// GenerateSchema reflects the Go type behind kind into a JSON Schema
// document, generalizing the teacher's plugin-manifest schema generator
// to the two stable shapes named in spec.md §6: the evaluation request
// and the execution trace.
func GenerateSchema(kind SchemaKind) ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}

	var schema *jsonschema.Schema
	switch kind {
	case SchemaKindRequest:
		schema = r.Reflect(&EvalRequest{})
		schema.ID = jsonschema.ID("https://rulelang.dev/schemas/eval-request.schema.json")
		schema.Title = "Rulelang Evaluation Request"
		schema.Description = "Schema for a rule-text-plus-data evaluation request"
	case SchemaKindTrace:
		schema = r.Reflect(&trace.RuleSetTrace{})
		schema.ID = jsonschema.ID("https://rulelang.dev/schemas/trace.schema.json")
		schema.Title = "Rulelang Execution Trace"
		schema.Description = "Schema for the structured execution trace of a rule evaluation"
	default:
		return nil, oops.In("schema").Code("SCHEMA_ERROR").With("kind", string(kind)).Errorf("unknown schema kind")
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("schema").Code("SCHEMA_ERROR").Hint("failed to marshal schema").Wrap(err)
	}
	data = append(data, '\n')
	return data, nil
}

// dataSchemaState caches a compiled caller-supplied data-document schema,
// keyed by its raw bytes so repeated --schema flags with the same file
// don't recompile on every CLI invocation within a process.
type dataSchemaState struct {
	mu       sync.RWMutex
	compiled map[string]*jschema.Schema
}

var globalDataSchemas = &dataSchemaState{compiled: make(map[string]*jschema.Schema)}

// ValidateDataDocument validates a data document against a caller-supplied
// JSON Schema (spec §7(b)'s "data not an object"-class errors, generalized
// to arbitrary caller schemas), surfacing violations, like every other
// failure here, as an oops error coded SCHEMA_ERROR.
func ValidateDataDocument(schemaJSON, dataJSON []byte) error {
	sch, err := compiledDataSchema(schemaJSON)
	if err != nil {
		return err
	}

	var data any
	if err := json.Unmarshal(dataJSON, &data); err != nil {
		return oops.In("schema").Code("SCHEMA_ERROR").Hint("data document is not valid JSON").Wrap(err)
	}

	if err := sch.Validate(data); err != nil {
		return oops.In("schema").Code("SCHEMA_ERROR").Hint("data document failed schema validation").Wrap(err)
	}
	return nil
}

func compiledDataSchema(schemaJSON []byte) (*jschema.Schema, error) {
	key := string(schemaJSON)

	globalDataSchemas.mu.RLock()
	if sch, ok := globalDataSchemas.compiled[key]; ok {
		globalDataSchemas.mu.RUnlock()
		return sch, nil
	}
	globalDataSchemas.mu.RUnlock()

	var schemaData any
	if err := json.Unmarshal(schemaJSON, &schemaData); err != nil {
		return nil, oops.In("schema").Code("SCHEMA_ERROR").Hint("failed to parse schema JSON").Wrap(err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("data.schema.json", schemaData); err != nil {
		return nil, oops.In("schema").Code("SCHEMA_ERROR").Hint("failed to add schema resource").Wrap(err)
	}
	sch, err := c.Compile("data.schema.json")
	if err != nil {
		return nil, oops.In("schema").Code("SCHEMA_ERROR").Hint("failed to compile schema").Wrap(err)
	}

	globalDataSchemas.mu.Lock()
	globalDataSchemas.compiled[key] = sch
	globalDataSchemas.mu.Unlock()

	return sch, nil
}
