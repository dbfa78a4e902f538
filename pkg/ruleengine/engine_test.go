// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package ruleengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rulelang/rulelang/pkg/errutil"
)

func TestEvaluateSeniorDiscount(t *testing.T) {
	e := New()
	resp, err := e.Evaluate(context.Background(), EvalRequest{
		RuleText: `A **Person** gets discount if __age__ of **Person** is greater than or equal to 65.`,
		Data:     []byte(`{"Person":{"age":70}}`),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Error)
	assert.True(t, resp.Result)
	assert.Nil(t, resp.Trace)
}

func TestEvaluateWithTraceRequested(t *testing.T) {
	e := New()
	resp, err := e.Evaluate(context.Background(), EvalRequest{
		RuleText: `A **Person** gets discount if __age__ of **Person** is greater than or equal to 65.`,
		Data:     []byte(`{"Person":{"age":30}}`),
		Trace:    true,
	})
	require.NoError(t, err)
	assert.False(t, resp.Result)
	require.NotNil(t, resp.Trace)
	require.Len(t, resp.Trace.Execution, 1)
	assert.Equal(t, "discount", resp.Trace.Execution[0].Outcome.Value)
}

func TestEvaluateParseErrorSurfacesInResponse(t *testing.T) {
	e := New()
	resp, err := e.Evaluate(context.Background(), EvalRequest{
		RuleText: `this is not a rule`,
		Data:     []byte(`{}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Error)
	assert.False(t, resp.Result)
}

func TestEvaluateCycleSurfacesInResponseWithPartialTrace(t *testing.T) {
	e := New()
	resp, err := e.Evaluate(context.Background(), EvalRequest{
		RuleText: `A **x** is eligible if **x** is rule1.
rule1. A **x** qualifies for rule1 if **x** is rule2.
rule2. A **x** qualifies for rule2 if **x** is rule1.`,
		Data:  []byte(`{"x":{}}`),
		Trace: true,
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Error, "Infinite loop detected")
	require.NotNil(t, resp.Trace)
	assert.NotEmpty(t, resp.Trace.Execution)
}

func TestEvaluateMalformedDataJSONIsGoError(t *testing.T) {
	e := New()
	_, err := e.Evaluate(context.Background(), EvalRequest{
		RuleText: `A **x** gets discount if __age__ of **x** is greater than 1.`,
		Data:     []byte(`not json`),
	})
	require.Error(t, err)
}

func TestEvaluateWithCancelledContextLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := e.Evaluate(ctx, EvalRequest{
		RuleText: `A **x** gets discount if __age__ of **x** is greater than 1.`,
		Data:     []byte(`{"x":{"age":5}}`),
	})
	require.NoError(t, err)
	assert.True(t, resp.Result)
}

func TestEvaluateRequestIDRoundTrips(t *testing.T) {
	e := New()
	resp, err := e.Evaluate(context.Background(), EvalRequest{
		RuleText:  `A **x** gets discount if __age__ of **x** is greater than 1.`,
		Data:      []byte(`{"x":{"age":5}}`),
		RequestID: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
	})
	require.NoError(t, err)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", resp.RequestID)
}

func TestGenerateSchemaRequestAndTrace(t *testing.T) {
	reqSchema, err := GenerateSchema(SchemaKindRequest)
	require.NoError(t, err)
	assert.Contains(t, string(reqSchema), "rule_text")

	traceSchema, err := GenerateSchema(SchemaKindTrace)
	require.NoError(t, err)
	assert.Contains(t, string(traceSchema), "execution")
}

func TestGenerateSchemaUnknownKind(t *testing.T) {
	_, err := GenerateSchema("bogus")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SCHEMA_ERROR")
}

func TestValidateDataDocumentRejectsNonObject(t *testing.T) {
	schema := []byte(`{"type":"object","required":["age"]}`)
	err := ValidateDataDocument(schema, []byte(`[1,2,3]`))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SCHEMA_ERROR")
}

func TestValidateDataDocumentAcceptsMatchingShape(t *testing.T) {
	schema := []byte(`{"type":"object","required":["age"]}`)
	err := ValidateDataDocument(schema, []byte(`{"age":40}`))
	assert.NoError(t, err)
}
