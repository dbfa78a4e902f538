// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

// Package ruleengine exposes the rule-language parser and evaluator as a
// single (rule_text, data) -> (result, trace) operation.
package ruleengine

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rulelang/rulelang/internal/clock"
	"github.com/rulelang/rulelang/internal/rulelang/ast"
	"github.com/rulelang/rulelang/internal/rulelang/eval"
	"github.com/rulelang/rulelang/internal/rulelang/grammar"
	"github.com/rulelang/rulelang/internal/rulelang/resolve"
	ruletrace "github.com/rulelang/rulelang/internal/rulelang/trace"
)

var tracer = otel.Tracer("rulelang/ruleengine")

// EvalRequest is the inbound shape of an evaluation call: a rule set in
// the controlled-English dialect plus a JSON data document to check it
// against.
type EvalRequest struct {
	RuleText  string          `json:"rule_text"`
	Data      json.RawMessage `json:"data"`
	Trace     bool            `json:"trace"`
	RequestID string          `json:"request_id,omitempty"`
}

// EvalResponse is the outbound shape: the boolean outcome of the rule
// set's global rule, optionally the full execution trace, and an error
// string when evaluation could not complete (e.g. a reference cycle).
type EvalResponse struct {
	Result    bool                    `json:"result"`
	Error     string                  `json:"error,omitempty"`
	Trace     *ruletrace.RuleSetTrace `json:"trace,omitempty"`
	Rules     map[string]bool         `json:"rule_outcomes,omitempty"`
	RequestID string                  `json:"request_id,omitempty"`
}

// Engine parses and evaluates rule text against data documents. The zero
// value is usable; Options and Clock default to ast.DefaultOptions() and
// a real wall clock respectively.
type Engine struct {
	Options ast.Options
	Clock   clock.Clock
}

// New constructs an Engine with the default posture described in
// SPEC_FULL.md: fuzzy rule matching and case-insensitive list-contains
// on, free-text-true fallback off, real wall clock.
func New() *Engine {
	return &Engine{
		Options: ast.DefaultOptions(),
		Clock:   clock.Real{},
	}
}

// Evaluate parses ruleText, evaluates it against the JSON object in
// req.Data, and returns the outcome of the global rule plus (when
// req.Trace is set) the full execution trace. Parse errors and
// evaluation errors (e.g. a rule-reference cycle) are reported in
// EvalResponse.Error rather than as a Go error, matching the abstract
// interface's error-carrying response shape; the returned error is
// reserved for request-shape problems the caller must fix before
// retrying (malformed data JSON).
func (e *Engine) Evaluate(ctx context.Context, req EvalRequest) (EvalResponse, error) {
	ctx, span := tracer.Start(ctx, "ruleengine.evaluate",
		trace.WithAttributes(
			attribute.Int("rulelang.rule_text_length", len(req.RuleText)),
			attribute.Bool("rulelang.trace_requested", req.Trace),
			attribute.String("rulelang.request_id", req.RequestID),
		),
	)
	defer span.End()

	start := time.Now()

	opts := e.Options
	if opts == (ast.Options{}) {
		opts = ast.DefaultOptions()
	}
	rs, err := grammar.Parse(req.RuleText, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		eval.EvaluationErrors.WithLabelValues("parse").Inc()
		return EvalResponse{Error: err.Error(), RequestID: req.RequestID}, nil
	}

	var data map[string]any
	if len(req.Data) > 0 {
		if unmarshalErr := json.Unmarshal(req.Data, &data); unmarshalErr != nil {
			span.RecordError(unmarshalErr)
			span.SetStatus(codes.Error, unmarshalErr.Error())
			return EvalResponse{}, unmarshalErr
		}
	}
	if data == nil {
		data = map[string]any{}
	}

	clk := e.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	results, execTrace, evalErr := eval.New(rs, data, clk).Evaluate()
	outcome := "ok"
	if evalErr != nil {
		outcome = "error"
		span.RecordError(evalErr)
		span.SetStatus(codes.Error, evalErr.Error())
		eval.EvaluationErrors.WithLabelValues("evaluate").Inc()
	}
	eval.EvaluationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	resp := EvalResponse{Rules: results, RequestID: req.RequestID}
	if req.Trace {
		resp.Trace = &execTrace
	}
	if evalErr != nil {
		resp.Error = evalErr.Error()
		return resp, nil
	}

	globalIdx, globalErr := resolve.GlobalRule(rs)
	if globalErr != nil {
		resp.Error = globalErr.Error()
		return resp, nil
	}
	resp.Result = results[rs.Rules[globalIdx].Outcome.Value]
	return resp, nil
}
