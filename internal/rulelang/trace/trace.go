// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

// Package trace defines the serializable execution log (C10) the
// evaluator emits. Field names are part of the stable external schema;
// downstream tools consume this JSON directly.
package trace

import (
	"github.com/rulelang/rulelang/internal/rulelang/ast"
	"github.com/rulelang/rulelang/pkg/value"
)

// PositionedString mirrors ast.Positioned[string] with JSON tags matching
// the external trace schema exactly.
type PositionedString struct {
	Value string              `json:"value"`
	Pos   *ast.SourcePosition `json:"pos,omitempty"`
}

// TypedValue is a literal with its kind tag, used in ComparisonTrace.
type TypedValue struct {
	Value any                 `json:"value"`
	Type  string              `json:"type"`
	Pos   *ast.SourcePosition `json:"pos,omitempty"`
}

// PropertyTrace is the resolved left-hand access: its display value plus
// the dollar-path used to find it.
type PropertyTrace struct {
	Value string `json:"value"`
	Path  string `json:"path"`
}

// EvaluationDetails carries the coerced operands actually compared, set
// only when both sides resolved and the operator ran (spec §4.7: absence
// of this field marks a silent data-absence/type-mismatch failure).
type EvaluationDetails struct {
	LeftValue        TypedValue `json:"left_value"`
	RightValue       TypedValue `json:"right_value"`
	ComparisonResult bool       `json:"comparison_result"`
}

// ComparisonTrace records one property-comparison condition.
type ComparisonTrace struct {
	Selector          PositionedString   `json:"selector"`
	Property          PropertyTrace      `json:"property"`
	Operator          string             `json:"operator"`
	Value             TypedValue         `json:"value"`
	EvaluationDetails *EvaluationDetails `json:"evaluation_details,omitempty"`
	Result            bool               `json:"result"`
}

// PropertyCheck records the property-inference fallback outcome, when a
// rule reference resolved via a candidate property name rather than a
// matched rule.
type PropertyCheck struct {
	PropertyName  string `json:"property_name"`
	PropertyValue any    `json:"property_value"`
}

// RuleReferenceTrace records one rule-reference or label-reference
// condition.
type RuleReferenceTrace struct {
	Selector              PositionedString `json:"selector"`
	RuleName              string           `json:"rule_name"`
	ReferencedRuleOutcome *string          `json:"referenced_rule_outcome,omitempty"`
	PropertyCheck         *PropertyCheck   `json:"property_check,omitempty"`
	Result                bool             `json:"result"`
}

// ConditionTrace is a tagged union: exactly one of Comparison/RuleReference
// is set, mirroring ast.Condition.
type ConditionTrace struct {
	Comparison    *ComparisonTrace    `json:"comparison,omitempty"`
	RuleReference *RuleReferenceTrace `json:"rule_reference,omitempty"`
}

// RuleTrace records one full rule evaluation.
type RuleTrace struct {
	Label      *string            `json:"label,omitempty"`
	Selector   PositionedString   `json:"selector"`
	Outcome    PositionedString   `json:"outcome"`
	Conditions []ConditionTrace   `json:"conditions"`
	Result     bool               `json:"result"`
}

// RuleSetTrace is the top-level execution log, global rule first.
type RuleSetTrace struct {
	Execution []RuleTrace `json:"execution"`
}

// NewPositionedString converts an ast.Positioned[string] to its trace form.
func NewPositionedString(p ast.Positioned[string]) PositionedString {
	return PositionedString{Value: p.Value, Pos: p.Pos}
}

// NewTypedValue converts a runtime Value into its JSON-friendly trace form.
func NewTypedValue(v value.Value, pos *ast.SourcePosition) TypedValue {
	return TypedValue{Value: toJSON(v), Type: v.Kind.String(), Pos: pos}
}

func toJSON(v value.Value) any {
	switch v.Kind {
	case value.KindNumber:
		return v.Number
	case value.KindString:
		return v.Str
	case value.KindDate:
		return v.Date.Format("2006-01-02")
	case value.KindBoolean:
		return v.Bool
	case value.KindDuration:
		return v.Duration.String()
	case value.KindList:
		out := make([]any, len(v.List))
		for i, e := range v.List {
			out[i] = toJSON(e)
		}
		return out
	default:
		return nil
	}
}
