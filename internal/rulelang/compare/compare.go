// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

// Package compare implements the comparison engine (C7): evaluating a
// single (left value, operator, right value) triple. A type mismatch the
// operator cannot bridge (e.g. comparing a number to a string) resolves
// to false rather than an error, matching spec's "mismatched types never
// fail the rule set" stance - callers that need to distinguish a genuine
// false from a type mismatch (to omit evaluation_details in a trace) use
// Compatible.
package compare

import (
	"strings"

	"github.com/rulelang/rulelang/internal/clock"
	"github.com/rulelang/rulelang/internal/rulelang/ast"
	"github.com/rulelang/rulelang/pkg/value"
)

// Evaluate applies operator to (left, right) and reports the boolean
// result. clk is consulted only by Within. caseInsensitiveContains gates
// string-element comparisons inside "in"/"contains" (ast.Options.ListContainsCaseInsensitive);
// right is the zero Value for the empty-check operators, which ignore it.
func Evaluate(operator ast.Operator, left, right value.Value, clk clock.Clock, caseInsensitiveContains bool) bool {
	switch operator {
	case ast.GreaterThan:
		return ordered(left, right, func(a, b float64) bool { return a > b })
	case ast.GreaterThanOrEqual:
		return ordered(left, right, func(a, b float64) bool { return a >= b })
	case ast.LessThan:
		return ordered(left, right, func(a, b float64) bool { return a < b })
	case ast.LessThanOrEqual:
		return ordered(left, right, func(a, b float64) bool { return a <= b })
	case ast.EqualTo, ast.SameAs:
		return value.Equal(left, right)
	case ast.NotEqualTo, ast.NotSameAs:
		return !value.Equal(left, right)
	case ast.ExactlyEqualTo:
		return value.ExactlyEqual(left, right)
	case ast.LaterThan:
		return chronological(left, right, true)
	case ast.EarlierThan:
		return chronological(left, right, false)
	case ast.In:
		return contains(right, left, caseInsensitiveContains)
	case ast.NotIn:
		return !contains(right, left, caseInsensitiveContains)
	case ast.Contains:
		if left.Kind == value.KindString && right.Kind == value.KindString {
			return containsSubstring(left.Str, right.Str, caseInsensitiveContains)
		}
		return contains(left, right, caseInsensitiveContains)
	case ast.IsEmpty:
		return left.Len() == 0
	case ast.IsNotEmpty:
		return left.Len() != 0
	case ast.Within:
		return within(left, right, clk)
	default:
		return false
	}
}

// Compatible reports whether operator's type requirements are satisfied
// by (left, right); a false here means the operator ran but the result
// is a type-mismatch false, not a genuine comparison outcome.
func Compatible(operator ast.Operator, left, right value.Value) bool {
	switch operator {
	case ast.GreaterThan, ast.GreaterThanOrEqual, ast.LessThan, ast.LessThanOrEqual:
		if _, ok := left.AsDate(); ok {
			_, ok := right.AsDate()
			return ok
		}
		if left.Kind == value.KindDuration || right.Kind == value.KindDuration {
			return left.Kind == value.KindDuration && right.Kind == value.KindDuration
		}
		return left.Kind == value.KindNumber && right.Kind == value.KindNumber
	case ast.EqualTo, ast.NotEqualTo, ast.SameAs, ast.NotSameAs, ast.ExactlyEqualTo:
		if left.Kind == right.Kind {
			return true
		}
		_, lok := left.AsDate()
		_, rok := right.AsDate()
		return lok && rok
	case ast.LaterThan, ast.EarlierThan:
		_, lok := left.AsDate()
		_, rok := right.AsDate()
		return lok && rok
	case ast.In, ast.NotIn:
		return right.Kind == value.KindList
	case ast.Contains:
		return left.Kind == value.KindList || (left.Kind == value.KindString && right.Kind == value.KindString)
	case ast.IsEmpty, ast.IsNotEmpty:
		return true
	case ast.Within:
		_, lok := left.AsDate()
		return lok && right.Kind == value.KindDuration
	default:
		return false
	}
}

// chronological implements later_than (wantLater=true) and earlier_than
// (wantLater=false), coercing both sides to dates on demand.
func chronological(left, right value.Value, wantLater bool) bool {
	l, ok := left.AsDate()
	if !ok {
		return false
	}
	r, ok := right.AsDate()
	if !ok {
		return false
	}
	if wantLater {
		return l.After(r)
	}
	return l.Before(r)
}

// ordered implements the four numeric-comparison operators. Dates compare
// chronologically when both sides coerce to dates; durations compare by
// normalized seconds; otherwise both sides must be numbers.
func ordered(left, right value.Value, cmp func(a, b float64) bool) bool {
	if l, ok := left.AsDate(); ok {
		r, ok := right.AsDate()
		if !ok {
			return false
		}
		return cmp(float64(l.Unix()), float64(r.Unix()))
	}
	if left.Kind == value.KindDuration || right.Kind == value.KindDuration {
		if left.Kind != value.KindDuration || right.Kind != value.KindDuration {
			return false
		}
		return cmp(left.Duration.Seconds(), right.Duration.Seconds())
	}
	if left.Kind != value.KindNumber || right.Kind != value.KindNumber {
		return false
	}
	return cmp(left.Number, right.Number)
}

// contains implements both "in" (element, list) and "contains" (list,
// element) by normalizing to a (container, element) pair at the call
// site. String elements compare case-insensitively when
// caseInsensitive is set, matching equal_to's default posture.
func contains(container, element value.Value, caseInsensitive bool) bool {
	if container.Kind != value.KindList {
		return false
	}
	for _, item := range container.List {
		if !caseInsensitive && item.Kind == value.KindString && element.Kind == value.KindString {
			if item.Str == element.Str {
				return true
			}
			continue
		}
		if value.Equal(item, element) {
			return true
		}
	}
	return false
}

// containsSubstring implements spec.md's (String,String) form of
// "contains": haystack holds needle as a substring, case-insensitively
// when caseInsensitive is set. "in"/"not_in" have no string/string form
// (spec restricts them to (V, List[V])), so this is only reached from
// ast.Contains.
func containsSubstring(haystack, needle string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	return strings.Contains(haystack, needle)
}

// within implements "is within <duration>": the absolute gap between left
// (a date) and the clock's current time must not exceed right's duration.
func within(left, right value.Value, clk clock.Clock) bool {
	l, ok := left.AsDate()
	if !ok {
		return false
	}
	if right.Kind != value.KindDuration {
		return false
	}
	now := clk.Now()
	gap := now.Sub(l)
	if gap < 0 {
		gap = -gap
	}
	return gap.Seconds() <= right.Duration.Seconds()
}
