// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package compare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rulelang/rulelang/internal/clock"
	"github.com/rulelang/rulelang/internal/rulelang/ast"
	"github.com/rulelang/rulelang/pkg/value"
)

func TestNumericComparisons(t *testing.T) {
	assert.True(t, Evaluate(ast.GreaterThan, value.Number(10), value.Number(5), clock.Real{}, true))
	assert.False(t, Evaluate(ast.GreaterThan, value.Number(5), value.Number(10), clock.Real{}, true))
	assert.True(t, Evaluate(ast.GreaterThanOrEqual, value.Number(5), value.Number(5), clock.Real{}, true))
	assert.True(t, Evaluate(ast.LessThanOrEqual, value.Number(5), value.Number(5), clock.Real{}, true))
}

func TestMismatchedTypesAreFalseNotError(t *testing.T) {
	assert.False(t, Evaluate(ast.GreaterThan, value.Number(5), value.String("x"), clock.Real{}, true))
	assert.False(t, Evaluate(ast.LaterThan, value.Number(5), value.String("not a date"), clock.Real{}, true))
}

func TestEqualToCaseInsensitive(t *testing.T) {
	assert.True(t, Evaluate(ast.EqualTo, value.String("Yes"), value.String("yes"), clock.Real{}, true))
	assert.False(t, Evaluate(ast.ExactlyEqualTo, value.String("Yes"), value.String("yes"), clock.Real{}, true))
}

func TestChronologicalOperators(t *testing.T) {
	earlier := value.Date(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	later := value.Date(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, Evaluate(ast.LaterThan, later, earlier, clock.Real{}, true))
	assert.True(t, Evaluate(ast.EarlierThan, earlier, later, clock.Real{}, true))
	assert.False(t, Evaluate(ast.LaterThan, earlier, later, clock.Real{}, true))
}

func TestInAndContains(t *testing.T) {
	list := value.List([]value.Value{value.String("a"), value.String("B")})
	assert.True(t, Evaluate(ast.In, value.String("A"), list, clock.Real{}, true))
	assert.True(t, Evaluate(ast.Contains, list, value.String("b"), clock.Real{}, true))
	assert.True(t, Evaluate(ast.NotIn, value.String("z"), list, clock.Real{}, true))
}

func TestContainsStringSubstring(t *testing.T) {
	assert.True(t, Evaluate(ast.Contains, value.String("Johnson"), value.String("oh"), clock.Real{}, true))
	assert.True(t, Evaluate(ast.Contains, value.String("Johnson"), value.String("OH"), clock.Real{}, true))
	assert.False(t, Evaluate(ast.Contains, value.String("Johnson"), value.String("OH"), clock.Real{}, false))
	assert.False(t, Evaluate(ast.Contains, value.String("Johnson"), value.String("xyz"), clock.Real{}, true))
}

func TestCompatibleStringSubstringContains(t *testing.T) {
	assert.True(t, Compatible(ast.Contains, value.String("Johnson"), value.String("oh")))
}

func TestEmptyOperators(t *testing.T) {
	assert.True(t, Evaluate(ast.IsEmpty, value.List(nil), value.Value{}, clock.Real{}, true))
	assert.True(t, Evaluate(ast.IsNotEmpty, value.String("x"), value.Value{}, clock.Real{}, true))
}

func TestWithinUsesFixedClock(t *testing.T) {
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	fixed := clock.Fixed{At: now}
	recent := value.Date(now.Add(-2 * time.Hour))
	dur := value.DurationValue(value.Duration{Amount: 1, Unit: value.Day})
	assert.True(t, Evaluate(ast.Within, recent, dur, fixed, true))

	old := value.Date(now.Add(-30 * 24 * time.Hour))
	assert.False(t, Evaluate(ast.Within, old, dur, fixed, true))
}

func TestCompatibleFlagsTypeMismatch(t *testing.T) {
	assert.False(t, Compatible(ast.GreaterThan, value.Number(5), value.String("x")))
	assert.True(t, Compatible(ast.GreaterThan, value.Number(5), value.Number(1)))
	assert.False(t, Compatible(ast.LaterThan, value.Number(5), value.String("not a date")))
	assert.True(t, Compatible(ast.In, value.String("a"), value.List(nil)))
	assert.False(t, Compatible(ast.In, value.String("a"), value.String("b")))
}

func TestDurationComparison(t *testing.T) {
	oneHour := value.DurationValue(value.Duration{Amount: 1, Unit: value.Hour})
	sixtyMinutes := value.DurationValue(value.Duration{Amount: 60, Unit: value.Minute})
	assert.True(t, Evaluate(ast.EqualTo, oneHour, sixtyMinutes, clock.Real{}, true))
}
