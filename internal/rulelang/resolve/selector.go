// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package resolve

import (
	"fmt"
	"strings"

	"github.com/rulelang/rulelang/internal/names"
	"github.com/rulelang/rulelang/internal/rulelang/ast"
	"github.com/rulelang/rulelang/pkg/value"
)

// FindEffectiveSelector resolves a surface selector name against a JSON
// object's keys: exact match first, then the transformSelector-guessed
// camelCase key (the same JSON-key convention lowerPropertyAccess already
// applies to properties), then the first key whose canonical form
// matches the canonicalized name.
func FindEffectiveSelector(name string, root map[string]any) (string, bool) {
	if _, ok := root[name]; ok {
		return name, true
	}
	if transformed := names.TransformSelector(name); transformed != name {
		if _, ok := root[transformed]; ok {
			return transformed, true
		}
	}
	canonical := names.Canonical(name)
	for key := range root {
		if names.Canonical(key) == canonical {
			return key, true
		}
	}
	return "", false
}

// findKey resolves a single path step against a JSON object using the
// same two-stage (exact, then canonical) strategy as FindEffectiveSelector.
func findKey(step string, obj map[string]any) (string, bool) {
	if _, ok := obj[step]; ok {
		return step, true
	}
	canonical := names.Canonical(step)
	for key := range obj {
		if names.Canonical(key) == canonical {
			return key, true
		}
	}
	return "", false
}

// Navigation is the result of resolving a PropertyPath-shaped walk: the
// final raw JSON value (if fully resolved), the longest successful dollar
// path for tracing, and whether resolution fully succeeded.
type Navigation struct {
	Value      any
	DollarPath string
	Resolved   bool
}

// ResolvePropertyPath walks root[selector] then each of path's properties
// step by step, using the two-stage key lookup at every step. It returns
// the final value (only when the full path resolved), the dollar-path
// string built so far, and whether the full path resolved.
func ResolvePropertyPath(selector string, properties []string, root map[string]any) Navigation {
	effectiveSelector, ok := FindEffectiveSelector(selector, root)
	if !ok {
		return Navigation{DollarPath: "$", Resolved: false}
	}

	dollar := "$." + effectiveSelector
	var current any = root[effectiveSelector]

	for _, step := range properties {
		obj, ok := current.(map[string]any)
		if !ok {
			return Navigation{DollarPath: dollar, Resolved: false}
		}
		key, ok := findKey(step, obj)
		if !ok {
			return Navigation{DollarPath: dollar, Resolved: false}
		}
		dollar += "." + key
		current = obj[key]
	}

	return Navigation{Value: current, DollarPath: dollar, Resolved: true}
}

// ApplySentinel implements the "__length_of__"/"__number_of__" aggregate
// operators: length works on strings (rune count), arrays (element count),
// objects (key count), and null (0); number-of requires an array (or
// null, which counts as 0) and errors on anything else.
func ApplySentinel(sentinel string, raw any) (value.Value, error) {
	switch sentinel {
	case "":
		v, ok := value.FromJSON(raw)
		if !ok {
			return value.Value{}, fmt.Errorf("unsupported JSON value type %T", raw)
		}
		return v, nil
	case "__length_of__":
		return value.Number(float64(lengthOf(raw))), nil
	case "__number_of__":
		switch t := raw.(type) {
		case nil:
			return value.Number(0), nil
		case []any:
			return value.Number(float64(len(t))), nil
		default:
			return value.Value{}, fmt.Errorf("number-of requires an array, got %T", raw)
		}
	default:
		return value.Value{}, fmt.Errorf("unrecognized sentinel %q", sentinel)
	}
}

func lengthOf(raw any) int {
	switch t := raw.(type) {
	case nil:
		return 0
	case string:
		return len([]rune(t))
	case []any:
		return len(t)
	case map[string]any:
		return len(t)
	default:
		return 0
	}
}

// CandidatePropertyNames generates property-name candidates from a
// reference-style free-text name, used by the evaluator's
// property-inference fallback (spec §4.7). Results are memoized on rs.
func CandidatePropertyNames(rs *ast.RuleSet, referenceText string) []string {
	if cached, ok := rs.CachedPropertyCandidates(referenceText); ok {
		return cached
	}

	cleaned := stripQualificationPrefixes(referenceText)
	base := names.TransformProperty(cleaned)
	suffixes := []string{"", "Passed", "Qualified", "Eligible", "Approved", "Status"}
	candidates := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		candidates = append(candidates, base+s)
	}

	rs.CachePropertyCandidates(referenceText, candidates)
	return candidates
}

// QualificationPrefixes are stripped during both fuzzy rule-name matching
// and property-name inference (spec glossary: "qualification prefix").
var QualificationPrefixes = []string{
	"passes the", "qualifies for", "has", "is", "gets", "meets", "passes",
}

func stripQualificationPrefixes(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, p := range QualificationPrefixes {
		if strings.HasPrefix(lower, p+" ") {
			return strings.TrimSpace(s[len(p):])
		}
	}
	return strings.TrimSpace(s)
}
