// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

// Package resolve implements the global-rule resolver (C6) and the JSON
// navigator (C8): finding a rule set's unique entry point, and walking a
// JSON document to resolve selectors and property paths.
package resolve

import (
	"fmt"
	"strings"

	"github.com/rulelang/rulelang/internal/rulelang/ast"
)

// GlobalRuleError reports a failure to find a unique global rule.
type GlobalRuleError struct {
	Message string
}

func (e *GlobalRuleError) Error() string { return e.Message }

// ReferencedOutcomes scans every rule reference in the set and returns the
// set of rule outcomes (by index) that are referenced by some other rule,
// matching a reference's ruleName against each rule's outcome and label
// using mutual substring containment plus exact label equality.
func ReferencedOutcomes(rs *ast.RuleSet) map[int]bool {
	referenced := make(map[int]bool)
	for _, rule := range rs.Rules {
		for _, group := range rule.Conditions {
			walkConditionRefs(group.Condition, rs, referenced)
		}
	}
	return referenced
}

func walkConditionRefs(c ast.Condition, rs *ast.RuleSet, referenced map[int]bool) {
	if c.RuleReference == nil {
		return
	}
	ref := c.RuleReference
	if ref.IsLabelReference() {
		if idx, ok := indexByLabel(rs, ref.RuleName.Value); ok {
			referenced[idx] = true
		}
		return
	}
	name := strings.ToLower(strings.TrimSpace(ref.RuleName.Value))
	for i, r := range rs.Rules {
		outcome := strings.ToLower(r.Outcome.Value)
		if MutuallyContains(name, outcome) {
			referenced[i] = true
		}
		if r.Label != nil && *r.Label == ref.RuleName.Value {
			referenced[i] = true
		}
	}
}

func indexByLabel(rs *ast.RuleSet, label string) (int, bool) {
	for i, r := range rs.Rules {
		if r.Label != nil && *r.Label == label {
			return i, true
		}
	}
	return 0, false
}

// MutuallyContains reports whether a contains b or b contains a, as
// substrings, after both have been lowercased by the caller.
func MutuallyContains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// GlobalRule returns the index of the unique rule whose outcome is
// referenced by no other rule. It errors when the rule set is empty, or
// when zero or more than one candidate qualifies.
func GlobalRule(rs *ast.RuleSet) (int, error) {
	if len(rs.Rules) == 0 {
		return 0, &GlobalRuleError{Message: "rule set is empty"}
	}
	if len(rs.Rules) == 1 {
		return 0, nil
	}

	referenced := ReferencedOutcomes(rs)
	var candidates []int
	for i := range rs.Rules {
		if !referenced[i] {
			candidates = append(candidates, i)
		}
	}

	switch len(candidates) {
	case 0:
		return 0, &GlobalRuleError{Message: "No global rule found"}
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = rs.Rules[c].Outcome.Value
		}
		return 0, &GlobalRuleError{Message: fmt.Sprintf("Multiple global rules found: %s", strings.Join(names, ", "))}
	}
}
