// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package resolve

import (
	"strings"

	"github.com/rulelang/rulelang/internal/rulelang/ast"
)

// FuzzyMatchRule resolves a free-text rule-reference name against a rule
// set's outcomes: qualification prefixes are stripped, the remainder is
// compared case-insensitively against each rule's outcome for equality or
// mutual substring containment. The result (including a miss) is
// memoized on the rule set so repeated evaluations are cheap.
func FuzzyMatchRule(rs *ast.RuleSet, ruleName string) (int, bool) {
	if idx, ok := rs.CachedFuzzyMatch(ruleName); ok {
		if idx < 0 {
			return 0, false
		}
		return idx, true
	}

	stripped := strings.ToLower(stripQualificationPrefixes(ruleName))
	for i, r := range rs.Rules {
		outcome := strings.ToLower(r.Outcome.Value)
		if stripped == outcome || MutuallyContains(stripped, outcome) {
			rs.CacheFuzzyMatch(ruleName, i)
			return i, true
		}
	}

	rs.CacheFuzzyMatch(ruleName, -1)
	return 0, false
}
