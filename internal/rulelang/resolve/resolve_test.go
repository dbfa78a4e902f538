// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulelang/rulelang/internal/rulelang/ast"
)

func newRule(outcome string, label *string) ast.Rule {
	return ast.Rule{
		Label:    label,
		Selector: ast.Positioned[string]{Value: "x"},
		Outcome:  ast.Positioned[string]{Value: outcome},
	}
}

func TestGlobalRuleSingleRuleShortcut(t *testing.T) {
	rs := ast.NewRuleSet(ast.DefaultOptions())
	require.NoError(t, rs.AddRule(newRule("only", nil)))

	idx, err := GlobalRule(rs)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestGlobalRuleFindsUnreferenced(t *testing.T) {
	rs := ast.NewRuleSet(ast.DefaultOptions())
	require.NoError(t, rs.AddRule(newRule("top", nil)))
	require.NoError(t, rs.AddRule(newRule("sub", nil)))

	rs.Rules[0].Conditions = []ast.ConditionGroup{{
		Condition: ast.Condition{RuleReference: &ast.RuleReferenceCondition{
			Selector: ast.Positioned[string]{Value: "x"},
			RuleName: ast.Positioned[string]{Value: "sub"},
		}},
	}}

	idx, err := GlobalRule(rs)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestGlobalRuleNoneFound(t *testing.T) {
	rs := ast.NewRuleSet(ast.DefaultOptions())
	require.NoError(t, rs.AddRule(newRule("a", nil)))
	require.NoError(t, rs.AddRule(newRule("b", nil)))
	rs.Rules[0].Conditions = []ast.ConditionGroup{{
		Condition: ast.Condition{RuleReference: &ast.RuleReferenceCondition{
			Selector: ast.Positioned[string]{Value: "x"},
			RuleName: ast.Positioned[string]{Value: "b"},
		}},
	}}
	rs.Rules[1].Conditions = []ast.ConditionGroup{{
		Condition: ast.Condition{RuleReference: &ast.RuleReferenceCondition{
			Selector: ast.Positioned[string]{Value: "x"},
			RuleName: ast.Positioned[string]{Value: "a"},
		}},
	}}

	_, err := GlobalRule(rs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No global rule found")
}

func TestFuzzyMatchRuleStripsQualificationPrefix(t *testing.T) {
	rs := ast.NewRuleSet(ast.DefaultOptions())
	require.NoError(t, rs.AddRule(newRule("background check", nil)))

	idx, ok := FuzzyMatchRule(rs, "qualifies for background check")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	// Memoized miss.
	_, ok = FuzzyMatchRule(rs, "totally unrelated")
	assert.False(t, ok)
	cached, ok := rs.CachedFuzzyMatch("totally unrelated")
	require.True(t, ok)
	assert.Equal(t, -1, cached)
}

func TestFindEffectiveSelectorTriesTransformSelectorGuessBeforeScan(t *testing.T) {
	root := map[string]any{"backgroundCheck": map[string]any{"passed": true}}
	key, ok := FindEffectiveSelector("background check", root)
	assert.True(t, ok)
	assert.Equal(t, "backgroundCheck", key)
}

func TestResolvePropertyPathTwoStageLookup(t *testing.T) {
	root := map[string]any{
		"Person": map[string]any{"firstName": "John"},
	}
	nav := ResolvePropertyPath("person", []string{"firstName"}, root)
	assert.True(t, nav.Resolved)
	assert.Equal(t, "John", nav.Value)
	assert.Equal(t, "$.Person.firstName", nav.DollarPath)
}

func TestResolvePropertyPathReturnsLongestPrefixOnFailure(t *testing.T) {
	root := map[string]any{"person": map[string]any{"name": "X"}}
	nav := ResolvePropertyPath("person", []string{"address", "city"}, root)
	assert.False(t, nav.Resolved)
	assert.Equal(t, "$.person", nav.DollarPath)
}

func TestApplySentinelLengthAndNumberOf(t *testing.T) {
	v, err := ApplySentinel(ast.SentinelLengthOf, "hello")
	require.NoError(t, err)
	assert.Equal(t, float64(5), v.Number)

	v, err = ApplySentinel(ast.SentinelNumberOf, []any{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, float64(3), v.Number)

	_, err = ApplySentinel(ast.SentinelNumberOf, "not a list")
	assert.Error(t, err)
}

func TestCandidatePropertyNamesMemoizes(t *testing.T) {
	rs := ast.NewRuleSet(ast.DefaultOptions())
	candidates := CandidatePropertyNames(rs, "qualifies for background check")
	assert.Contains(t, candidates, "backgroundCheck")
	assert.Contains(t, candidates, "backgroundCheckPassed")

	cached, ok := rs.CachedPropertyCandidates("qualifies for background check")
	require.True(t, ok)
	assert.Equal(t, candidates, cached)
}
