// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

// Package eval implements the rule evaluator (C9): a depth-first walk
// over a RuleSet against a JSON data document, producing a per-outcome
// boolean result map plus a structured execution trace.
package eval

import (
	"fmt"
	"strings"

	"github.com/rulelang/rulelang/internal/clock"
	"github.com/rulelang/rulelang/internal/rulelang/ast"
	"github.com/rulelang/rulelang/internal/rulelang/compare"
	"github.com/rulelang/rulelang/internal/rulelang/resolve"
	"github.com/rulelang/rulelang/internal/rulelang/trace"
	"github.com/rulelang/rulelang/pkg/value"
)

// EvaluationError reports a cycle in the rule-reference graph, or any
// other failure the evaluator itself (as opposed to the parser) detects.
type EvaluationError struct {
	Message string
}

func (e *EvaluationError) Error() string { return e.Message }

// Evaluator walks a RuleSet over a fixed data document.
type Evaluator struct {
	rs    *ast.RuleSet
	data  map[string]any
	clock clock.Clock

	results map[int]bool
	traces  map[int]trace.RuleTrace
	order   []int // rule indices in first-completed order, for BFS assembly
}

// New builds an Evaluator for rs against data, using clk as the time
// source for the within operator.
func New(rs *ast.RuleSet, data map[string]any, clk clock.Clock) *Evaluator {
	return &Evaluator{
		rs:      rs,
		data:    data,
		clock:   clk,
		results: make(map[int]bool),
		traces:  make(map[int]trace.RuleTrace),
	}
}

// Evaluate resolves the rule set's global rule and evaluates it,
// following rule references depth-first with cycle detection, then
// breadth-first-orders the accumulated traces into the execution log.
// A non-nil error is always accompanied by whatever trace was
// accumulated before the failure.
func (e *Evaluator) Evaluate() (map[string]bool, trace.RuleSetTrace, error) {
	globalIdx, err := resolve.GlobalRule(e.rs)
	if err != nil {
		return nil, trace.RuleSetTrace{}, err
	}

	_, evalErr := e.evaluateRule(globalIdx, nil)

	outcomes := make(map[string]bool, len(e.results))
	for idx, result := range e.results {
		outcomes[e.rs.Rules[idx].Outcome.Value] = result
	}

	return outcomes, trace.RuleSetTrace{Execution: e.bfsTraces(globalIdx)}, evalErr
}

// bfsTraces orders the accumulated per-rule traces breadth-first starting
// from the global rule, following each rule's own rule-reference
// conditions (spec §4.7 step 4), falling back to arrival order for any
// rule a referencing condition never named explicitly.
func (e *Evaluator) bfsTraces(globalIdx int) []trace.RuleTrace {
	seen := make(map[int]bool)
	var queue []int
	var out []trace.RuleTrace

	enqueue := func(idx int) {
		if seen[idx] {
			return
		}
		if t, ok := e.traces[idx]; ok {
			seen[idx] = true
			queue = append(queue, idx)
			out = append(out, t)
		}
	}

	enqueue(globalIdx)
	for i := 0; i < len(queue); i++ {
		idx := queue[i]
		rule := e.rs.Rules[idx]
		for _, group := range rule.Conditions {
			ref := group.Condition.RuleReference
			if ref == nil {
				continue
			}
			if target, ok := e.referencedIndex(ref); ok {
				enqueue(target)
			}
		}
	}

	for _, idx := range e.order {
		enqueue(idx)
	}

	return out
}

func (e *Evaluator) referencedIndex(ref *ast.RuleReferenceCondition) (int, bool) {
	if ref.IsLabelReference() {
		if r, ok := e.rs.RuleByLabel(ref.RuleName.Value); ok {
			return e.indexOfRule(r), true
		}
		return 0, false
	}
	if r, ok := e.rs.RuleByOutcome(ref.RuleName.Value); ok {
		return e.indexOfRule(r), true
	}
	if r, ok := e.rs.RuleByLabel(ref.RuleName.Value); ok {
		return e.indexOfRule(r), true
	}
	if e.rs.Options.FuzzyRuleNameMatching {
		return resolve.FuzzyMatchRule(e.rs, ref.RuleName.Value)
	}
	return 0, false
}

func (e *Evaluator) indexOfRule(r *ast.Rule) int {
	for i := range e.rs.Rules {
		if &e.rs.Rules[i] == r {
			return i
		}
	}
	return -1
}

// evaluateRule evaluates the rule at idx, detecting cycles against stack
// (the chain of rule indices currently being evaluated above it). On
// success, the rule's boolean result and trace are memoized. On a cycle,
// the partial trace built so far for every rule on the active stack is
// still recorded, so callers retain at least the global rule's trace.
func (e *Evaluator) evaluateRule(idx int, stack []int) (bool, error) {
	if cached, ok := e.results[idx]; ok {
		return cached, nil
	}

	for i, s := range stack {
		if s == idx {
			return false, e.cycleError(stack[i:], idx)
		}
	}

	rule := e.rs.Rules[idx]
	childStack := append(append([]int{}, stack...), idx)

	var conditionTraces []trace.ConditionTrace
	var entries []bool
	var ops []ast.ConditionOperator
	var failure error

	for _, group := range rule.Conditions {
		result, ct, err := e.evaluateCondition(group.Condition, childStack)
		conditionTraces = append(conditionTraces, ct)
		entries = append(entries, result)
		if group.Operator != nil {
			ops = append(ops, *group.Operator)
		} else if len(ops) < len(entries)-1 {
			ops = append(ops, ast.And)
		}
		if err != nil {
			failure = err
			break
		}
	}

	overall := foldPrecedence(entries, ops)

	ruleTrace := trace.RuleTrace{
		Label:      rule.Label,
		Selector:   trace.NewPositionedString(rule.Selector),
		Outcome:    trace.NewPositionedString(rule.Outcome),
		Conditions: conditionTraces,
		Result:     overall,
	}
	e.traces[idx] = ruleTrace
	e.order = append(e.order, idx)

	if failure != nil {
		return overall, failure
	}

	e.results[idx] = overall
	return overall, nil
}

// foldPrecedence implements "and before or": adjacent and-joined entries
// collapse first, then the remaining entries fold with or.
func foldPrecedence(entries []bool, ops []ast.ConditionOperator) bool {
	if len(entries) == 0 {
		return false
	}
	collapsed := []bool{entries[0]}
	for i := 1; i < len(entries); i++ {
		op := ast.And
		if i-1 < len(ops) {
			op = ops[i-1]
		}
		if op == ast.Or {
			collapsed = append(collapsed, entries[i])
		} else {
			collapsed[len(collapsed)-1] = collapsed[len(collapsed)-1] && entries[i]
		}
	}
	result := false
	for _, c := range collapsed {
		result = result || c
	}
	return result
}

func (e *Evaluator) cycleError(cycle []int, closingIdx int) error {
	names := make([]string, 0, len(cycle)+1)
	for _, idx := range cycle {
		names = append(names, e.rs.Rules[idx].Outcome.Value)
	}
	names = append(names, e.rs.Rules[closingIdx].Outcome.Value)
	return &EvaluationError{Message: fmt.Sprintf("Infinite loop detected: %s", strings.Join(names, " → "))}
}

func (e *Evaluator) evaluateCondition(c ast.Condition, stack []int) (bool, trace.ConditionTrace, error) {
	if c.Comparison != nil {
		result, ct := e.evaluateComparison(c.Comparison)
		return result, trace.ConditionTrace{Comparison: &ct}, nil
	}
	result, ct, err := e.evaluateRuleReference(c.RuleReference, stack)
	return result, trace.ConditionTrace{RuleReference: &ct}, err
}

func (e *Evaluator) resolveSelector(surface string) string {
	return e.rs.ResolveSelector(surface)
}

func (e *Evaluator) evaluateComparison(c *ast.ComparisonCondition) (bool, trace.ComparisonTrace) {
	selector := e.resolveSelector(c.LeftPath.Selector.Value)
	nav := resolve.ResolvePropertyPath(selector, c.LeftPath.Properties, e.data)

	ct := trace.ComparisonTrace{
		Selector: trace.NewPositionedString(c.Selector),
		Property: trace.PropertyTrace{Value: c.Property.Value, Path: nav.DollarPath},
		Operator: c.Operator.String(),
		Value:    trace.NewTypedValue(c.Value.Value, c.Value.Pos),
	}

	if !nav.Resolved {
		ct.Result = false
		return false, ct
	}

	leftVal, err := resolve.ApplySentinel(c.LeftPath.Sentinel, nav.Value)
	if err != nil {
		ct.Result = false
		return false, ct
	}

	var rightVal value.Value
	if c.RightPath != nil {
		rightSelector := e.resolveSelector(c.RightPath.Selector.Value)
		rnav := resolve.ResolvePropertyPath(rightSelector, c.RightPath.Properties, e.data)
		if !rnav.Resolved {
			ct.Result = false
			return false, ct
		}
		rv, err := resolve.ApplySentinel(c.RightPath.Sentinel, rnav.Value)
		if err != nil {
			ct.Result = false
			return false, ct
		}
		rightVal = rv
		ct.Value = trace.NewTypedValue(rightVal, nil)
	} else {
		rightVal = c.Value.Value
	}

	result := compare.Evaluate(c.Operator, leftVal, rightVal, e.clock, e.rs.Options.ListContainsCaseInsensitive)
	ct.Result = result

	if compare.Compatible(c.Operator, leftVal, rightVal) {
		ct.EvaluationDetails = &trace.EvaluationDetails{
			LeftValue:        trace.NewTypedValue(leftVal, nil),
			RightValue:       trace.NewTypedValue(rightVal, nil),
			ComparisonResult: result,
		}
	}

	return result, ct
}

func (e *Evaluator) evaluateRuleReference(ref *ast.RuleReferenceCondition, stack []int) (bool, trace.RuleReferenceTrace, error) {
	ct := trace.RuleReferenceTrace{
		Selector: trace.NewPositionedString(ref.Selector),
		RuleName: ref.RuleName.Value,
	}

	if ref.IsLabelReference() {
		rule, ok := e.rs.RuleByLabel(ref.RuleName.Value)
		if !ok {
			ct.Result = false
			return false, ct, nil
		}
		idx := e.indexOfRule(rule)
		result, err := e.evaluateRule(idx, stack)
		ct.Result = result
		outcome := rule.Outcome.Value
		ct.ReferencedRuleOutcome = &outcome
		return result, ct, err
	}

	effectiveSelector, ok := resolve.FindEffectiveSelector(e.resolveSelector(ref.Selector.Value), e.data)
	if !ok {
		ct.Result = false
		return false, ct, nil
	}

	if idx, found := e.resolveReferencedRule(ref.RuleName.Value); found {
		result, err := e.evaluateRule(idx, stack)
		ct.Result = result
		outcome := e.rs.Rules[idx].Outcome.Value
		ct.ReferencedRuleOutcome = &outcome
		return result, ct, err
	}

	subject, _ := e.data[effectiveSelector].(map[string]any)
	for _, candidate := range resolve.CandidatePropertyNames(e.rs, ref.RuleName.Value) {
		nav := resolve.ResolvePropertyPath(effectiveSelector, []string{candidate}, map[string]any{effectiveSelector: subject})
		if !nav.Resolved {
			continue
		}
		v, ok := value.FromJSON(nav.Value)
		if !ok {
			continue
		}
		result := v.Truthy()
		ct.Result = result
		ct.PropertyCheck = &trace.PropertyCheck{PropertyName: candidate, PropertyValue: nav.Value}
		return result, ct, nil
	}

	result := e.rs.Options.AllowFreeTextFallback
	ct.Result = result
	return result, ct, nil
}

func (e *Evaluator) resolveReferencedRule(ruleName string) (int, bool) {
	if r, ok := e.rs.RuleByOutcome(ruleName); ok {
		return e.indexOfRule(r), true
	}
	if r, ok := e.rs.RuleByLabel(ruleName); ok {
		return e.indexOfRule(r), true
	}
	if e.rs.Options.FuzzyRuleNameMatching {
		return resolve.FuzzyMatchRule(e.rs, ruleName)
	}
	return 0, false
}
