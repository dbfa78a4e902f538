// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package grammar

import (
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/rulelang/rulelang/internal/names"
	"github.com/rulelang/rulelang/internal/rulelang/ast"
	"github.com/rulelang/rulelang/pkg/value"
)

// LowerError is a structural problem found while lowering a recognized
// parse tree into an ast.RuleSet (as opposed to a raw grammar failure).
type LowerError struct {
	Pos     lexer.Position
	Message string
}

func (e *LowerError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func pos(p lexer.Position) *ast.SourcePosition {
	return &ast.SourcePosition{Line: p.Line, Start: p.Offset, End: p.Offset}
}

func stripMarkers(s string, n int) string {
	if len(s) < 2*n {
		return s
	}
	return s[n : len(s)-n]
}

// stripSelector removes the "**...**" markers from a recognized selector token.
func stripSelector(s string) string { return strings.TrimSpace(stripMarkers(s, 2)) }

// stripProperty removes the "__...__" markers from a recognized property token.
func stripProperty(s string) string { return strings.TrimSpace(stripMarkers(s, 2)) }

// lowerFile converts a recognized File into an ast.RuleSet.
func lowerFile(f *File, opts ast.Options) (*ast.RuleSet, error) {
	rs := ast.NewRuleSet(opts)
	maxDepth := opts.EffectiveMaxNestingDepth()
	for _, rn := range f.Rules {
		rule, err := lowerRule(rn, maxDepth)
		if err != nil {
			return nil, err
		}
		if err := rs.AddRule(*rule); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

func lowerRule(rn *RuleNode, maxDepth int) (*ast.Rule, error) {
	if rn.Label != nil && strings.TrimSpace(*rn.Label) == "" {
		return nil, &LowerError{Pos: rn.Pos, Message: "empty labels are not allowed"}
	}

	selector := stripSelector(rn.Selector)
	outcome := strings.Join(rn.OutcomeWords, " ")

	var groups []ast.ConditionGroup
	if rn.Chain != nil {
		first, err := lowerCondition(rn.Chain.First)
		if err != nil {
			return nil, err
		}
		groups = append(groups, ast.ConditionGroup{Condition: *first})
		for _, cc := range rn.Chain.Rest {
			cond, err := lowerCondition(cc.Condition)
			if err != nil {
				return nil, err
			}
			op := ast.And
			if cc.Or {
				op = ast.Or
			}
			groups = append(groups, ast.ConditionGroup{Condition: *cond, Operator: &op})
		}
	}

	if len(groups) > maxDepth {
		return nil, &LowerError{Pos: rn.Pos, Message: fmt.Sprintf("rule chains %d conditions, exceeding the maximum of %d", len(groups), maxDepth)}
	}

	return &ast.Rule{
		Label:      rn.Label,
		Selector:   ast.Positioned[string]{Value: selector, Pos: pos(rn.Pos)},
		Outcome:    ast.Positioned[string]{Value: outcome, Pos: pos(rn.Pos)},
		Conditions: groups,
		Position:   pos(rn.Pos),
	}, nil
}

func lowerCondition(cn *ConditionNode) (*ast.Condition, error) {
	switch {
	case cn.LabelRef != nil:
		return &ast.Condition{RuleReference: &ast.RuleReferenceCondition{
			Pos:      pos(cn.LabelRef.Pos),
			Selector: ast.Positioned[string]{Value: ""},
			RuleName: ast.Positioned[string]{Value: cn.LabelRef.Label, Pos: pos(cn.LabelRef.Pos)},
		}}, nil
	case cn.RuleRef != nil:
		name := strings.Join(cn.RuleRef.Name, " ")
		return &ast.Condition{RuleReference: &ast.RuleReferenceCondition{
			Pos:      pos(cn.RuleRef.Pos),
			Selector: ast.Positioned[string]{Value: stripSelector(cn.RuleRef.Selector), Pos: pos(cn.RuleRef.Pos)},
			RuleName: ast.Positioned[string]{Value: name, Pos: pos(cn.RuleRef.Pos)},
		}}, nil
	case cn.PropertyCond != nil:
		return lowerPropertyCondition(cn.PropertyCond)
	default:
		return nil, &LowerError{Pos: cn.Pos, Message: "empty condition"}
	}
}

func lowerPropertyCondition(pc *PropertyConditionNode) (*ast.Condition, error) {
	leftPath, err := lowerLeftAccess(pc.Left)
	if err != nil {
		return nil, err
	}

	op, needsOperand, err := lowerOperator(pc.Predicate.Operator)
	if err != nil {
		return nil, err
	}

	comp := &ast.ComparisonCondition{
		Pos:      pos(pc.Pos),
		Selector: leftPath.Selector,
		Property: lastProperty(leftPath),
		LeftPath: leftPath,
		Operator: op,
	}

	switch {
	case pc.Predicate.List != nil:
		if !needsOperand {
			return nil, &LowerError{Pos: pc.Predicate.Pos, Message: "operator does not take an operand"}
		}
		vals := make([]value.Value, 0, len(pc.Predicate.List.Values))
		for _, vn := range pc.Predicate.List.Values {
			v, err := lowerValue(vn)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		comp.Value = ast.Positioned[value.Value]{Value: value.List(vals), Pos: pos(pc.Predicate.List.Pos)}
	case pc.Predicate.PropertyOperand != nil:
		if !needsOperand {
			return nil, &LowerError{Pos: pc.Predicate.Pos, Message: "operator does not take an operand"}
		}
		rightPath, err := lowerPropertyAccess(pc.Predicate.PropertyOperand)
		if err != nil {
			return nil, err
		}
		comp.RightPath = rightPath
	case pc.Predicate.ValueOperand != nil:
		if !needsOperand {
			return nil, &LowerError{Pos: pc.Predicate.Pos, Message: "operator does not take an operand"}
		}
		v, err := lowerValue(pc.Predicate.ValueOperand)
		if err != nil {
			return nil, err
		}
		comp.Value = ast.Positioned[value.Value]{Value: v, Pos: pos(pc.Predicate.ValueOperand.Pos)}
	default:
		if needsOperand {
			return nil, &LowerError{Pos: pc.Predicate.Pos, Message: "comparison operator requires an operand"}
		}
	}

	return &ast.Condition{Comparison: comp}, nil
}

func lastProperty(p *ast.PropertyPath) ast.Positioned[string] {
	if p == nil || len(p.Properties) == 0 {
		return ast.Positioned[string]{}
	}
	return ast.Positioned[string]{Value: p.Properties[len(p.Properties)-1]}
}

func lowerLeftAccess(la *LeftAccessNode) (*ast.PropertyPath, error) {
	switch {
	case la.LengthOf != nil:
		p, err := lowerPropertyAccess(la.LengthOf)
		if err != nil {
			return nil, err
		}
		p.Sentinel = ast.SentinelLengthOf
		return p, nil
	case la.NumberOf != nil:
		p, err := lowerPropertyAccess(la.NumberOf)
		if err != nil {
			return nil, err
		}
		p.Sentinel = ast.SentinelNumberOf
		return p, nil
	case la.Plain != nil:
		return lowerPropertyAccess(la.Plain)
	default:
		return nil, &LowerError{Pos: la.Pos, Message: "empty property access"}
	}
}

// accessLink is either a property or a selector link in a property-access
// chain, in the order they were written.
type accessLink struct {
	pos        lexer.Position
	isSelector bool
	text       string
}

// lowerPropertyAccess implements the critical right-to-left lowering rule
// (SPEC_FULL §4.3 / spec §4.3): reading the "of"-chain written left to
// right, the reverse order is the traversal order. The root is the first
// object selector encountered scanning right to left; every other link,
// in that same right-to-left order, becomes a path segment, with the
// chain's leftmost (first-written) link ending up last in the path -
// the property ultimately extracted.
func lowerPropertyAccess(pa *PropertyAccessNode) (*ast.PropertyPath, error) {
	links := make([]accessLink, 0, 1+len(pa.Rest))
	links = append(links, accessLink{pos: pa.First.Pos, isSelector: false, text: stripProperty(pa.First.Property)})
	for _, of := range pa.Rest {
		if of.Selector != nil {
			links = append(links, accessLink{pos: of.Pos, isSelector: true, text: stripSelector(*of.Selector)})
		} else {
			links = append(links, accessLink{pos: of.Pos, isSelector: false, text: stripProperty(*of.Property)})
		}
	}

	// Reverse.
	reversed := make([]accessLink, len(links))
	for i, l := range links {
		reversed[len(links)-1-i] = l
	}

	rootIdx := -1
	for i, l := range reversed {
		if l.isSelector {
			rootIdx = i
			break
		}
	}

	var selector ast.Positioned[string]
	var properties []string
	if rootIdx == -1 {
		for _, l := range reversed {
			properties = append(properties, names.TransformProperty(l.text))
		}
	} else {
		selector = ast.Positioned[string]{Value: reversed[rootIdx].text, Pos: pos(reversed[rootIdx].pos)}
		for i, l := range reversed {
			if i == rootIdx {
				continue
			}
			properties = append(properties, names.TransformProperty(l.text))
		}
	}

	return &ast.PropertyPath{Selector: selector, Properties: properties}, nil
}

func lowerOperator(op *OperatorNode) (ast.Operator, bool, error) {
	switch {
	case op.GreaterThanOrEqual:
		return ast.GreaterThanOrEqual, true, nil
	case op.AtLeast:
		return ast.GreaterThanOrEqual, true, nil
	case op.LessThanOrEqual:
		return ast.LessThanOrEqual, true, nil
	case op.NoMoreThan:
		return ast.LessThanOrEqual, true, nil
	case op.ExactlyEqualTo:
		return ast.ExactlyEqualTo, true, nil
	case op.NotEqualTo:
		return ast.NotEqualTo, true, nil
	case op.NotSameAs:
		return ast.NotSameAs, true, nil
	case op.EqualTo:
		return ast.EqualTo, true, nil
	case op.SameAs:
		return ast.SameAs, true, nil
	case op.LaterThan:
		return ast.LaterThan, true, nil
	case op.EarlierThan:
		return ast.EarlierThan, true, nil
	case op.GreaterThan:
		return ast.GreaterThan, true, nil
	case op.LessThan:
		return ast.LessThan, true, nil
	case op.NotIn:
		return ast.NotIn, true, nil
	case op.In:
		return ast.In, true, nil
	case op.Contains:
		return ast.Contains, true, nil
	case op.Within:
		return ast.Within, true, nil
	case op.OlderThan:
		return ast.LaterThan, true, nil // "older than" is chronological precedence over a date, same rule as later_than
	case op.YoungerThan:
		return ast.EarlierThan, true, nil
	case op.IsNotEmpty:
		return ast.IsNotEmpty, false, nil
	case op.IsEmpty:
		return ast.IsEmpty, false, nil
	default:
		return 0, false, &LowerError{Pos: op.Pos, Message: "unrecognized comparison operator"}
	}
}

func lowerValue(vn *ValueNode) (value.Value, error) {
	switch {
	case vn.Str != nil:
		return value.String(*vn.Str), nil
	case vn.DurationVal != nil:
		unit, ok := value.ParseTimeUnit(vn.DurationVal.Unit)
		if !ok {
			return value.Value{}, &LowerError{Pos: vn.DurationVal.Pos, Message: "unrecognized time unit: " + vn.DurationVal.Unit}
		}
		return value.DurationValue(value.Duration{Amount: vn.DurationVal.Amount, Unit: unit}), nil
	case vn.Number != nil:
		return value.Number(*vn.Number), nil
	case vn.DateWrapped != nil:
		t, err := time.Parse("2006-01-02", *vn.DateWrapped)
		if err != nil {
			return value.Value{}, &LowerError{Pos: vn.Pos, Message: "malformed date literal: " + *vn.DateWrapped}
		}
		return value.Date(t), nil
	case vn.Date != nil:
		t, err := time.Parse("2006-01-02", *vn.Date)
		if err != nil {
			return value.Value{}, &LowerError{Pos: vn.Pos, Message: "malformed date literal: " + *vn.Date}
		}
		return value.Date(t), nil
	case vn.Bool != nil:
		return value.Boolean(*vn.Bool == "true"), nil
	default:
		return value.Value{}, &LowerError{Pos: vn.Pos, Message: "empty value"}
	}
}
