// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package grammar

import "github.com/alecthomas/participle/v2/lexer"

// --- Parse-tree node types (recognized via participle struct tags) ---
//
// Free-text runs (outcome names, rule-reference names) are captured by
// repeated Word tokens; keywords ("if", "and", "or", "the", "of", verb
// phrases, comparison-operator phrases) are distinct literal matches
// resolved against the same Word token type, exactly as the teacher
// resolves 'permit'/'forbid' literals against its Ident token. A free-text
// run stops before the keyword that ends it: "if" for an outcome name,
// "and"/"or" for a rule-reference name.
//
// Disambiguation: a property_access chain's first link is required to be
// a Property ("__x__"), never a bare Selector, so property_condition and
// rule_reference are distinguishable by their first token (Property vs
// Selector) without backtracking. Every concrete form in the surface
// language examples follows this shape.

// File is the top-level parse target: a sequence of rules.
type File struct {
	Pos   lexer.Position `parser:""`
	Rules []*RuleNode    `parser:"@@*"`
}

// VerbPhraseNode matches one of the eight verb-of-becoming phrases.
type VerbPhraseNode struct {
	Pos          lexer.Position `parser:""`
	QualifiesFor bool           `parser:"  (@'qualifies' 'for')"`
	Gets         bool           `parser:"| @'gets'"`
	Passes       bool           `parser:"| @'passes'"`
	Is           bool           `parser:"| @'is'"`
	Has          bool           `parser:"| @'has'"`
	Receives     bool           `parser:"| @'receives'"`
	Meets        bool           `parser:"| @'meets'"`
	Satisfies    bool           `parser:"| @'satisfies'"`
}

// RuleNode is a single rule card.
//
// Grammar: (label ".")? article selector verb_phrase outcome_words
//          ("if" condition_chain)? "."
type RuleNode struct {
	Pos          lexer.Position       `parser:""`
	Label        *string              `parser:"(@Word '.')?"`
	Article      string               `parser:"@('A' | 'An')"`
	Selector     string               `parser:"@Selector"`
	Verb         *VerbPhraseNode      `parser:"@@"`
	OutcomeWords []string             `parser:"((?! 'if') @Word)+"`
	Chain        *ConditionChainNode  `parser:"@@?"`
	Dot          string               `parser:"'.'"`
}

// ConditionChainNode is the "if cond (and|or cond)*" suffix of a rule.
type ConditionChainNode struct {
	Pos   lexer.Position      `parser:""`
	First *ConditionNode      `parser:"'if' @@"`
	Rest  []*ChainedCondition `parser:"@@*"`
}

// ChainedCondition is one "and/or condition" continuation.
type ChainedCondition struct {
	Pos       lexer.Position `parser:""`
	And       bool           `parser:"  @'and'"`
	Or        bool           `parser:"| @'or'"`
	Condition *ConditionNode `parser:"@@"`
}

// ConditionNode is one of a label reference, a rule reference, or a
// property comparison. Ordered choice: label references start with "§",
// rule references start with a bare selector, property comparisons start
// with a property access (see the disambiguation note at the top of this file).
type ConditionNode struct {
	Pos          lexer.Position         `parser:""`
	LabelRef     *LabelReferenceNode    `parser:"  @@"`
	RuleRef      *RuleReferenceNode     `parser:"| @@"`
	PropertyCond *PropertyConditionNode `parser:"| @@"`
}

// LabelReferenceNode is a "§identifier" reference to a labeled rule.
type LabelReferenceNode struct {
	Pos   lexer.Position `parser:""`
	Mark  string         `parser:"@Section"`
	Label string         `parser:"@Word"`
}

// RuleReferenceNode is "**selector** verb_phrase reference_name".
type RuleReferenceNode struct {
	Pos      lexer.Position  `parser:""`
	Selector string          `parser:"@Selector"`
	Verb     *VerbPhraseNode `parser:"@@"`
	Name     []string        `parser:"((?! 'and' | 'or') @Word)+"`
}

// PropertyConditionNode is "left_access predicate".
type PropertyConditionNode struct {
	Pos       lexer.Position  `parser:""`
	Left      *LeftAccessNode `parser:"@@"`
	Predicate *PredicateNode  `parser:"@@"`
}

// LeftAccessNode is length-of, number-of, or a plain property access.
type LeftAccessNode struct {
	Pos      lexer.Position      `parser:""`
	LengthOf *PropertyAccessNode `parser:"  ('the' 'length' 'of' @@)"`
	NumberOf *PropertyAccessNode `parser:"| ('the' 'number' 'of' @@)"`
	Plain    *PropertyAccessNode `parser:"| @@"`
}

// PropertyAccessFirstLink is the first link in a property-access chain;
// it must be a property, never a bare selector (see the disambiguation
// note at the top of this file).
type PropertyAccessFirstLink struct {
	Pos      lexer.Position `parser:""`
	The      bool           `parser:"@'the'?"`
	Property string         `parser:"@Property"`
}

// PropertyAccessOfLink is an "of [the] (property|selector)" continuation.
type PropertyAccessOfLink struct {
	Pos      lexer.Position `parser:""`
	The      bool           `parser:"'of' @'the'?"`
	Property *string        `parser:"( @Property"`
	Selector *string        `parser:"| @Selector )"`
}

// PropertyAccessNode is a chain of property/selector links joined by "of".
// Lowering reads the chain in reverse: the last link is the root selector,
// the first link is the leaf property extracted (see grammar/lower.go).
type PropertyAccessNode struct {
	Pos   lexer.Position          `parser:""`
	First *PropertyAccessFirstLink `parser:"@@"`
	Rest  []*PropertyAccessOfLink  `parser:"@@*"`
}

// OperatorNode matches exactly one comparison-operator phrase. Longer,
// more specific phrases are listed before shorter ones that share a
// prefix, matching spec's own EBNF ordering.
type OperatorNode struct {
	Pos                lexer.Position `parser:""`
	GreaterThanOrEqual bool           `parser:"  ('is' 'greater' 'than' 'or' @'equal' 'to')"`
	AtLeast            bool           `parser:"| ('is' 'at' @'least')"`
	LessThanOrEqual    bool           `parser:"| ('is' 'less' 'than' 'or' @'equal' 'to')"`
	NoMoreThan         bool           `parser:"| ('is' 'no' @'more' 'than')"`
	ExactlyEqualTo     bool           `parser:"| ('is' @'exactly' 'equal' 'to')"`
	NotEqualTo         bool           `parser:"| ('is' 'not' @'equal' 'to')"`
	NotSameAs          bool           `parser:"| ('is' 'not' 'the' @'same' 'as')"`
	EqualTo            bool           `parser:"| ('is' @'equal' 'to')"`
	SameAs             bool           `parser:"| ('is' 'the' @'same' 'as')"`
	LaterThan          bool           `parser:"| ('is' @'later' 'than')"`
	EarlierThan        bool           `parser:"| ('is' @'earlier' 'than')"`
	GreaterThan        bool           `parser:"| ('is' @'greater' 'than')"`
	LessThan           bool           `parser:"| ('is' @'less' 'than')"`
	NotIn              bool           `parser:"| ('is' 'not' @'in')"`
	In                 bool           `parser:"| ('is' @'in')"`
	Contains           bool           `parser:"| @'contains'"`
	Within             bool           `parser:"| ('is' @'within')"`
	OlderThan          bool           `parser:"| ('is' @'older' 'than')"`
	YoungerThan        bool           `parser:"| ('is' @'younger' 'than')"`
	IsNotEmpty         bool           `parser:"| ('is' 'not' @'empty')"`
	IsEmpty            bool           `parser:"| ('is' @'empty')"`
}

// PredicateNode is "comparison_operator operand?" - the operand is absent
// for the empty-check operators, enforced during lowering rather than in
// the grammar (keeps one PredicateNode type for every operator).
type PredicateNode struct {
	Pos             lexer.Position      `parser:""`
	Operator        *OperatorNode       `parser:"@@"`
	List            *ListNode           `parser:"( @@"`
	PropertyOperand *PropertyAccessNode `parser:"| @@"`
	ValueOperand    *ValueNode          `parser:"| @@ )?"`
}

// ListNode is a bracketed list of values.
type ListNode struct {
	Pos    lexer.Position `parser:""`
	Values []*ValueNode   `parser:"'[' @@ (',' @@)* ']'"`
}

// DurationNode is "number time_unit".
type DurationNode struct {
	Pos    lexer.Position `parser:""`
	Amount float64        `parser:"@Number"`
	Unit   string         `parser:"@('second'|'seconds'|'minute'|'minutes'|'hour'|'hours'|'day'|'days'|'week'|'weeks'|'month'|'months'|'year'|'years'|'decade'|'decades'|'century'|'centuries')"`
}

// ValueNode is a typed literal: string, duration, number, wrapped or bare
// ISO date, or boolean. Duration is tried before bare Number so that
// "30 days" is not mis-parsed as the number 30 with "days" left dangling.
type ValueNode struct {
	Pos         lexer.Position `parser:""`
	Str         *string        `parser:"  @String"`
	DurationVal *DurationNode  `parser:"| @@"`
	Number      *float64       `parser:"| @Number"`
	DateWrapped *string        `parser:"| ('date' '(' @Date ')')"`
	Date        *string        `parser:"| @Date"`
	Bool        *string        `parser:"| @('true' | 'false')"`
}
