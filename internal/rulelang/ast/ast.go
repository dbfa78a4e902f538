// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

// Package ast defines the rule-language AST: rules, condition trees, and
// the indexed RuleSet the parser produces and the evaluator consumes.
// Nodes are built by the parser and are immutable thereafter; the only
// mutable state is the RuleSet's lazily-filled lookup caches.
package ast

import (
	"sync"

	"github.com/rulelang/rulelang/pkg/value"
)

// GrammarVersion is the current version of the rule-language grammar.
// A RuleSet rebuilt from a previously compiled AST checks this against
// Masterminds/semver compatibility rules (see internal/rulelang/grammar).
const GrammarVersion = 1

// SourcePosition is a 1-based line with byte start/end offsets, attached
// to every significant lexical unit: rule header, selector, property,
// operator, value, rule-name reference.
type SourcePosition struct {
	Line  int `json:"line"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Positioned pairs a value with its optional source position.
type Positioned[T any] struct {
	Value T               `json:"value"`
	Pos   *SourcePosition `json:"pos,omitempty"`
}

// ConditionOperator composes ConditionGroup entries.
type ConditionOperator int

const (
	And ConditionOperator = iota
	Or
)

func (o ConditionOperator) String() string {
	if o == Or {
		return "or"
	}
	return "and"
}

// Operator is a comparison-engine predicate, see internal/rulelang/compare.
type Operator int

const (
	GreaterThan Operator = iota
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual
	EqualTo
	NotEqualTo
	SameAs
	NotSameAs
	ExactlyEqualTo
	LaterThan
	EarlierThan
	In
	NotIn
	Contains
	IsEmpty
	IsNotEmpty
	Within
)

var operatorNames = map[Operator]string{
	GreaterThan:        "greater_than",
	GreaterThanOrEqual: "greater_than_or_equal",
	LessThan:           "less_than",
	LessThanOrEqual:    "less_than_or_equal",
	EqualTo:            "equal_to",
	NotEqualTo:         "not_equal_to",
	SameAs:             "same_as",
	NotSameAs:          "not_same_as",
	ExactlyEqualTo:     "exactly_equal_to",
	LaterThan:          "later_than",
	EarlierThan:        "earlier_than",
	In:                 "in",
	NotIn:              "not_in",
	Contains:           "contains",
	IsEmpty:            "is_empty",
	IsNotEmpty:         "is_not_empty",
	Within:             "within",
}

func (o Operator) String() string { return operatorNames[o] }

// NeedsOperand reports whether the operator takes a right-hand value
// (everything but the empty-check operators).
func (o Operator) NeedsOperand() bool {
	return o != IsEmpty && o != IsNotEmpty
}

// PropertyPath is the lowered form of a property-access chain: a root
// selector plus a sequence of property names to walk, with an optional
// trailing sentinel ("__length_of__"/"__number_of__") marking an
// aggregate operation.
type PropertyPath struct {
	Selector   Positioned[string]
	Properties []string
	Sentinel   string // "", "__length_of__", or "__number_of__"
}

const (
	SentinelLengthOf = "__length_of__"
	SentinelNumberOf = "__number_of__"
)

// ComparisonCondition is a (left, operator, right) triple. The left side
// is always a property access; the right side is either a literal Value
// or another property access (cross-object/chained comparison).
type ComparisonCondition struct {
	Pos *SourcePosition

	Selector Positioned[string]
	Property Positioned[string]

	// LeftPath/RightPath model cross-object or deep chained access,
	// resolving the selector/property interleaving the surface form
	// leaves ambiguous (lowerPropertyAccess's right-to-left rule). When
	// LeftPath is set it supersedes Selector/Property for evaluation.
	LeftPath  *PropertyPath
	RightPath *PropertyPath

	Operator Operator
	Value    Positioned[value.Value]
}

// RuleReferenceCondition references another rule by selector+name or, when
// Selector is empty, by label (surface form "§label").
type RuleReferenceCondition struct {
	Pos      *SourcePosition
	Selector Positioned[string]
	RuleName Positioned[string]
}

// IsLabelReference reports whether this is a "§label" reference rather
// than a selector-qualified rule reference.
func (r RuleReferenceCondition) IsLabelReference() bool {
	return r.Selector.Value == ""
}

// Condition is a tagged union: exactly one of Comparison/RuleReference is set.
type Condition struct {
	Comparison    *ComparisonCondition
	RuleReference *RuleReferenceCondition
}

// ConditionGroup pairs a condition with the operator joining it to the
// previous group; the first group in a chain has no operator.
type ConditionGroup struct {
	Condition Condition
	Operator  *ConditionOperator
}

// Rule is a single rule card: an optional label, the subject selector,
// the outcome it confers, and its condition chain.
type Rule struct {
	Label      *string
	Selector   Positioned[string]
	Outcome    Positioned[string]
	Conditions []ConditionGroup
	Position   *SourcePosition
}

// Options gates the evaluator's opt-in behaviors (see spec Open Questions).
type Options struct {
	// AllowFreeTextFallback enables the "neither rule nor property found
	// -> true" fallback described in spec.md; default false (fail closed).
	AllowFreeTextFallback bool
	// FuzzyRuleNameMatching gates rule-reference fuzzy matching; when
	// false, only exact outcome/label matches resolve a reference.
	FuzzyRuleNameMatching bool
	// ListContainsCaseInsensitive controls whether "contains" on a list
	// compares string elements case-insensitively, matching equal_to.
	ListContainsCaseInsensitive bool
	// MaxNestingDepth caps the number of and/or-joined condition groups a
	// single rule may chain, mirroring the teacher's MaxNestingDepth guard
	// against pathologically complex expressions; 0 means DefaultMaxNestingDepth.
	MaxNestingDepth int
}

// DefaultMaxNestingDepth is the condition-chain length limit applied when
// Options.MaxNestingDepth is left at zero, matching the teacher's
// policy/dsl.MaxNestingDepth constant.
const DefaultMaxNestingDepth = 32

// EffectiveMaxNestingDepth returns o.MaxNestingDepth, defaulting to
// DefaultMaxNestingDepth when unset.
func (o Options) EffectiveMaxNestingDepth() int {
	if o.MaxNestingDepth <= 0 {
		return DefaultMaxNestingDepth
	}
	return o.MaxNestingDepth
}

// DefaultOptions mirrors the posture chosen in SPEC_FULL.md §4.14-4.15:
// fuzzy matching and case-insensitive list-contains are on (readability
// affordances), the free-text-true fallback is off (fail closed).
func DefaultOptions() Options {
	return Options{
		AllowFreeTextFallback:       false,
		FuzzyRuleNameMatching:       true,
		ListContainsCaseInsensitive: true,
		MaxNestingDepth:             DefaultMaxNestingDepth,
	}
}

// cache holds the lazily-filled, single-writer/multi-reader lookup tables
// a RuleSet accumulates during evaluation. Entries are pure functions of
// RuleSet contents, so cache misses simply recompute; no invalidation
// protocol is needed (mirrors the teacher's PerformanceCache design).
type cache struct {
	mu               sync.RWMutex
	fuzzyRuleMatch   map[string]int // ruleName -> rule index, or -1 for "no match" memoized
	propertyCandidate map[string][]string
}

func newCache() *cache {
	return &cache{
		fuzzyRuleMatch:    make(map[string]int),
		propertyCandidate: make(map[string][]string),
	}
}

func (c *cache) getFuzzy(name string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.fuzzyRuleMatch[name]
	return idx, ok
}

func (c *cache) putFuzzy(name string, idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fuzzyRuleMatch[name] = idx
}

func (c *cache) getCandidates(name string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.propertyCandidate[name]
	return v, ok
}

func (c *cache) putCandidates(name string, v []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.propertyCandidate[name] = v
}

// RuleSet is the parser's output: an ordered list of rules plus indexes
// by outcome and by label, and selector aliases declared for the set.
type RuleSet struct {
	Rules           []Rule
	SelectorAliases map[string]string
	Options         Options

	byOutcome map[string]int
	byLabel   map[string]int
	cache     *cache
}

// NewRuleSet constructs an empty RuleSet ready for AddRule calls.
func NewRuleSet(opts Options) *RuleSet {
	return &RuleSet{
		SelectorAliases: make(map[string]string),
		Options:         opts,
		byOutcome:       make(map[string]int),
		byLabel:         make(map[string]int),
		cache:           newCache(),
	}
}

// AddRule appends a rule, enforcing invariants I1 (unique outcome) and
// I2 (unique label).
func (rs *RuleSet) AddRule(r Rule) error {
	outcomeKey := canonicalOutcomeKey(r.Outcome.Value)
	if _, exists := rs.byOutcome[outcomeKey]; exists {
		return &DuplicateOutcomeError{Outcome: r.Outcome.Value}
	}
	if r.Label != nil {
		if _, exists := rs.byLabel[*r.Label]; exists {
			return &DuplicateLabelError{Label: *r.Label}
		}
	}
	idx := len(rs.Rules)
	rs.Rules = append(rs.Rules, r)
	rs.byOutcome[outcomeKey] = idx
	if r.Label != nil {
		rs.byLabel[*r.Label] = idx
	}
	return nil
}

// RuleByOutcome returns the rule conferring the given outcome, if any.
func (rs *RuleSet) RuleByOutcome(outcome string) (*Rule, bool) {
	idx, ok := rs.byOutcome[canonicalOutcomeKey(outcome)]
	if !ok {
		return nil, false
	}
	return &rs.Rules[idx], true
}

// RuleByLabel returns the rule with the given label, if any.
func (rs *RuleSet) RuleByLabel(label string) (*Rule, bool) {
	idx, ok := rs.byLabel[label]
	if !ok {
		return nil, false
	}
	return &rs.Rules[idx], true
}

// MapSelector declares that surface selector "from" resolves to JSON key
// "to" (e.g. "driver" -> "person").
func (rs *RuleSet) MapSelector(from, to string) {
	rs.SelectorAliases[from] = to
}

// ResolveSelector applies any declared alias, returning the surface
// selector unchanged when no alias is registered.
func (rs *RuleSet) ResolveSelector(surface string) string {
	if mapped, ok := rs.SelectorAliases[surface]; ok {
		return mapped
	}
	return surface
}

func canonicalOutcomeKey(outcome string) string {
	return outcome
}

// CacheFuzzyMatch and CachedFuzzyMatch expose the RuleSet's memoized
// fuzzy-rule-name resolution to the evaluator (internal/rulelang/eval),
// keeping the cache's locking private to this package.
func (rs *RuleSet) CachedFuzzyMatch(name string) (int, bool) {
	return rs.cache.getFuzzy(name)
}

func (rs *RuleSet) CacheFuzzyMatch(name string, ruleIdx int) {
	rs.cache.putFuzzy(name, ruleIdx)
}

func (rs *RuleSet) CachedPropertyCandidates(name string) ([]string, bool) {
	return rs.cache.getCandidates(name)
}

func (rs *RuleSet) CachePropertyCandidates(name string, candidates []string) {
	rs.cache.putCandidates(name, candidates)
}

// DuplicateOutcomeError violates invariant I1.
type DuplicateOutcomeError struct{ Outcome string }

func (e *DuplicateOutcomeError) Error() string {
	return "duplicate outcome: " + e.Outcome
}

// DuplicateLabelError violates invariant I2.
type DuplicateLabelError struct{ Label string }

func (e *DuplicateLabelError) Error() string {
	return "duplicate label: " + e.Label
}
