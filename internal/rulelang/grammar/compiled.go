// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package grammar

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/rulelang/rulelang/internal/rulelang/ast"
)

// GrammarSemver is the semver form of ast.GrammarVersion, used for
// forward-compatibility checks when a RuleSet is reconstructed from a
// previously-compiled snapshot rather than re-parsed from source text.
const GrammarSemver = "1.0.0"

// CompiledRuleSet is a serializable snapshot of a parsed RuleSet, stamped
// with the grammar version it was compiled under.
type CompiledRuleSet struct {
	GrammarVersion  string            `json:"grammar_version"`
	Rules           []ast.Rule        `json:"rules"`
	SelectorAliases map[string]string `json:"selector_aliases,omitempty"`
}

// ToCompiled snapshots rs for serialization.
func ToCompiled(rs *ast.RuleSet) CompiledRuleSet {
	return CompiledRuleSet{
		GrammarVersion:  GrammarSemver,
		Rules:           rs.Rules,
		SelectorAliases: rs.SelectorAliases,
	}
}

// FromCompiled reconstructs a RuleSet from a previously-serialized
// CompiledRuleSet. A major version bump between the snapshot's grammar
// version and the running GrammarSemver is rejected as a breaking
// change; a minor or patch bump is accepted, mirroring the teacher's
// GrammarVersion forward-compatibility stance generalized with a real
// semver comparison instead of a bare integer check.
func FromCompiled(data []byte, opts ast.Options) (*ast.RuleSet, error) {
	var compiled CompiledRuleSet
	if err := json.Unmarshal(data, &compiled); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("failed to decode compiled rule set: %v", err)}
	}

	stored, err := semver.NewVersion(compiled.GrammarVersion)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid stored grammar version %q: %v", compiled.GrammarVersion, err)}
	}
	current, err := semver.NewVersion(GrammarSemver)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid running grammar version %q: %v", GrammarSemver, err)}
	}
	if stored.Major() != current.Major() {
		return nil, &ParseError{Message: fmt.Sprintf("compiled rule set grammar version %s is incompatible with running grammar version %s", stored, current)}
	}

	rs := ast.NewRuleSet(opts)
	for _, rule := range compiled.Rules {
		if err := rs.AddRule(rule); err != nil {
			return nil, &ParseError{Message: fmt.Sprintf("failed to rehydrate compiled rule: %v", err)}
		}
	}
	for from, to := range compiled.SelectorAliases {
		rs.MapSelector(from, to)
	}
	return rs, nil
}
