// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package grammar

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/samber/oops"
	"golang.org/x/crypto/blake2b"

	"github.com/rulelang/rulelang/internal/rulelang/ast"
	"github.com/rulelang/rulelang/internal/rulelang/resolve"
)

// parser is the singleton participle parser instance for the rule
// language. Rule texts are short, so full backtracking (MaxLookahead) is
// not a performance concern - it is what lets alternatives that share a
// leading token (the many "is ..." operator phrases, an optional label
// before the article, "the length of" versus "the __property__") be tried
// in order without a hand-rolled disambiguation pass.
var parser *participle.Parser[File]

func init() {
	var err error
	parser, err = participle.Build[File](
		participle.Lexer(ruleLexer),
		participle.Unquote("String"),
		participle.UseLookahead(participle.MaxLookahead),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to build rule-language parser: %v", err))
	}
}

// ParseError wraps a syntax or post-parse validation failure with context.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*ast.RuleSet)
)

func cacheKey(input string, opts ast.Options) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%d:%v:%s", ast.GrammarVersion, opts, input)))
	return hex.EncodeToString(sum[:])
}

// Parse drives the PEG parser over input, lowers the parse tree into an
// ast.RuleSet, and validates that the set has a unique global rule.
// Identical (input, opts) pairs are served from an in-process cache keyed
// by a blake2b-256 digest, since ASTs are immutable once built.
func Parse(input string, opts ast.Options) (*ast.RuleSet, error) {
	key := cacheKey(input, opts)

	cacheMu.RLock()
	if rs, ok := cache[key]; ok {
		cacheMu.RUnlock()
		return rs, nil
	}
	cacheMu.RUnlock()

	file, err := parser.ParseString("", input)
	if err != nil {
		return nil, &ParseError{Message: oops.Wrapf(err, "parsing rule text").Error()}
	}

	rs, err := lowerFile(file, opts)
	if err != nil {
		return nil, &ParseError{Message: err.Error()}
	}

	if _, err := resolve.GlobalRule(rs); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}

	cacheMu.Lock()
	cache[key] = rs
	cacheMu.Unlock()

	return rs, nil
}
