// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package grammar

import "github.com/alecthomas/participle/v2/lexer"

// ruleLexer defines the token types for the rule language. Order matters:
// a rule is tried in declaration order and the first to match at the
// current position wins, so more specific patterns (dates before bare
// numbers, bold/underscore markers before generic words) must precede
// their more general neighbors.
var ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "Date", Pattern: `[0-9]{4}-[0-9]{2}-[0-9]{2}`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Property", Pattern: `__.+?__`},
	{Name: "Selector", Pattern: `\*\*.+?\*\*`},
	{Name: "Section", Pattern: `§`},
	{Name: "Punct", Pattern: `[(),.\[\]]`},
	{Name: "Word", Pattern: `[A-Za-z][A-Za-z0-9_]*`},
	{Name: "whitespace", Pattern: `\s+`},
})
