// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

// Package names normalizes surface identifiers (multi-word, camelCase,
// snake_case, mixed case) to a canonical comparable form.
package names

import (
	"strings"
	"unicode"
)

// Canonical lowercases ASCII and splits on whitespace, underscore, and
// camelCase boundaries (a lower→upper transition), then rejoins the
// tokens space-separated. It is a pure function with no locale dependence.
func Canonical(name string) string {
	tokens := Tokenize(name)
	return strings.Join(tokens, " ")
}

// Tokenize splits a surface identifier into its lowercased word tokens.
func Tokenize(name string) []string {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == ' ' || r == '_' || r == '-':
			flush()
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]) && runes[i-1] != ' ' && runes[i-1] != '_' && runes[i-1] != '-':
			// lower→upper camelCase boundary
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// Match reports whether two surface names are equivalent once canonicalized.
func Match(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

// TransformProperty renders canonical tokens as a camelCase JSON property
// name: "first name" -> "firstName".
func TransformProperty(name string) string {
	return camelJoin(Tokenize(name))
}

// TransformSelector lowercases the first token and camelCase-joins the
// rest, used as resolve.FindEffectiveSelector's exact-match guess for a
// multi-word selector before it falls back to a full canonical scan of
// the data document's keys.
func TransformSelector(name string) string {
	return camelJoin(Tokenize(name))
}

func camelJoin(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(tokens[0])
	for _, t := range tokens[1:] {
		if t == "" {
			continue
		}
		b.WriteString(strings.ToUpper(t[:1]))
		b.WriteString(t[1:])
	}
	return b.String()
}
