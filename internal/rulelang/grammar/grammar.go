// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

// Package grammar defines the PEG-style rule-language grammar (recognized
// with alecthomas/participle) and the parser that lowers a recognized
// parse tree into an ast.RuleSet.
package grammar

// The canonical grammar text is logically split into four fragments -
// base, rules, conditions, values - concatenated in that order by Source()
// (SPEC_FULL.md §4.11). Recognition itself is driven
// by the participle struct grammar in nodes.go; these fragments are the
// human-readable EBNF counterpart, emitted by Source() for documentation
// and by the "rulelang schema grammar" command.

const baseFragment = `
rule_set    := (WS | comment | rule)*
comment     := "#" text_until("\n")
`

const rulesFragment = `
rule        := rule_header outcome_clause (WS? condition_chain)? "."
rule_header := (label " ")? article " " object_selector
label       := identifier "." " "?
article     := "A" | "An"
outcome_clause := verb_phrase outcome_text
verb_phrase := "gets"|"passes"|"is"|"has"|"receives"|"qualifies for"|"meets"|"satisfies"
outcome_text := text_until("if" | ".")
`

const conditionsFragment = `
condition_chain := "if" condition (condition_operator condition)*
condition_operator := "and" | "or"
condition   := property_condition | rule_reference | label_reference
property_condition := left_access predicate
left_access := length_of_expr | number_of_expr | property_access
length_of_expr := "the length of" property_access
number_of_expr := "the number of" property_access
property_access := ("the"? (property|object_selector) ("of" "the"? (property|object_selector))*)
property    := "__" text "__"
object_selector := "**" text "**"
predicate   := comparison_operator (list_value | property_access | value)
             | empty_operator
comparison_operator := "is greater than or equal to" | "is at least"
             | "is less than or equal to" | "is no more than"
             | "is exactly equal to" | "is equal to" | "is the same as"
             | "is not equal to" | "is not the same as"
             | "is later than" | "is earlier than"
             | "is greater than" | "is less than"
             | "is in" | "is not in" | "contains"
             | "is within" | "is older than" | "is younger than"
empty_operator := "is empty" | "is not empty"
rule_reference  := object_selector verb_phrase reference_name
label_reference := "§" identifier
`

const valuesFragment = `
value       := number | string_literal | date_literal | boolean | duration_literal
date_literal := "date(" YYYY "-" MM "-" DD ")" | YYYY "-" MM "-" DD
duration_literal := number " " time_unit
time_unit   := "second"|"seconds"|"minute"|"minutes"|"hour"|"hours"|"day"|"days"
             |"week"|"weeks"|"month"|"months"|"year"|"years"
             |"decade"|"decades"|"century"|"centuries"
list_value  := "[" value ("," value)* "]"
`

// Source returns the canonical grammar text, built by concatenating the
// four fragments in the fixed order {base, rules, conditions, values}.
func Source() string {
	return baseFragment + rulesFragment + conditionsFragment + valuesFragment
}
