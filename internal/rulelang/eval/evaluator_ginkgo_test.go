// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package eval_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/rulelang/rulelang/internal/clock"
	"github.com/rulelang/rulelang/internal/rulelang/ast"
	"github.com/rulelang/rulelang/internal/rulelang/eval"
	"github.com/rulelang/rulelang/internal/rulelang/grammar"
)

func evaluate(ruleText, dataJSON string) (map[string]bool, error) {
	rs, err := grammar.Parse(ruleText, ast.DefaultOptions())
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
		return nil, err
	}
	results, _, err := eval.New(rs, data, clock.Real{}).Evaluate()
	return results, err
}

var _ = Describe("Rule evaluation", func() {
	When("the rule's subject is missing from the data document", func() {
		It("treats the condition as false rather than erroring", func() {
			results, err := evaluate(
				`A **Person** gets discount if __age__ of **Person** is greater than or equal to 65.`,
				`{}`,
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(results["discount"]).To(BeFalse())
		})
	})

	When("a rule reference falls through to property inference", func() {
		It("uses the inferred property's truthiness", func() {
			results, err := evaluate(
				`A **Applicant** gets approved if **Applicant** qualifies for background check.`,
				`{"Applicant":{"backgroundCheckPassed":true}}`,
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(results["approved"]).To(BeTrue())
		})
	})

	When("a cross-object comparison needs property-name normalization", func() {
		It("still matches across camelCase and snake_case forms", func() {
			results, err := evaluate(
				`A **user** is eligible if __age__ of **user** is greater than __min_age__ of **config**.`,
				`{"user":{"age":25},"config":{"minAge":18}}`,
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(results["eligible"]).To(BeTrue())
		})
	})
})
