// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package eval_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

func TestEvaluator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rule Evaluator Suite")
}
