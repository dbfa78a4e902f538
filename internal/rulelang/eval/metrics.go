// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rulelang Contributors

package eval

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EvaluationDuration records wall-clock time spent inside Evaluate,
	// labeled by whether the call succeeded.
	EvaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rulelang",
		Subsystem: "evaluator",
		Name:      "evaluation_duration_seconds",
		Help:      "Time spent evaluating a rule set against a data document.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	// EvaluationErrors counts evaluation failures by error kind.
	EvaluationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rulelang",
		Subsystem: "evaluator",
		Name:      "evaluation_errors_total",
		Help:      "Count of evaluation failures, by error kind.",
	}, []string{"kind"})
)
