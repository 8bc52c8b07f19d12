//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package metric holds the Prometheus collectors exported by trpc-graphqa-go.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "graphqa"

var (
	// resolutionDuration measures one semantic index lookup for an entity literal.
	// Labels: status (ok, error)
	resolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "entity",
		Name:      "resolution_duration_seconds",
		Help:      "Duration of entity literal resolution against the semantic index",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"status"})

	// candidatesPerLiteral records how many candidates an entity literal resolved to.
	candidatesPerLiteral = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "entity",
		Name:      "candidates",
		Help:      "Number of candidates returned for one entity literal",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
	})

	// augmentCombinations records the size of the ranked combination space per query.
	augmentCombinations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "augment",
		Name:      "combinations",
		Help:      "Number of ranked candidate queries produced per draft query",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
	})

	// stageErrorsTotal counts pipeline stage failures.
	// Labels: stage (text2cypher, knowledge_retriever, answer_generator)
	stageErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "stage_errors_total",
		Help:      "Total pipeline stage failures by stage",
	}, []string{"stage"})

	// stageDuration measures pipeline stage latency.
	// Labels: stage
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Duration of each pipeline stage",
		Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"stage"})
)

// RecordResolution records one entity literal resolution.
func RecordResolution(d time.Duration, candidates int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	resolutionDuration.WithLabelValues(status).Observe(d.Seconds())
	if err == nil {
		candidatesPerLiteral.Observe(float64(candidates))
	}
}

// RecordCombinations records the number of ranked queries produced for one draft.
func RecordCombinations(n int) {
	augmentCombinations.Observe(float64(n))
}

// RecordStage records a pipeline stage execution.
func RecordStage(stage string, d time.Duration, err error) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		stageErrorsTotal.WithLabelValues(stage).Inc()
	}
}

// Handler returns the HTTP handler serving the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
