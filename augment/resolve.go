//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package augment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/trace"
)

// defaultScore is used for matches the index did not score.
const defaultScore = 1.0

// Match is one near-match returned by an Index.
type Match struct {
	// Content is the entity name as stored in the index.
	Content string
	// Score is the similarity in [0, 1]. Nil means the index gave no score.
	Score *float64
}

// Index is the semantic index of known entity names.
// Search must return an empty slice, not an error, when nothing matches.
type Index interface {
	Search(ctx context.Context, text string) ([]Match, error)
}

// IndexFunc adapts a function to the Index interface.
type IndexFunc func(ctx context.Context, text string) ([]Match, error)

// Search implements Index.
func (f IndexFunc) Search(ctx context.Context, text string) ([]Match, error) {
	return f(ctx, text)
}

// Candidate is one scored resolution of an entity literal.
type Candidate struct {
	Content string
	Score   float64
}

// Resolver resolves entity literals against an Index.
type Resolver struct {
	index         Index
	maxCandidates int
}

// NewResolver creates a Resolver. maxCandidates <= 0 keeps every match.
func NewResolver(index Index, maxCandidates int) *Resolver {
	return &Resolver{index: index, maxCandidates: maxCandidates}
}

// Resolve returns the candidates for literal in index order.
// Index failures are wrapped with ErrResolution and never retried.
func (r *Resolver) Resolve(ctx context.Context, literal string) (candidates []Candidate, err error) {
	ctx, span := trace.Tracer.Start(ctx, "augment.resolve",
		oteltrace.WithAttributes(attribute.String("graphqa.entity.literal", literal)))
	start := time.Now()
	defer func() {
		metric.RecordResolution(time.Since(start), len(candidates), err)
		span.SetAttributes(attribute.Int("graphqa.entity.candidates", len(candidates)))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	matches, err := r.index.Search(ctx, literal)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	candidates = make([]Candidate, 0, len(matches))
	for _, m := range matches {
		score := defaultScore
		if m.Score != nil {
			score = *m.Score
		}
		candidates = append(candidates, Candidate{Content: m.Content, Score: score})
	}
	return topCandidates(candidates, r.maxCandidates), nil
}

// topCandidates keeps the n best scored candidates without changing their
// relative order. Equal scores favour the earlier candidate.
func topCandidates(candidates []Candidate, n int) []Candidate {
	if n <= 0 || len(candidates) <= n {
		return candidates
	}
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return candidates[order[i]].Score > candidates[order[j]].Score
	})
	keep := order[:n]
	sort.Ints(keep)
	out := make([]Candidate, 0, n)
	for _, i := range keep {
		out = append(out, candidates[i])
	}
	return out
}
