//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides a brute force VectorStore kept in process memory.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/document"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/vectorstore"
)

var _ vectorstore.VectorStore = (*VectorStore)(nil)

const defaultMaxResults = 10

var (
	errDocumentRequired   = errors.New("inmemory document is required")
	errDocumentIDRequired = errors.New("inmemory document ID is required")
	errQueryRequired      = errors.New("inmemory query vector is required")
)

type entry struct {
	doc       *document.Document
	embedding []float64
	norm      float64
}

// VectorStore ranks every stored document by cosine similarity.
// Documents with equal scores keep insertion order.
type VectorStore struct {
	mu         sync.RWMutex
	entries    []*entry
	byID       map[string]int
	maxResults int
}

// Option configures the VectorStore.
type Option func(*VectorStore)

// WithMaxResults sets the result cap used when a query has no limit.
func WithMaxResults(n int) Option {
	return func(vs *VectorStore) {
		if n > 0 {
			vs.maxResults = n
		}
	}
}

// New creates an empty VectorStore.
func New(opts ...Option) *VectorStore {
	vs := &VectorStore{
		byID:       make(map[string]int),
		maxResults: defaultMaxResults,
	}
	for _, opt := range opts {
		opt(vs)
	}
	return vs
}

// Add implements vectorstore.VectorStore. Adding an existing ID replaces the
// document in place.
func (vs *VectorStore) Add(_ context.Context, doc *document.Document, embedding []float64) error {
	if doc == nil {
		return errDocumentRequired
	}
	if doc.ID == "" {
		return errDocumentIDRequired
	}
	if len(embedding) == 0 {
		return fmt.Errorf("inmemory embedding is required for %s", doc.ID)
	}

	vs.mu.Lock()
	defer vs.mu.Unlock()
	if len(vs.entries) > 0 && len(vs.entries[0].embedding) != len(embedding) {
		return fmt.Errorf("inmemory embedding dimension mismatch: expected %d, got %d",
			len(vs.entries[0].embedding), len(embedding))
	}

	now := time.Now()
	stored := doc.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	e := &entry{
		doc:       stored,
		embedding: append([]float64(nil), embedding...),
		norm:      l2(embedding),
	}
	if i, ok := vs.byID[doc.ID]; ok {
		vs.entries[i] = e
		return nil
	}
	vs.byID[doc.ID] = len(vs.entries)
	vs.entries = append(vs.entries, e)
	return nil
}

// Search implements vectorstore.VectorStore.
func (vs *VectorStore) Search(_ context.Context, query *vectorstore.SearchQuery) (*vectorstore.SearchResult, error) {
	if query == nil || len(query.Vector) == 0 {
		return nil, errQueryRequired
	}
	limit := query.Limit
	if limit <= 0 {
		limit = vs.maxResults
	}
	qNorm := l2(query.Vector)

	vs.mu.RLock()
	defer vs.mu.RUnlock()
	results := make([]*vectorstore.ScoredDocument, 0, len(vs.entries))
	for _, e := range vs.entries {
		if len(e.embedding) != len(query.Vector) {
			return nil, fmt.Errorf("inmemory query dimension mismatch: expected %d, got %d",
				len(e.embedding), len(query.Vector))
		}
		score := vectorstore.NormalizeScore(cosine(query.Vector, qNorm, e.embedding, e.norm), vectorstore.MetricCosine)
		if score < query.MinScore {
			continue
		}
		results = append(results, &vectorstore.ScoredDocument{Document: e.doc.Clone(), Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return &vectorstore.SearchResult{Results: results}, nil
}

// Count implements vectorstore.VectorStore.
func (vs *VectorStore) Count(context.Context) (int, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.entries), nil
}

// Close implements vectorstore.VectorStore.
func (vs *VectorStore) Close() error {
	return nil
}

func l2(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func cosine(a []float64, aNorm float64, b []float64, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (aNorm * bNorm)
}
