//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package vectorstore defines storage and similarity search over entity
// name embeddings.
package vectorstore

import (
	"context"
	"math"

	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/document"
)

// VectorStore stores documents with their embeddings.
type VectorStore interface {
	// Add stores doc with its embedding.
	Add(ctx context.Context, doc *document.Document, embedding []float64) error
	// Search returns the documents closest to query.Vector, best first.
	Search(ctx context.Context, query *SearchQuery) (*SearchResult, error)
	// Count returns how many documents are stored.
	Count(ctx context.Context) (int, error)
	// Close releases the store.
	Close() error
}

// SearchQuery is a similarity search request.
type SearchQuery struct {
	// Vector is the query embedding.
	Vector []float64
	// Limit caps the result count. Zero means the store default.
	Limit int
	// MinScore drops results scoring below it.
	MinScore float64
}

// SearchResult holds the results of a search, best first.
type SearchResult struct {
	Results []*ScoredDocument
}

// ScoredDocument is a document with its similarity in [0, 1].
type ScoredDocument struct {
	Document *document.Document
	Score    float64
}

// MetricType names the distance a store ranks with.
type MetricType int

// Supported metrics.
const (
	MetricCosine MetricType = iota
	MetricIP
	MetricL2
)

// NormalizeScore maps a raw metric value to [0, 1], higher meaning closer.
func NormalizeScore(raw float64, metric MetricType) float64 {
	switch metric {
	case MetricL2:
		if raw < 0 {
			raw = 0
		}
		return 1 / (1 + raw)
	default:
		return clamp01((raw + 1) / 2)
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
