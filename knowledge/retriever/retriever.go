//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package retriever looks up known entity names similar to a text.
// Retriever is the semantic index consulted during query augmentation.
package retriever

import (
	"context"
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-graphqa-go/augment"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/document"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/embedder"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/vectorstore"
)

var _ augment.Index = (*Retriever)(nil)

const defaultTopK = 5

var (
	errEmbedderRequired    = errors.New("retriever: embedder is required")
	errVectorStoreRequired = errors.New("retriever: vector store is required")
)

// Query is a retrieval request.
type Query struct {
	Text string
	// Limit overrides the configured top k when positive.
	Limit int
}

// Result holds retrieved documents, best first.
type Result struct {
	Documents []*vectorstore.ScoredDocument
}

// Retriever embeds a text and searches the vector store with it.
type Retriever struct {
	embedder    embedder.Embedder
	vectorStore vectorstore.VectorStore
	topK        int
	minScore    float64
}

// Option configures the Retriever.
type Option func(*Retriever)

// WithEmbedder sets the embedder.
func WithEmbedder(e embedder.Embedder) Option {
	return func(r *Retriever) {
		r.embedder = e
	}
}

// WithVectorStore sets the vector store.
func WithVectorStore(vs vectorstore.VectorStore) Option {
	return func(r *Retriever) {
		r.vectorStore = vs
	}
}

// WithTopK sets how many matches are returned per text.
func WithTopK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithMinScore drops matches scoring below s.
func WithMinScore(s float64) Option {
	return func(r *Retriever) {
		r.minScore = s
	}
}

// New creates a Retriever.
func New(opts ...Option) (*Retriever, error) {
	r := &Retriever{topK: defaultTopK}
	for _, opt := range opts {
		opt(r)
	}
	if r.embedder == nil {
		return nil, errEmbedderRequired
	}
	if r.vectorStore == nil {
		return nil, errVectorStoreRequired
	}
	return r, nil
}

// Retrieve returns the documents closest to q.Text.
func (r *Retriever) Retrieve(ctx context.Context, q *Query) (*Result, error) {
	if q == nil || q.Text == "" {
		return &Result{}, nil
	}
	vec, err := r.embedder.GetEmbedding(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embed %q: %w", q.Text, err)
	}
	if len(vec) == 0 {
		return &Result{}, nil
	}
	limit := r.topK
	if q.Limit > 0 {
		limit = q.Limit
	}
	res, err := r.vectorStore.Search(ctx, &vectorstore.SearchQuery{
		Vector:   vec,
		Limit:    limit,
		MinScore: r.minScore,
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q.Text, err)
	}
	return &Result{Documents: res.Results}, nil
}

// Search implements augment.Index. The same name indexed under several
// labels is returned once, with its best score.
func (r *Retriever) Search(ctx context.Context, text string) ([]augment.Match, error) {
	res, err := r.Retrieve(ctx, &Query{Text: text})
	if err != nil {
		return nil, err
	}
	matches := make([]augment.Match, 0, len(res.Documents))
	seen := make(map[string]int, len(res.Documents))
	for _, sd := range res.Documents {
		content := contentOf(sd.Document)
		if content == "" {
			continue
		}
		score := sd.Score
		if i, ok := seen[content]; ok {
			if score > *matches[i].Score {
				matches[i].Score = &score
			}
			continue
		}
		seen[content] = len(matches)
		matches = append(matches, augment.Match{Content: content, Score: &score})
	}
	return matches, nil
}

// Close closes the underlying vector store.
func (r *Retriever) Close() error {
	return r.vectorStore.Close()
}

func contentOf(doc *document.Document) string {
	if doc == nil {
		return ""
	}
	return doc.Content
}
