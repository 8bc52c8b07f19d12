//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package embedder defines how entity names are turned into vectors.
package embedder

import "context"

// Embedder produces embedding vectors for text.
type Embedder interface {
	// GetEmbedding returns the embedding of text.
	GetEmbedding(ctx context.Context, text string) ([]float64, error)
	// GetDimensions returns the length of every embedding.
	GetDimensions() int
}
