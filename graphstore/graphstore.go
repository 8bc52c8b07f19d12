//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package graphstore defines access to the transit knowledge graph.
package graphstore

import (
	"context"
	"errors"
)

// ErrEmptyQuery is returned when a blank query is submitted.
var ErrEmptyQuery = errors.New("graphstore: query is empty")

// Row is one result record keyed by column name. Nodes and relationships
// are flattened to their property maps.
type Row = map[string]any

// Store runs graph queries.
type Store interface {
	// Query runs cypher with params and returns every row.
	Query(ctx context.Context, cypher string, params map[string]any) ([]Row, error)
	// Schema describes the labels, relationship types and properties.
	Schema(ctx context.Context) (*Schema, error)
	// Close releases the connection.
	Close(ctx context.Context) error
}
