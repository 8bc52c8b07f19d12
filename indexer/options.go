//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package indexer

const (
	defaultConcurrency = 8
	defaultSource      = "neo4j"
)

// DefaultLabels are the node labels whose names are indexed.
var DefaultLabels = []string{"Route", "Stop"}

type options struct {
	labels      []string
	concurrency int
	source      string
}

// Option configures an Indexer.
type Option func(*options)

// WithLabels sets the node labels to index.
func WithLabels(labels ...string) Option {
	return func(o *options) {
		if len(labels) > 0 {
			o.labels = labels
		}
	}
}

// WithConcurrency sets how many names are embedded at the same time.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithSource sets the source recorded in document metadata.
func WithSource(source string) Option {
	return func(o *options) {
		o.source = source
	}
}
