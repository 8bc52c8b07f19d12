//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package augment

const (
	defaultConcurrency   = 4
	defaultMaxCandidates = 0
)

// Option configures an Augmenter.
type Option func(*options)

type options struct {
	maxCandidates int
	concurrency   int
	passThrough   bool
}

func newOptions(opts ...Option) *options {
	o := &options{
		maxCandidates: defaultMaxCandidates,
		concurrency:   defaultConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMaxCandidates keeps only the n best scored candidates per literal
// before ranking. n <= 0 keeps every candidate the index returns.
func WithMaxCandidates(n int) Option {
	return func(o *options) {
		o.maxCandidates = n
	}
}

// WithConcurrency sets how many index searches may run at the same time.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithPassThrough makes a draft without entity literals yield the draft
// itself as the only result, with score 1.0. By default such a draft yields
// no results.
func WithPassThrough(enabled bool) Option {
	return func(o *options) {
		o.passThrough = enabled
	}
}
