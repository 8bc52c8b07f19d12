//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package pipeline

import (
	"trpc.group/trpc-go/trpc-graphqa-go/prompt"
)

const (
	defaultTemperature = 0.0
	defaultMaxTokens   = 8096
)

type options struct {
	temperature       float64
	maxTokens         int
	maxQueries        int
	text2CypherPrompt *prompt.Template
	answerPrompt      *prompt.Template
	includeTypes      []string
	excludeTypes      []string
}

// Option configures a Pipeline.
type Option func(*options)

// WithTemperature sets the sampling temperature of both model calls.
func WithTemperature(t float64) Option {
	return func(o *options) {
		o.temperature = t
	}
}

// WithMaxTokens sets the generation limit of both model calls.
func WithMaxTokens(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// WithMaxQueries executes only the n best ranked queries. n <= 0 executes
// all of them.
func WithMaxQueries(n int) Option {
	return func(o *options) {
		o.maxQueries = n
	}
}

// WithText2CypherPrompt replaces the query drafting prompt. The template
// receives prompt.Text2CypherData.
func WithText2CypherPrompt(t *prompt.Template) Option {
	return func(o *options) {
		o.text2CypherPrompt = t
	}
}

// WithAnswerPrompt replaces the answer prompt. The template receives
// prompt.AnswerData.
func WithAnswerPrompt(t *prompt.Template) Option {
	return func(o *options) {
		o.answerPrompt = t
	}
}

// WithSchemaTypes restricts the schema shown to the model. include takes
// precedence over exclude.
func WithSchemaTypes(include, exclude []string) Option {
	return func(o *options) {
		o.includeTypes = include
		o.excludeTypes = exclude
	}
}

// AskOption configures a single Ask call.
type AskOption func(*State)

// WithRequestID sets the request ID instead of generating one.
func WithRequestID(id string) AskOption {
	return func(s *State) {
		if id != "" {
			s.RequestID = id
		}
	}
}
