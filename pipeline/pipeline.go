//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package pipeline answers questions over the transit graph. A question
// flows through three nodes: text2cypher drafts a Cypher query and resolves
// its entity literals, knowledge_retriever runs the candidate queries and
// answer_generator composes the answer from the returned rows.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-graphqa-go/augment"
	"trpc.group/trpc-go/trpc-graphqa-go/graph"
	"trpc.group/trpc-go/trpc-graphqa-go/graphstore"
	"trpc.group/trpc-go/trpc-graphqa-go/log"
	"trpc.group/trpc-go/trpc-graphqa-go/model"
)

var (
	// ErrEmptyQuestion is returned by Ask for a blank question.
	ErrEmptyQuestion = errors.New("question is empty")

	errModelRequired     = errors.New("model is required")
	errStoreRequired     = errors.New("graph store is required")
	errAugmenterRequired = errors.New("augmenter is required")
)

// Augmenter resolves the entity literals of a draft query.
type Augmenter interface {
	Augment(ctx context.Context, draft string) ([]*augment.RankedQuery, error)
}

// Pipeline is the compiled question answering graph.
type Pipeline struct {
	model     model.Model
	store     graphstore.Store
	augmenter Augmenter
	opts      options
	executor  *graph.Executor[*State]

	schemaMu sync.Mutex
	schema   string
}

// New builds the pipeline. The augmenter should be created with
// augment.WithPassThrough(true) so drafts without entity literals are
// executed as written.
func New(m model.Model, store graphstore.Store, augmenter Augmenter, opts ...Option) (*Pipeline, error) {
	switch {
	case m == nil:
		return nil, errModelRequired
	case store == nil:
		return nil, errStoreRequired
	case augmenter == nil:
		return nil, errAugmenterRequired
	}
	o := options{temperature: defaultTemperature, maxTokens: defaultMaxTokens}
	for _, opt := range opts {
		opt(&o)
	}
	p := &Pipeline{model: m, store: store, augmenter: augmenter, opts: o}

	g, err := graph.NewStateGraph[*State]().
		AddNode(NodeText2Cypher, p.text2Cypher,
			graph.WithDescription("draft a Cypher query and resolve its entities")).
		AddNode(NodeKnowledgeRetriever, p.retrieveKnowledge,
			graph.WithDescription("run the candidate queries against the graph")).
		AddNode(NodeAnswerGenerator, p.generateAnswer,
			graph.WithDescription("answer the question from the graph rows")).
		AddEdge(NodeText2Cypher, NodeKnowledgeRetriever).
		AddEdge(NodeKnowledgeRetriever, NodeAnswerGenerator).
		SetEntryPoint(NodeText2Cypher).
		SetFinishPoint(NodeAnswerGenerator).
		Compile()
	if err != nil {
		return nil, err
	}
	p.executor, err = graph.NewExecutor(g)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Ask answers question. A failing node is reported as a *graph.StageError
// and the returned state then holds what was produced before that node,
// never a partial answer.
func (p *Pipeline) Ask(ctx context.Context, question string, opts ...AskOption) (*State, error) {
	state := &State{Question: strings.TrimSpace(question)}
	for _, opt := range opts {
		opt(state)
	}
	if state.RequestID == "" {
		state.RequestID = uuid.NewString()
	}
	if state.Question == "" {
		return state, ErrEmptyQuestion
	}
	log.InfofContext(ctx, "request %s: question %q", state.RequestID, state.Question)
	out, err := p.executor.Invoke(ctx, state)
	if err != nil {
		log.ErrorfContext(ctx, "request %s: %v", state.RequestID, err)
		out.Answer = ""
		return out, err
	}
	return out, nil
}

// RefreshSchema reloads the graph schema shown to the model.
func (p *Pipeline) RefreshSchema(ctx context.Context) (string, error) {
	schema, err := p.store.Schema(ctx)
	if err != nil {
		return "", err
	}
	text := schema.Format(graphstore.WithInclude(p.opts.includeTypes...), graphstore.WithExclude(p.opts.excludeTypes...))
	p.schemaMu.Lock()
	p.schema = text
	p.schemaMu.Unlock()
	return text, nil
}

func (p *Pipeline) graphSchema(ctx context.Context) (string, error) {
	p.schemaMu.Lock()
	schema := p.schema
	p.schemaMu.Unlock()
	if schema != "" {
		return schema, nil
	}
	return p.RefreshSchema(ctx)
}

func (p *Pipeline) generate(ctx context.Context, text string) (string, error) {
	rsp, err := p.model.GenerateContent(ctx, &model.Request{
		Messages: []model.Message{model.NewUserMessage(text)},
		GenerationConfig: model.GenerationConfig{
			Temperature: model.Float64Ptr(p.opts.temperature),
			MaxTokens:   model.IntPtr(p.opts.maxTokens),
		},
	})
	if err != nil {
		return "", err
	}
	return rsp.Content, nil
}
