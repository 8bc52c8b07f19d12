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
	"context"
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-graphqa-go/graph"
	"trpc.group/trpc-go/trpc-graphqa-go/log"
	"trpc.group/trpc-go/trpc-graphqa-go/prompt"
)

var errNoCypher = errors.New("model returned no cypher")

// text2Cypher drafts a query for the question and turns it into ranked,
// entity-resolved contexts.
func (p *Pipeline) text2Cypher(ctx context.Context, s *State) (*State, error) {
	schema, err := p.graphSchema(ctx)
	if err != nil {
		return s, graph.NewStageError(NodeText2Cypher, "cannot read graph schema", err)
	}
	text, err := prompt.RenderText2Cypher(p.opts.text2CypherPrompt, prompt.Text2CypherData{
		Schema:   schema,
		Question: s.Question,
	})
	if err != nil {
		return s, graph.NewStageError(NodeText2Cypher, "cannot generate cypher", err)
	}
	draft, err := p.generate(ctx, text)
	if err != nil {
		return s, graph.NewStageError(NodeText2Cypher, "cannot generate cypher", err)
	}
	s.Draft = draft
	s.Cypher = ExtractCypher(draft)
	if s.Cypher == "" {
		return s, graph.NewStageError(NodeText2Cypher, "cannot generate cypher", errNoCypher)
	}
	log.InfofContext(ctx, "request %s: cypher %q", s.RequestID, s.Cypher)

	ranked, err := p.augmenter.Augment(ctx, s.Cypher)
	if err != nil {
		return s, graph.NewStageError(NodeText2Cypher, "cannot link entities", err)
	}
	if len(ranked) == 0 {
		log.WarnfContext(ctx, "request %s: no entity-resolved query for %q", s.RequestID, s.Cypher)
	}
	if n := p.opts.maxQueries; n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	s.Contexts = make([]*Context, 0, len(ranked))
	for _, rq := range ranked {
		s.Contexts = append(s.Contexts, &Context{
			Query:          rq.Query,
			Score:          rq.Score,
			SourceLiterals: rq.SourceLiterals,
			Replacements:   rq.Replacements,
		})
	}
	return s, nil
}

// retrieveKnowledge runs every context query. One failing query fails the
// node.
func (p *Pipeline) retrieveKnowledge(ctx context.Context, s *State) (*State, error) {
	if len(s.Contexts) == 0 {
		log.InfofContext(ctx, "request %s: no context to run cypher query", s.RequestID)
		return s, nil
	}
	for i, c := range s.Contexts {
		rows, err := p.store.Query(ctx, c.Query, nil)
		if err != nil {
			return s, graph.NewStageError(NodeKnowledgeRetriever,
				fmt.Sprintf("cannot retrieve graph data for query %d", i+1), err)
		}
		c.Rows = rows
		log.DebugfContext(ctx, "request %s: query %d returned %d rows", s.RequestID, i+1, len(rows))
	}
	return s, nil
}

// generateAnswer composes the answer from the question and the contexts.
func (p *Pipeline) generateAnswer(ctx context.Context, s *State) (*State, error) {
	text, err := prompt.RenderAnswer(p.opts.answerPrompt, prompt.AnswerData{
		Question: s.Question,
		Context:  s.ContextText(),
	})
	if err != nil {
		return s, graph.NewStageError(NodeAnswerGenerator, "cannot generate answer", err)
	}
	answer, err := p.generate(ctx, text)
	if err != nil {
		return s, graph.NewStageError(NodeAnswerGenerator, "cannot generate answer", err)
	}
	s.Answer = answer
	return s, nil
}
