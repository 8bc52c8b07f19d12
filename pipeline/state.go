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
	"encoding/json"
	"strings"

	"trpc.group/trpc-go/trpc-graphqa-go/graphstore"
)

// Node names of the question answering graph.
const (
	NodeText2Cypher        = "text2cypher"
	NodeKnowledgeRetriever = "knowledge_retriever"
	NodeAnswerGenerator    = "answer_generator"
)

// Context is one candidate query and, once executed, its rows.
type Context struct {
	// Query is the entity-resolved Cypher query.
	Query string `json:"query"`
	// Score is the ranking score of Query in [0,1].
	Score float64 `json:"score"`
	// SourceLiterals are the entity literals found in the draft query.
	SourceLiterals []string `json:"source_literals,omitempty"`
	// Replacements[i] is the entity name that replaced SourceLiterals[i].
	Replacements []string `json:"replacements,omitempty"`
	// Rows is filled by the knowledge retriever. Nil means not executed.
	Rows []graphstore.Row `json:"rows,omitempty"`
}

// String renders the context as the query followed by its rows.
func (c *Context) String() string {
	rows := c.Rows
	if rows == nil {
		rows = []graphstore.Row{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return c.Query + "\n[]"
	}
	return c.Query + "\n" + string(b)
}

// State flows through the question answering graph.
type State struct {
	// RequestID correlates log entries of one question.
	RequestID string `json:"request_id"`
	// Question is the user question.
	Question string `json:"question"`
	// Draft is the raw model output of the text2cypher node.
	Draft string `json:"draft,omitempty"`
	// Cypher is the query extracted from Draft.
	Cypher string `json:"cypher,omitempty"`
	// Contexts are the ranked candidate queries, best first.
	Contexts []*Context `json:"contexts,omitempty"`
	// Answer is the generated answer.
	Answer string `json:"answer,omitempty"`
}

// ContextText joins the rendered contexts with newlines.
func (s *State) ContextText() string {
	parts := make([]string, 0, len(s.Contexts))
	for _, c := range s.Contexts {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "\n")
}
