//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package prompt

var answerPrompt = `You answer questions about bus routes and stops using data retrieved from a graph database.
Each context block starts with the Cypher query that was executed, followed by the rows it returned.
Use only the information in the context. Answer in the language of the question.
If the context is empty or does not contain the answer, say that you could not find the information.

Context:
{{.Context}}

Question: {{.Question}}
Answer:`

// Answer composes the final answer from the retrieved graph data.
var Answer = MustNew("answer_generator", answerPrompt)

// AnswerData fills the Answer template.
type AnswerData struct {
	Question string
	// Context is one "cypher\nrows" block per executed query, newline joined.
	Context string
}

// RenderAnswer renders the Answer prompt.
func RenderAnswer(t *Template, data AnswerData) (string, error) {
	if data.Question == "" {
		return "", ErrEmptyQuestion
	}
	if t == nil {
		t = Answer
	}
	return t.Render(data)
}
