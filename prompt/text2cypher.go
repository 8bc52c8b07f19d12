//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package prompt

const fence = "```"

var text2CypherPrompt = `Task: Generate Cypher statement to query a graph database.
Instructions:
Use only the provided relationship types and properties in the schema.
Do not use any other relationship types or properties that are not provided.
Schema:
{{.Schema}}
Note: Do not include any explanations or apologies in your responses.
Do not respond to any questions that might ask anything else than for you to construct a Cypher statement.
Do not include any text except the generated Cypher statement.
Do not use ** WHERE ** command in your cypher.

Let's consider examples:

Question: Tìm điểm dừng xe gần nhà tôi nhất (Đại học bách khoa Hà Nội)?
Output:
` + fence + `cypher
MATCH (u:User)-[:REQUESTS]->(r:Route)
MATCH (r)-[:HAS_STOP]->(s:Stop {name: "Đại học bách khoa Hà Nội"})
RETURN r
` + fence + `

Now, generate cypher query for the following question:
Question: {{.Question}}
Output:`

// Text2Cypher asks the model for a single Cypher statement.
var Text2Cypher = MustNew("text2cypher", text2CypherPrompt)

// Text2CypherData fills the Text2Cypher template.
type Text2CypherData struct {
	// Schema is the formatted graph schema.
	Schema string
	// Question is the user question.
	Question string
}

// RenderText2Cypher renders the Text2Cypher prompt.
func RenderText2Cypher(t *Template, data Text2CypherData) (string, error) {
	if data.Question == "" {
		return "", ErrEmptyQuestion
	}
	if t == nil {
		t = Text2Cypher
	}
	return t.Render(data)
}
