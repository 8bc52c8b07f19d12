//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func transitSchema() *Schema {
	return &Schema{
		NodeProps: map[string][]Property{
			"Stop":  {{Name: "name", Type: "STRING"}, {Name: "lat", Type: "FLOAT"}},
			"Route": {{Name: "name", Type: "STRING"}},
			"User":  {{Name: "id", Type: "STRING"}},
		},
		RelProps: map[string][]Property{
			"HAS_STOP": {{Name: "order", Type: "INTEGER"}},
		},
		Relationships: []Triple{
			{Start: "User", Type: "REQUESTS", End: "Route"},
			{Start: "Route", Type: "HAS_STOP", End: "Stop"},
		},
	}
}

func TestSchema_Format(t *testing.T) {
	want := "Node properties:\n" +
		"Route {name: STRING}\n" +
		"Stop {name: STRING, lat: FLOAT}\n" +
		"User {id: STRING}\n" +
		"Relationship properties:\n" +
		"HAS_STOP {order: INTEGER}\n" +
		"The relationships:\n" +
		"(:Route)-[:HAS_STOP]->(:Stop)\n" +
		"(:User)-[:REQUESTS]->(:Route)"
	assert.Equal(t, want, transitSchema().Format())
}

func TestSchema_FormatExclude(t *testing.T) {
	got := transitSchema().Format(WithExclude("User"))
	assert.NotContains(t, got, "User")
	assert.NotContains(t, got, "REQUESTS")
	assert.Contains(t, got, "(:Route)-[:HAS_STOP]->(:Stop)")
}

func TestSchema_FormatInclude(t *testing.T) {
	got := transitSchema().Format(WithInclude("Route", "Stop"), WithExclude("Stop"))
	assert.Contains(t, got, "Stop {name: STRING, lat: FLOAT}")
	assert.NotContains(t, got, "HAS_STOP {")
	// The relationship type itself is not included.
	assert.NotContains(t, got, "(:Route)-[:HAS_STOP]->(:Stop)")
}

func TestSchema_FormatEmpty(t *testing.T) {
	assert.Equal(t, "Node properties:\nRelationship properties:\nThe relationships:", (&Schema{}).Format())
}

func TestSchema_HasRelationship(t *testing.T) {
	s := transitSchema()
	assert.True(t, s.HasRelationship("Route", "HAS_STOP", "Stop"))
	assert.False(t, s.HasRelationship("Stop", "HAS_STOP", "Route"))
}
