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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCypher(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced with tag",
			in:   "Here you go:\n```cypher \nMATCH (s:Stop {name: \"Bach Khoa\"}) RETURN s\n```\nThanks",
			want: "MATCH (s:Stop {name: \"Bach Khoa\"}) RETURN s",
		},
		{
			name: "fenced without tag",
			in:   "```\nMATCH (n) RETURN n\n```",
			want: "MATCH (n) RETURN n",
		},
		{
			name: "inline fence",
			in:   "```MATCH (n) RETURN n```",
			want: "MATCH (n) RETURN n",
		},
		{
			name: "upper case tag",
			in:   "```Cypher\nRETURN 1\n```",
			want: "RETURN 1",
		},
		{
			name: "first block wins",
			in:   "```cypher\nRETURN 1\n``` and ```cypher\nRETURN 2\n```",
			want: "RETURN 1",
		},
		{
			name: "plain text",
			in:   "  MATCH (r:Route) RETURN r \n",
			want: "MATCH (r:Route) RETURN r",
		},
		{
			name: "tag only",
			in:   "```cypher```",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCypher(tt.in))
		})
	}
}
