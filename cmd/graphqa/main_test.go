//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-graphqa-go/augment"
	"trpc.group/trpc-go/trpc-graphqa-go/config"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/embedder/lexical"
	openaiembedder "trpc.group/trpc-go/trpc-graphqa-go/knowledge/embedder/openai"
	"trpc.group/trpc-go/trpc-graphqa-go/model/gemini"
	"trpc.group/trpc-go/trpc-graphqa-go/model/openai"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "ask", "index", "augment"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("env-file"))
}

func TestRootCmd_InvalidSettings(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "bogus")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	for _, args := range [][]string{
		{"index"},
		{"ask", "which", "routes?"},
		{"augment", "MATCH (s:Stop {name: 'x'}) RETURN s"},
		{"serve"},
	} {
		t.Run(args[0], func(t *testing.T) {
			root := newRootCmd()
			root.SetArgs(append([]string{"--env-file", "", "--no-log-file"}, args...))
			root.SetOut(&bytes.Buffer{})
			err := root.ExecuteContext(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid settings")
			assert.Contains(t, err.Error(), "LLM_PROVIDER")
		})
	}
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"--env-file", "", "--no-log-file", "ask"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	err := root.ExecuteContext(context.Background())
	assert.Error(t, err)
}

func TestSettingsFrom_NotLoaded(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := settingsFrom(cmd)
	assert.Error(t, err)
}

func TestPrintRanked(t *testing.T) {
	var buf bytes.Buffer
	printRanked(&buf, []*augment.RankedQuery{{
		Query:          "MATCH (s:Stop {name: \"Bach Khoa\"}) RETURN s",
		Score:          0.9,
		SourceLiterals: []string{"bach khoa"},
		Replacements:   []string{"Bach Khoa"},
	}})
	out := buf.String()
	assert.Contains(t, out, "#1 score=0.9000")
	assert.Contains(t, out, "\"bach khoa\" -> \"Bach Khoa\"")
	assert.True(t, strings.HasSuffix(out, "RETURN s\n"))

	buf.Reset()
	printRanked(&buf, nil)
	assert.Equal(t, "no entity-resolved queries\n", buf.String())
}

func TestNewEmbedder(t *testing.T) {
	s := &config.Settings{}
	s.Embedding.Provider = config.ProviderLexical
	s.Embedding.Dimensions = 32
	e := newEmbedder(s)
	require.IsType(t, &lexical.Embedder{}, e)
	assert.Equal(t, 32, e.GetDimensions())

	s.Embedding.Provider = config.ProviderOpenAI
	s.Embedding.Model = "text-embedding-3-small"
	s.LLM.OpenAIAPIKey = "sk-test"
	assert.IsType(t, &openaiembedder.Embedder{}, newEmbedder(s))
}

func TestNewModel(t *testing.T) {
	ctx := context.Background()
	s := &config.Settings{}
	s.LLM.Provider = config.ProviderOpenAI
	s.LLM.Model = "gpt-4o-mini"
	s.LLM.OpenAIAPIKey = "sk-test"
	m, err := newModel(ctx, s)
	require.NoError(t, err)
	assert.IsType(t, &openai.Model{}, m)
	assert.Equal(t, "gpt-4o-mini", m.Info().Name)

	s.LLM.Provider = config.ProviderGemini
	s.LLM.Model = "gemma-3-27b-it"
	s.LLM.GoogleAPIKey = "g-test"
	m, err = newModel(ctx, s)
	require.NoError(t, err)
	assert.IsType(t, &gemini.Model{}, m)

	s.LLM.Provider = "bogus"
	_, err = newModel(ctx, s)
	assert.Error(t, err)
}
