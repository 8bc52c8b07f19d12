//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settingKeys = []string{
	"LLM_PROVIDER", "LLM_MODEL", "LLM_TEMPERATURE", "LLM_MAX_TOKENS",
	"GOOGLE_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL",
	"EMBEDDING_PROVIDER", "EMBEDDING_MODEL", "EMBEDDING_DIMENSIONS",
	"EMBEDDING_API_KEY", "EMBEDDING_BASE_URL",
	"NEO4J_URL", "NEO4J_USER", "NEO4J_PWD", "NEO4J_DATABASE",
	"MILVUS_URI", "MILVUS_TOKEN", "MILVUS_COLLECTION_NAME",
	"ENTITY_TOP_K", "ENTITY_MIN_SCORE", "RESOLVE_CONCURRENCY",
	"APPLICATION_API_PORT", "LOG_LEVEL", "LOG_FILE",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME",
}

// clearEnv unsets every setting for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range settingKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, s.LLM.Provider)
	assert.Equal(t, "gemma-3-27b-it", s.LLM.Model)
	assert.Equal(t, 0.0, s.LLM.Temperature)
	assert.Equal(t, 8096, s.LLM.MaxTokens)
	assert.Equal(t, ProviderOpenAI, s.Embedding.Provider)
	assert.Equal(t, 5, s.Entity.TopK)
	assert.Equal(t, 4, s.Entity.Concurrency)
	assert.Equal(t, 7860, s.Server.Port)
	assert.Equal(t, "data/logs/app.log", s.Log.File)
	assert.Equal(t, "entities", s.Milvus.CollectionName)
}

func TestLoad_EnvFileOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_MODEL", "from-process")

	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	content := "LLM_MODEL=gemini-2.0-flash\nENTITY_TOP_K=3\nNEO4J_PWD=secret\nAPPLICATION_API_PORT=8080\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	s, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", s.LLM.Model)
	assert.Equal(t, 3, s.Entity.TopK)
	assert.Equal(t, "secret", s.Neo4j.Password)
	assert.Equal(t, 8080, s.Server.Port)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	s, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, 7860, s.Server.Port)
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENTITY_TOP_K", "many")
	_, err := Load("")
	assert.Error(t, err)
}

func TestSettings_Validate(t *testing.T) {
	clearEnv(t)
	valid := func() *Settings {
		s, err := Load("")
		require.NoError(t, err)
		s.LLM.GoogleAPIKey = "g"
		s.LLM.OpenAIAPIKey = "o"
		return s
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr []string
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{
			name:    "missing google key",
			mutate:  func(s *Settings) { s.LLM.GoogleAPIKey = "" },
			wantErr: []string{"GOOGLE_API_KEY"},
		},
		{
			name: "openai without key",
			mutate: func(s *Settings) {
				s.LLM.Provider = ProviderOpenAI
				s.LLM.OpenAIAPIKey = ""
			},
			wantErr: []string{"OPENAI_API_KEY is required for the openai provider", "openai embeddings"},
		},
		{
			name: "lexical embeddings need no key",
			mutate: func(s *Settings) {
				s.Embedding.Provider = ProviderLexical
				s.LLM.OpenAIAPIKey = ""
			},
		},
		{
			name: "several problems joined",
			mutate: func(s *Settings) {
				s.Entity.TopK = 0
				s.Entity.MinScore = 2
				s.Server.Port = 70000
				s.Embedding.Provider = "bert"
			},
			wantErr: []string{"ENTITY_TOP_K", "ENTITY_MIN_SCORE", "APPLICATION_API_PORT", "EMBEDDING_PROVIDER"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestSettings_EmbeddingFallbacks(t *testing.T) {
	s := &Settings{}
	s.LLM.OpenAIAPIKey = "chat-key"
	s.LLM.OpenAIBaseURL = "http://chat"
	assert.Equal(t, "chat-key", s.EmbeddingAPIKey())
	assert.Equal(t, "http://chat", s.EmbeddingBaseURL())

	s.Embedding.APIKey = "embed-key"
	s.Embedding.BaseURL = "http://embed"
	assert.Equal(t, "embed-key", s.EmbeddingAPIKey())
	assert.Equal(t, "http://embed", s.EmbeddingBaseURL())
}
