//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Providers.
const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderLexical = "lexical"
)

// DefaultEnvFile is read by Load when it exists.
const DefaultEnvFile = ".env"

// Settings holds every knob of the service.
type Settings struct {
	LLM       LLM
	Embedding Embedding
	Neo4j     Neo4j
	Milvus    Milvus
	Entity    Entity
	Server    Server
	Log       Log
	Telemetry Telemetry
}

// LLM configures the chat model.
type LLM struct {
	Provider      string  `env:"LLM_PROVIDER" envDefault:"gemini"`
	Model         string  `env:"LLM_MODEL" envDefault:"gemma-3-27b-it"`
	Temperature   float64 `env:"LLM_TEMPERATURE" envDefault:"0"`
	MaxTokens     int     `env:"LLM_MAX_TOKENS" envDefault:"8096"`
	GoogleAPIKey  string  `env:"GOOGLE_API_KEY"`
	OpenAIAPIKey  string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string  `env:"OPENAI_BASE_URL"`
}

// Embedding configures the entity name embedder.
type Embedding struct {
	Provider   string `env:"EMBEDDING_PROVIDER" envDefault:"openai"`
	Model      string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	Dimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`
	APIKey     string `env:"EMBEDDING_API_KEY"`
	BaseURL    string `env:"EMBEDDING_BASE_URL"`
}

// Neo4j configures the graph store.
type Neo4j struct {
	URL      string `env:"NEO4J_URL" envDefault:"bolt://localhost:7687"`
	User     string `env:"NEO4J_USER" envDefault:"neo4j"`
	Password string `env:"NEO4J_PWD"`
	Database string `env:"NEO4J_DATABASE" envDefault:"neo4j"`
}

// Milvus configures the entity name index. An empty URI selects the
// in-memory index.
type Milvus struct {
	URI            string `env:"MILVUS_URI"`
	Token          string `env:"MILVUS_TOKEN"`
	CollectionName string `env:"MILVUS_COLLECTION_NAME" envDefault:"entities"`
}

// Entity configures entity resolution.
type Entity struct {
	TopK        int     `env:"ENTITY_TOP_K" envDefault:"5"`
	MinScore    float64 `env:"ENTITY_MIN_SCORE" envDefault:"0"`
	Concurrency int     `env:"RESOLVE_CONCURRENCY" envDefault:"4"`
}

// Server configures the chat front end.
type Server struct {
	Port int `env:"APPLICATION_API_PORT" envDefault:"7860"`
}

// Log configures logging.
type Log struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	File  string `env:"LOG_FILE" envDefault:"data/logs/app.log"`
}

// Telemetry configures tracing. Tracing is off when Endpoint is empty.
type Telemetry struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"trpc-graphqa-go"`
}

// Load reads envFile, when it exists, over the process environment and
// parses the settings. Values in the file win over existing variables.
func Load(envFile string) (*Settings, error) {
	if envFile != "" {
		file, err := filepath.Abs(envFile)
		if err != nil {
			return nil, fmt.Errorf("resolve env file %s: %w", envFile, err)
		}
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Overload(file); err != nil {
				return nil, fmt.Errorf("load env file %s: %w", file, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat env file %s: %w", file, err)
		}
	}
	s := &Settings{}
	if err := env.Parse(s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Validate reports every missing or inconsistent value at once.
func (s *Settings) Validate() error {
	var errs []error
	switch s.LLM.Provider {
	case ProviderGemini:
		if s.LLM.GoogleAPIKey == "" {
			errs = append(errs, errors.New("GOOGLE_API_KEY is required for the gemini provider"))
		}
	case ProviderOpenAI:
		if s.LLM.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", s.LLM.Provider))
	}
	if s.LLM.MaxTokens <= 0 {
		errs = append(errs, errors.New("LLM_MAX_TOKENS must be positive"))
	}
	switch s.Embedding.Provider {
	case ProviderOpenAI:
		if s.Embedding.APIKey == "" && s.LLM.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY or EMBEDDING_API_KEY is required for openai embeddings"))
		}
	case ProviderLexical:
	default:
		errs = append(errs, fmt.Errorf("unknown EMBEDDING_PROVIDER %q", s.Embedding.Provider))
	}
	if s.Embedding.Dimensions <= 0 {
		errs = append(errs, errors.New("EMBEDDING_DIMENSIONS must be positive"))
	}
	if s.Neo4j.URL == "" {
		errs = append(errs, errors.New("NEO4J_URL is required"))
	}
	if s.Entity.TopK <= 0 {
		errs = append(errs, errors.New("ENTITY_TOP_K must be positive"))
	}
	if s.Entity.MinScore < 0 || s.Entity.MinScore > 1 {
		errs = append(errs, errors.New("ENTITY_MIN_SCORE must be within [0, 1]"))
	}
	if s.Entity.Concurrency <= 0 {
		errs = append(errs, errors.New("RESOLVE_CONCURRENCY must be positive"))
	}
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("APPLICATION_API_PORT %d is out of range", s.Server.Port))
	}
	return errors.Join(errs...)
}

// EmbeddingAPIKey returns the key for the embedding endpoint, falling back
// to the OpenAI chat key.
func (s *Settings) EmbeddingAPIKey() string {
	if s.Embedding.APIKey != "" {
		return s.Embedding.APIKey
	}
	return s.LLM.OpenAIAPIKey
}

// EmbeddingBaseURL returns the embedding endpoint, falling back to the
// OpenAI chat endpoint.
func (s *Settings) EmbeddingBaseURL() string {
	if s.Embedding.BaseURL != "" {
		return s.Embedding.BaseURL
	}
	return s.LLM.OpenAIBaseURL
}
