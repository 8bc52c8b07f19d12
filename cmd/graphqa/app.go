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
	"context"
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-graphqa-go/augment"
	"trpc.group/trpc-go/trpc-graphqa-go/config"
	"trpc.group/trpc-go/trpc-graphqa-go/graphstore"
	"trpc.group/trpc-go/trpc-graphqa-go/graphstore/neo4j"
	"trpc.group/trpc-go/trpc-graphqa-go/indexer"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/embedder"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/embedder/lexical"
	openaiembedder "trpc.group/trpc-go/trpc-graphqa-go/knowledge/embedder/openai"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/retriever"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/vectorstore"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/vectorstore/inmemory"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/vectorstore/milvus"
	"trpc.group/trpc-go/trpc-graphqa-go/log"
	"trpc.group/trpc-go/trpc-graphqa-go/model"
	"trpc.group/trpc-go/trpc-graphqa-go/model/gemini"
	"trpc.group/trpc-go/trpc-graphqa-go/model/openai"
	"trpc.group/trpc-go/trpc-graphqa-go/pipeline"
)

// app holds the components built from the settings. Fields stay nil
// when the running command does not need them.
type app struct {
	settings  *config.Settings
	store     graphstore.Store
	embedder  embedder.Embedder
	vectors   vectorstore.VectorStore
	retriever *retriever.Retriever
	augmenter *augment.Augmenter
	model     model.Model
	pipeline  *pipeline.Pipeline
	// ephemeral is set when entity names live only in process memory.
	ephemeral bool
}

// newGraphApp connects the graph and the entity index.
func newGraphApp(ctx context.Context, s *config.Settings) (*app, error) {
	a := &app{settings: s}
	store, err := neo4j.New(ctx,
		neo4j.WithURL(s.Neo4j.URL),
		neo4j.WithBasicAuth(s.Neo4j.User, s.Neo4j.Password),
		neo4j.WithDatabase(s.Neo4j.Database),
	)
	if err != nil {
		return nil, fmt.Errorf("connect neo4j: %w", err)
	}
	a.store = store

	a.embedder = newEmbedder(s)
	if s.Milvus.URI == "" {
		log.Warn("MILVUS_URI is not set, entity names are indexed in memory")
		a.vectors = inmemory.New()
		a.ephemeral = true
	} else {
		vs, err := milvus.New(ctx,
			milvus.WithAddress(s.Milvus.URI),
			milvus.WithToken(s.Milvus.Token),
			milvus.WithCollectionName(s.Milvus.CollectionName),
			milvus.WithDimension(a.embedder.GetDimensions()),
		)
		if err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("connect milvus: %w", err)
		}
		a.vectors = vs
	}

	r, err := retriever.New(
		retriever.WithEmbedder(a.embedder),
		retriever.WithVectorStore(a.vectors),
		retriever.WithTopK(s.Entity.TopK),
		retriever.WithMinScore(s.Entity.MinScore),
	)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.retriever = r

	aug, err := augment.New(r,
		augment.WithMaxCandidates(s.Entity.TopK),
		augment.WithConcurrency(s.Entity.Concurrency),
		augment.WithPassThrough(true),
	)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.augmenter = aug
	return a, nil
}

// newQAApp builds everything newGraphApp does plus the model and the
// question answering pipeline.
func newQAApp(ctx context.Context, s *config.Settings) (*app, error) {
	a, err := newGraphApp(ctx, s)
	if err != nil {
		return nil, err
	}
	m, err := newModel(ctx, s)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.model = m
	p, err := pipeline.New(m, a.store, a.augmenter,
		pipeline.WithTemperature(s.LLM.Temperature),
		pipeline.WithMaxTokens(s.LLM.MaxTokens),
	)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.pipeline = p
	return a, nil
}

func newModel(ctx context.Context, s *config.Settings) (model.Model, error) {
	switch s.LLM.Provider {
	case config.ProviderGemini:
		m, err := gemini.New(ctx, s.LLM.Model, gemini.WithAPIKey(s.LLM.GoogleAPIKey))
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.ProviderOpenAI:
		opts := []openai.Option{openai.WithAPIKey(s.LLM.OpenAIAPIKey)}
		if s.LLM.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(s.LLM.OpenAIBaseURL))
		}
		return openai.New(s.LLM.Model, opts...), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", s.LLM.Provider)
	}
}

func newEmbedder(s *config.Settings) embedder.Embedder {
	if s.Embedding.Provider == config.ProviderLexical {
		return lexical.New(lexical.WithDimensions(s.Embedding.Dimensions))
	}
	opts := []openaiembedder.Option{
		openaiembedder.WithModel(s.Embedding.Model),
		openaiembedder.WithDimensions(s.Embedding.Dimensions),
		openaiembedder.WithAPIKey(s.EmbeddingAPIKey()),
	}
	if url := s.EmbeddingBaseURL(); url != "" {
		opts = append(opts, openaiembedder.WithBaseURL(url))
	}
	return openaiembedder.New(opts...)
}

// index loads the entity names of the graph into the vector store.
func (a *app) index(ctx context.Context) (*indexer.Stats, error) {
	ix, err := indexer.New(a.store, a.embedder, a.vectors,
		indexer.WithConcurrency(a.settings.Entity.Concurrency),
	)
	if err != nil {
		return nil, err
	}
	return ix.Run(ctx)
}

// warmUp fills an in-memory index, which starts empty in every process.
func (a *app) warmUp(ctx context.Context) error {
	if !a.ephemeral {
		return nil
	}
	stats, err := a.index(ctx)
	if err != nil {
		return fmt.Errorf("index entity names: %w", err)
	}
	log.Infof("indexed %d entity names in memory", stats.Indexed)
	return nil
}

func (a *app) close(ctx context.Context) {
	var errs []error
	if a.augmenter != nil {
		a.augmenter.Close()
	}
	if a.retriever != nil {
		errs = append(errs, a.retriever.Close())
	} else if a.vectors != nil {
		errs = append(errs, a.vectors.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		log.Warnf("close: %v", err)
	}
}
