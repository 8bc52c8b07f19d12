//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package indexer loads entity names from the graph into the vector store
// used for entity resolution.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-graphqa-go/graphstore"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/document"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/embedder"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/vectorstore"
	"trpc.group/trpc-go/trpc-graphqa-go/log"
)

var (
	errStoreRequired       = errors.New("graph store is required")
	errEmbedderRequired    = errors.New("embedder is required")
	errVectorStoreRequired = errors.New("vector store is required")

	plainLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Stats reports the outcome of a run.
type Stats struct {
	// Read is the number of rows returned by the graph.
	Read int
	// Skipped counts rows without a usable name and duplicates.
	Skipped int
	// Indexed counts documents written to the vector store.
	Indexed int
	// Failed counts names that could not be embedded or stored.
	Failed int
	// Duration is the wall time of the run.
	Duration time.Duration
}

// Indexer copies entity names from the graph into the vector store.
type Indexer struct {
	store       graphstore.Store
	embedder    embedder.Embedder
	vectorStore vectorstore.VectorStore
	opts        options
}

// New creates an Indexer.
func New(store graphstore.Store, emb embedder.Embedder, vs vectorstore.VectorStore, opts ...Option) (*Indexer, error) {
	switch {
	case store == nil:
		return nil, errStoreRequired
	case emb == nil:
		return nil, errEmbedderRequired
	case vs == nil:
		return nil, errVectorStoreRequired
	}
	o := options{
		labels:      DefaultLabels,
		concurrency: defaultConcurrency,
		source:      defaultSource,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Indexer{store: store, embedder: emb, vectorStore: vs, opts: o}, nil
}

// Query returns the Cypher statement reading the entity names.
func (ix *Indexer) Query() string {
	conds := make([]string, 0, len(ix.opts.labels))
	for _, l := range ix.opts.labels {
		conds = append(conds, "n:"+quoteLabel(l))
	}
	return "MATCH (n)\nWHERE " + strings.Join(conds, " OR ") +
		"\nRETURN DISTINCT n.name AS name, head(labels(n)) AS label"
}

// entity is one name to index.
type entity struct {
	name  string
	label string
}

// Run reads every entity name and stores its embedding. Names that fail are
// counted and reported together in the returned error; the others are still
// indexed.
func (ix *Indexer) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}
	rows, err := ix.store.Query(ctx, ix.Query(), nil)
	if err != nil {
		return stats, fmt.Errorf("read entity names: %w", err)
	}
	stats.Read = len(rows)

	entities := make([]entity, 0, len(rows))
	seen := make(map[entity]bool, len(rows))
	for _, row := range rows {
		name, _ := row["name"].(string)
		name = strings.TrimSpace(name)
		label, _ := row["label"].(string)
		e := entity{name: name, label: label}
		if name == "" || seen[e] {
			stats.Skipped++
			continue
		}
		seen[e] = true
		entities = append(entities, e)
	}
	log.Infof("indexing %d entity names (%d rows, %d skipped)", len(entities), stats.Read, stats.Skipped)

	errs := ix.indexAll(ctx, entities)
	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	stats.Failed = len(failed)
	stats.Indexed = len(entities) - stats.Failed
	stats.Duration = time.Since(start)
	log.Infof("indexed %d entity names in %s, %d failed", stats.Indexed, stats.Duration, stats.Failed)
	if len(failed) > 0 {
		return stats, errors.Join(failed...)
	}
	return stats, nil
}

// indexAll embeds and stores entities on a worker pool. errs[i] belongs to
// entities[i].
func (ix *Indexer) indexAll(ctx context.Context, entities []entity) []error {
	errs := make([]error, len(entities))
	if len(entities) == 0 {
		return errs
	}
	pool, err := createIndexPool(ix.opts.concurrency)
	if err != nil {
		for i := range errs {
			errs[i] = err
		}
		return errs
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, e := range entities {
		param := indexParamPool.Get().(*indexParam)
		param.idx = i
		param.ctx = ctx
		param.entity = e
		param.indexer = ix
		param.errs = errs
		param.wg = &wg
		wg.Add(1)
		if err := pool.Invoke(param); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit %q: %w", e.name, err)
			param.reset()
			indexParamPool.Put(param)
		}
	}
	wg.Wait()
	return errs
}

func (ix *Indexer) indexOne(ctx context.Context, e entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	vec, err := ix.embedder.GetEmbedding(ctx, e.name)
	if err != nil {
		return fmt.Errorf("embed %q: %w", e.name, err)
	}
	now := time.Now()
	doc := &document.Document{
		ID:      documentID(e),
		Name:    e.label,
		Content: e.name,
		Metadata: map[string]any{
			document.MetaLabel:  e.label,
			document.MetaSource: ix.opts.source,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ix.vectorStore.Add(ctx, doc, vec); err != nil {
		return fmt.Errorf("store %q: %w", e.name, err)
	}
	return nil
}

// documentID is stable per label and name, so re-indexing replaces
// documents in stores that upsert by ID.
func documentID(e entity) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(e.label+"\x00"+e.name)).String()
}

func quoteLabel(l string) string {
	if plainLabel.MatchString(l) {
		return l
	}
	return "`" + strings.ReplaceAll(l, "`", "``") + "`"
}

type indexParam struct {
	idx     int
	ctx     context.Context
	entity  entity
	indexer *Indexer
	errs    []error
	wg      *sync.WaitGroup
}

func (p *indexParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.entity = entity{}
	p.indexer = nil
	p.errs = nil
	p.wg = nil
}

var indexParamPool = &sync.Pool{
	New: func() any { return new(indexParam) },
}

func createIndexPool(size int) (*ants.PoolWithFunc, error) {
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*indexParam)
		if !ok {
			panic("index pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			indexParamPool.Put(param)
		}()
		param.errs[param.idx] = param.indexer.indexOne(param.ctx, param.entity)
	})
	if err != nil {
		return nil, fmt.Errorf("create index pool: %w", err)
	}
	return pool, nil
}
