//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package indexer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-graphqa-go/graphstore"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/document"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/embedder/lexical"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/retriever"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/vectorstore/inmemory"
)

type fakeStore struct {
	rows  []graphstore.Row
	err   error
	query string
}

func (f *fakeStore) Query(_ context.Context, cypher string, _ map[string]any) ([]graphstore.Row, error) {
	f.query = cypher
	return f.rows, f.err
}

func (f *fakeStore) Schema(context.Context) (*graphstore.Schema, error) { return &graphstore.Schema{}, nil }

func (f *fakeStore) Close(context.Context) error { return nil }

type failingEmbedder struct {
	fail string
	mu   sync.Mutex
	seen []string
}

func (f *failingEmbedder) GetEmbedding(_ context.Context, text string) ([]float64, error) {
	f.mu.Lock()
	f.seen = append(f.seen, text)
	f.mu.Unlock()
	if text == f.fail {
		return nil, errors.New("rate limited")
	}
	return []float64{1, 0}, nil
}

func (f *failingEmbedder) GetDimensions() int { return 2 }

func transitRows() []graphstore.Row {
	return []graphstore.Row{
		{"name": "Đại học Bách Khoa Hà Nội", "label": "Stop"},
		{"name": "Bến xe Giáp Bát", "label": "Stop"},
		{"name": "03", "label": "Route"},
		{"name": "", "label": "Stop"},
		{"name": nil, "label": "Stop"},
		{"name": "Bến xe Giáp Bát", "label": "Stop"},
		{"name": "Bến xe Giáp Bát", "label": "Route"},
	}
}

func TestQuery(t *testing.T) {
	ix, err := New(&fakeStore{}, lexical.New(), inmemory.New())
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n)\nWHERE n:Route OR n:Stop\nRETURN DISTINCT n.name AS name, head(labels(n)) AS label", ix.Query())

	ix, err = New(&fakeStore{}, lexical.New(), inmemory.New(), WithLabels("Bus Stop", "Line`X"))
	require.NoError(t, err)
	assert.Contains(t, ix.Query(), "WHERE n:`Bus Stop` OR n:`Line``X`\n")
}

func TestRunIndexesNames(t *testing.T) {
	store := &fakeStore{rows: transitRows()}
	vs := inmemory.New()
	ix, err := New(store, lexical.New(), vs, WithConcurrency(2))
	require.NoError(t, err)

	stats, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Read)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 4, stats.Indexed)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, ix.Query(), store.query)

	n, err := vs.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestRunIsIdempotent(t *testing.T) {
	store := &fakeStore{rows: transitRows()}
	vs := inmemory.New()
	ix, err := New(store, lexical.New(), vs)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := ix.Run(context.Background())
		require.NoError(t, err)
	}
	n, err := vs.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestIndexedNamesAreSearchable(t *testing.T) {
	emb := lexical.New()
	vs := inmemory.New()
	ix, err := New(&fakeStore{rows: transitRows()}, emb, vs)
	require.NoError(t, err)
	_, err = ix.Run(context.Background())
	require.NoError(t, err)

	r, err := retriever.New(retriever.WithEmbedder(emb), retriever.WithVectorStore(vs), retriever.WithTopK(3))
	require.NoError(t, err)
	matches, err := r.Search(context.Background(), "dai hoc bach khoa")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Đại học Bách Khoa Hà Nội", matches[0].Content)

	res, err := r.Retrieve(context.Background(), &retriever.Query{Text: "Đại học Bách Khoa Hà Nội"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Documents)
	doc := res.Documents[0].Document
	assert.Equal(t, "Stop", doc.Name)
	assert.Equal(t, "Stop", doc.Metadata[document.MetaLabel])
	assert.Equal(t, "neo4j", doc.Metadata[document.MetaSource])
}

func TestRunReportsFailures(t *testing.T) {
	emb := &failingEmbedder{fail: "03"}
	vs := inmemory.New()
	ix, err := New(&fakeStore{rows: transitRows()}, emb, vs, WithSource("test"))
	require.NoError(t, err)

	stats, err := ix.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, `embed "03": rate limited`)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 3, stats.Indexed)
	assert.Len(t, emb.seen, 4)
}

func TestRunGraphError(t *testing.T) {
	boom := errors.New("connection refused")
	ix, err := New(&fakeStore{err: boom}, lexical.New(), inmemory.New())
	require.NoError(t, err)
	_, err = ix.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ix, err := New(&fakeStore{rows: transitRows()}, lexical.New(), inmemory.New())
	require.NoError(t, err)
	stats, err := ix.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 4, stats.Failed)
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil, lexical.New(), inmemory.New())
	assert.ErrorIs(t, err, errStoreRequired)
	_, err = New(&fakeStore{}, nil, inmemory.New())
	assert.ErrorIs(t, err, errEmbedderRequired)
	_, err = New(&fakeStore{}, lexical.New(), nil)
	assert.ErrorIs(t, err, errVectorStoreRequired)
}

func TestDocumentIDIsStable(t *testing.T) {
	a := documentID(entity{name: "03", label: "Route"})
	assert.Equal(t, a, documentID(entity{name: "03", label: "Route"}))
	assert.NotEqual(t, a, documentID(entity{name: "03", label: "Stop"}))
}
