//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/document"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/vectorstore"
)

func seed(t *testing.T, vs *VectorStore) {
	t.Helper()
	ctx := context.Background()
	docs := []struct {
		id, content string
		vec         []float64
	}{
		{"1", "Kim Mã", []float64{1, 0, 0}},
		{"2", "Cầu Giấy", []float64{0, 1, 0}},
		{"3", "Kim Liên", []float64{0.8, 0.6, 0}},
		{"4", "Kim Mã Thượng", []float64{1, 0, 0}},
	}
	for _, d := range docs {
		require.NoError(t, vs.Add(ctx, &document.Document{ID: d.id, Name: "Stop", Content: d.content}, d.vec))
	}
}

func TestSearch_Ranking(t *testing.T) {
	vs := New()
	seed(t, vs)

	res, err := vs.Search(context.Background(), &vectorstore.SearchQuery{Vector: []float64{2, 0, 0}})
	require.NoError(t, err)
	require.Len(t, res.Results, 4)

	got := make([]string, 0, len(res.Results))
	for _, r := range res.Results {
		got = append(got, r.Document.Content)
	}
	// Ties keep insertion order.
	assert.Equal(t, []string{"Kim Mã", "Kim Mã Thượng", "Kim Liên", "Cầu Giấy"}, got)
	assert.InDelta(t, 1.0, res.Results[0].Score, 1e-9)
	assert.InDelta(t, 0.9, res.Results[2].Score, 1e-9)
	assert.InDelta(t, 0.5, res.Results[3].Score, 1e-9)
}

func TestSearch_LimitAndMinScore(t *testing.T) {
	vs := New(WithMaxResults(2))
	seed(t, vs)
	ctx := context.Background()

	res, err := vs.Search(ctx, &vectorstore.SearchQuery{Vector: []float64{1, 0, 0}})
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)

	res, err = vs.Search(ctx, &vectorstore.SearchQuery{Vector: []float64{1, 0, 0}, Limit: 10, MinScore: 0.85})
	require.NoError(t, err)
	assert.Len(t, res.Results, 3)
}

func TestAdd_ReplacesExisting(t *testing.T) {
	vs := New()
	ctx := context.Background()
	require.NoError(t, vs.Add(ctx, &document.Document{ID: "1", Content: "old"}, []float64{1, 0}))
	require.NoError(t, vs.Add(ctx, &document.Document{ID: "1", Content: "new"}, []float64{0, 1}))

	n, err := vs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := vs.Search(ctx, &vectorstore.SearchQuery{Vector: []float64{0, 1}})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "new", res.Results[0].Document.Content)
	assert.False(t, res.Results[0].Document.UpdatedAt.IsZero())
}

func TestAdd_Validation(t *testing.T) {
	vs := New()
	ctx := context.Background()
	assert.ErrorIs(t, vs.Add(ctx, nil, []float64{1}), errDocumentRequired)
	assert.ErrorIs(t, vs.Add(ctx, &document.Document{}, []float64{1}), errDocumentIDRequired)
	assert.Error(t, vs.Add(ctx, &document.Document{ID: "x"}, nil))

	require.NoError(t, vs.Add(ctx, &document.Document{ID: "a"}, []float64{1, 2}))
	assert.Error(t, vs.Add(ctx, &document.Document{ID: "b"}, []float64{1, 2, 3}))
}

func TestSearch_Validation(t *testing.T) {
	vs := New()
	seed(t, vs)
	ctx := context.Background()

	_, err := vs.Search(ctx, nil)
	assert.ErrorIs(t, err, errQueryRequired)
	_, err = vs.Search(ctx, &vectorstore.SearchQuery{Vector: []float64{1}})
	assert.Error(t, err)
	assert.NoError(t, vs.Close())
}

func TestSearch_Empty(t *testing.T) {
	res, err := New().Search(context.Background(), &vectorstore.SearchQuery{Vector: []float64{1}})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}
