//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddingServer(t *testing.T, handle func(w http.ResponseWriter, body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		handle(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeEmbedding(w http.ResponseWriter, vec []float64) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"object": "embedding", "index": 0, "embedding": vec},
		},
		"model": "text-embedding-3-small",
		"usage": map[string]any{"prompt_tokens": 2, "total_tokens": 2},
	})
}

func TestNew_Defaults(t *testing.T) {
	e := New()
	assert.Equal(t, DefaultModel, e.model)
	assert.Equal(t, DefaultDimensions, e.GetDimensions())
	assert.Equal(t, DefaultMaxRetries, e.maxRetries)

	e = New(WithModel(ModelTextEmbedding3Large), WithDimensions(3072), WithMaxRetries(-1))
	assert.Equal(t, ModelTextEmbedding3Large, e.model)
	assert.Equal(t, 3072, e.GetDimensions())
	assert.Zero(t, e.maxRetries)
}

func TestIsTextEmbedding3Model(t *testing.T) {
	assert.True(t, isTextEmbedding3Model(ModelTextEmbedding3Small))
	assert.True(t, isTextEmbedding3Model(ModelTextEmbedding3Large))
	assert.False(t, isTextEmbedding3Model(ModelTextEmbeddingAda002))
	assert.False(t, isTextEmbedding3Model(""))
}

func TestGetEmbedding(t *testing.T) {
	var gotBody map[string]any
	srv := embeddingServer(t, func(w http.ResponseWriter, body map[string]any) {
		gotBody = body
		writeEmbedding(w, []float64{0.1, 0.2, 0.3})
	})

	e := New(WithBaseURL(srv.URL), WithAPIKey("dummy"), WithDimensions(3))
	vec, err := e.GetEmbedding(context.Background(), "Bach Khoa")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "Bach Khoa", gotBody["input"])
	assert.Equal(t, DefaultModel, gotBody["model"])
	assert.EqualValues(t, 3, gotBody["dimensions"])
}

func TestGetEmbedding_AdaOmitsDimensions(t *testing.T) {
	var gotBody map[string]any
	srv := embeddingServer(t, func(w http.ResponseWriter, body map[string]any) {
		gotBody = body
		writeEmbedding(w, []float64{1})
	})

	e := New(WithBaseURL(srv.URL), WithAPIKey("dummy"), WithModel(ModelTextEmbeddingAda002))
	_, err := e.GetEmbedding(context.Background(), "Kim Ma")
	require.NoError(t, err)
	_, ok := gotBody["dimensions"]
	assert.False(t, ok)
}

func TestGetEmbedding_EmptyText(t *testing.T) {
	e := New(WithAPIKey("dummy"))
	_, err := e.GetEmbedding(context.Background(), "  ")
	assert.ErrorIs(t, err, errEmptyText)
}

func TestGetEmbedding_EmptyResponse(t *testing.T) {
	srv := embeddingServer(t, func(w http.ResponseWriter, _ map[string]any) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{},
			"model":  "text-embedding-3-small",
		})
	})

	e := New(WithBaseURL(srv.URL), WithAPIKey("dummy"))
	vec, err := e.GetEmbedding(context.Background(), "test")
	require.NoError(t, err)
	assert.Empty(t, vec)
}

func TestGetEmbedding_Retry(t *testing.T) {
	var attempts atomic.Int32
	srv := embeddingServer(t, func(w http.ResponseWriter, _ map[string]any) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
			return
		}
		writeEmbedding(w, []float64{0.5})
	})

	e := New(
		WithBaseURL(srv.URL),
		WithAPIKey("dummy"),
		WithMaxRetries(2),
		WithRetryBackoff([]time.Duration{time.Millisecond}),
	)
	vec, err := e.GetEmbedding(context.Background(), "retry")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, vec)
	assert.EqualValues(t, 3, attempts.Load())
}

func TestGetEmbedding_RetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	srv := embeddingServer(t, func(w http.ResponseWriter, _ map[string]any) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	})

	e := New(WithBaseURL(srv.URL), WithAPIKey("dummy"), WithMaxRetries(1), WithRetryBackoff(nil))
	_, err := e.GetEmbedding(context.Background(), "fail")
	require.Error(t, err)
	assert.EqualValues(t, 2, attempts.Load())
}

func TestGetBackoffDuration(t *testing.T) {
	e := New(WithRetryBackoff([]time.Duration{time.Second, 2 * time.Second}))
	assert.Equal(t, time.Second, e.getBackoffDuration(0))
	assert.Equal(t, 2*time.Second, e.getBackoffDuration(1))
	assert.Equal(t, 2*time.Second, e.getBackoffDuration(5))
	assert.Zero(t, New(WithRetryBackoff(nil)).getBackoffDuration(0))
}
