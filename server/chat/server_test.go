//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-graphqa-go/pipeline"
)

type fakeAsker struct {
	answer   string
	err      error
	question string
	block    bool
}

func (f *fakeAsker) Ask(ctx context.Context, question string, opts ...pipeline.AskOption) (*pipeline.State, error) {
	f.question = question
	state := &pipeline.State{Question: question}
	for _, opt := range opts {
		opt(state)
	}
	if state.RequestID == "" {
		state.RequestID = "generated"
	}
	if f.block {
		<-ctx.Done()
		return state, ctx.Err()
	}
	if f.err != nil {
		return state, f.err
	}
	state.Answer = f.answer
	return state, nil
}

func postChat(t *testing.T, h http.Handler, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestChat_Answer(t *testing.T) {
	asker := &fakeAsker{answer: "Routes **50** and *69* stop there."}
	s := New(asker)

	rr := postChat(t, s.Handler(), `{"message":"  Which routes stop at Bach Khoa?  ","history":[{"role":"user","content":"hi"}]}`,
		map[string]string{HeaderRequestID: "req-7"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "req-7", rr.Header().Get(HeaderRequestID))
	assert.Equal(t, "Which routes stop at Bach Khoa?", asker.question)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Routes **50** and *69* stop there.", resp.Answer)
	assert.Contains(t, resp.AnswerHTML, "<strong>50</strong>")
	assert.Contains(t, resp.AnswerHTML, "<em>69</em>")
	assert.Equal(t, "req-7", resp.RequestID)
}

func TestChat_GeneratedRequestID(t *testing.T) {
	s := New(&fakeAsker{answer: "ok"})
	rr := postChat(t, s.Handler(), `{"message":"q"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "generated", rr.Header().Get(HeaderRequestID))
}

func TestChat_RawHTMLOmitted(t *testing.T) {
	s := New(&fakeAsker{answer: "<script>alert(1)</script>\n\nplain"})
	rr := postChat(t, s.Handler(), `{"message":"q"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotContains(t, resp.AnswerHTML, "<script>")
	assert.Contains(t, resp.AnswerHTML, "<p>plain</p>")
}

func TestChat_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "invalid json", body: "{", want: "invalid request body"},
		{name: "missing message", body: `{}`, want: "message is required"},
		{name: "blank message", body: `{"message":"   "}`, want: "message is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker := &fakeAsker{answer: "unused"}
			rr := postChat(t, New(asker).Handler(), tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Error)
			assert.Empty(t, asker.question)
		})
	}
}

func TestChat_PipelineFailure(t *testing.T) {
	s := New(&fakeAsker{err: errors.New("model down")})
	rr := postChat(t, s.Handler(), `{"message":"q"}`, map[string]string{HeaderRequestID: "req-9"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, failureMessage, resp.Error)
	assert.Equal(t, "req-9", resp.RequestID)
	assert.NotContains(t, rr.Body.String(), "model down")
}

func TestChat_Timeout(t *testing.T) {
	s := New(&fakeAsker{block: true}, WithRequestTimeout(10*time.Millisecond))
	rr := postChat(t, s.Handler(), `{"message":"q"}`, nil)
	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
}

func TestChat_MethodNotAllowed(t *testing.T) {
	s := New(&fakeAsker{})
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestChat_CORS(t *testing.T) {
	s := New(&fakeAsker{answer: "ok"}, WithAllowedOrigins("http://ui.local"))

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://ui.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.Equal(t, "http://ui.local", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = postChat(t, s.Handler(), `{"message":"q"}`, map[string]string{"Origin": "http://evil.local"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	s := New(&fakeAsker{},
		WithHealthCheck("neo4j", func(context.Context) error { return nil }),
		WithHealthCheck("milvus", func(context.Context) error { return errors.New("unreachable") }),
	)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "ok", body.Checks["neo4j"])
	assert.Equal(t, "unreachable", body.Checks["milvus"])
}

func TestHealth_NoChecks(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	New(&fakeAsker{}).Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestMetricsAndIndex(t *testing.T) {
	h := New(&fakeAsker{}).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "/api/chat")
}
