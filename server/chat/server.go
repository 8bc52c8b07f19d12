//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package chat serves the question answering pipeline over HTTP.
package chat

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"trpc.group/trpc-go/trpc-graphqa-go/log"
	"trpc.group/trpc-go/trpc-graphqa-go/pipeline"
	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/metric"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

const maxBodyBytes = 1 << 20

// failureMessage is shown to users when the pipeline fails.
const failureMessage = "Sorry, I could not answer this question."

//go:embed static/index.html
var indexHTML []byte

// Asker answers one question.
type Asker interface {
	Ask(ctx context.Context, question string, opts ...pipeline.AskOption) (*pipeline.State, error)
}

// Turn is one message of the chat history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
	// History is accepted for client compatibility. Every question is
	// answered on its own.
	History []Turn `json:"history,omitempty"`
}

// ChatResponse is the body of a successful POST /api/chat.
type ChatResponse struct {
	Answer     string `json:"answer"`
	AnswerHTML string `json:"answer_html"`
	RequestID  string `json:"request_id"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Server exposes the chat API, health and metrics endpoints.
type Server struct {
	asker  Asker
	router *mux.Router
	md     goldmark.Markdown

	allowedOrigins []string
	requestTimeout time.Duration
	healthChecks   map[string]HealthCheck
}

// New creates the HTTP server.
func New(asker Asker, opts ...Option) *Server {
	s := &Server{
		asker:          asker,
		router:         mux.NewRouter(),
		allowedOrigins: []string{"*"},
		requestTimeout: defaultRequestTimeout,
		healthChecks:   make(map[string]HealthCheck),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{HeaderRequestID},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/api/chat", s.handleChat).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", metric.Handler()).Methods(http.MethodGet)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	question := strings.TrimSpace(req.Message)
	if question == "" {
		s.writeError(w, http.StatusBadRequest, "message is required", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	state, err := s.asker.Ask(ctx, question, pipeline.WithRequestID(r.Header.Get(HeaderRequestID)))
	requestID := ""
	if state != nil {
		requestID = state.RequestID
	}
	if requestID != "" {
		w.Header().Set(HeaderRequestID, requestID)
	}
	if err != nil {
		log.ErrorfContext(ctx, "chat request %s failed: %v", requestID, err)
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		s.writeError(w, status, failureMessage, requestID)
		return
	}

	answerHTML, err := s.render(state.Answer)
	if err != nil {
		log.WarnfContext(ctx, "chat request %s: render answer: %v", requestID, err)
	}
	s.writeJSON(w, http.StatusOK, ChatResponse{
		Answer:     state.Answer,
		AnswerHTML: answerHTML,
		RequestID:  requestID,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.healthChecks))
	for name := range s.healthChecks {
		names = append(names, name)
	}
	sort.Strings(names)
	status := http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.healthChecks[name](r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}
	body := map[string]any{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	s.writeJSON(w, status, body)
}

// render converts the markdown answer to HTML. Raw HTML in the answer is
// not passed through.
func (s *Server) render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg, requestID string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg, RequestID: requestID})
}
