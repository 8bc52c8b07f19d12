//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package gemini provides a model.Model over the Gemini API, which also
// serves the Gemma family.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"trpc.group/trpc-go/trpc-graphqa-go/model"
	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/trace"
)

// ProviderName is reported by Info.
const ProviderName = "gemini"

var _ model.Model = (*Model)(nil)

// Model implements the model.Model interface for Gemini API.
type Model struct {
	client               Client
	name                 string
	chatRequestCallback  ChatRequestCallbackFunc
	chatResponseCallback ChatResponseCallbackFunc
}

// New creates a new Gemini model.
func New(ctx context.Context, name string, opts ...Option) (*Model, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	client := o.client
	if client == nil {
		cfg := o.geminiClientConfig
		if cfg == nil {
			cfg = &genai.ClientConfig{}
		}
		if cfg.Backend == genai.BackendUnspecified {
			cfg.Backend = genai.BackendGeminiAPI
		}
		c, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		client = &clientWrapper{client: c}
	}
	return &Model{
		client:               client,
		name:                 name,
		chatRequestCallback:  o.chatRequestCallback,
		chatResponseCallback: o.chatResponseCallback,
	}, nil
}

// Info implements the model.Model interface.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.name, Provider: ProviderName}
}

// GenerateContent implements the model.Model interface.
func (m *Model) GenerateContent(ctx context.Context, request *model.Request) (*model.Response, error) {
	if request == nil {
		return nil, model.ErrNilRequest
	}
	ctx, span := trace.Tracer.Start(ctx, "model.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("gen_ai.system", ProviderName),
		attribute.String("gen_ai.request.model", m.name),
	)

	contents := m.convertMessages(request.Messages)
	config := m.buildChatConfig(request)
	if m.chatRequestCallback != nil {
		m.chatRequestCallback(ctx, contents)
	}
	rsp, err := m.client.Models().GenerateContent(ctx, m.name, contents, config)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if m.chatResponseCallback != nil {
		m.chatResponseCallback(ctx, contents, config, rsp)
	}
	response := m.buildResponse(rsp)
	if response.Content == "" {
		span.SetStatus(codes.Error, model.ErrEmptyResponse.Error())
		return nil, model.ErrEmptyResponse
	}
	if response.Usage != nil {
		span.SetAttributes(
			attribute.Int("gen_ai.usage.input_tokens", response.Usage.PromptTokens),
			attribute.Int("gen_ai.usage.output_tokens", response.Usage.CompletionTokens),
		)
	}
	return response, nil
}

func (m *Model) buildResponse(rsp *genai.GenerateContentResponse) *model.Response {
	response := &model.Response{Timestamp: time.Now()}
	if rsp == nil {
		return response
	}
	response.ID = rsp.ResponseID
	response.Model = rsp.ModelVersion
	var text strings.Builder
	for _, candidate := range rsp.Candidates {
		if candidate.FinishReason != "" {
			response.FinishReason = string(candidate.FinishReason)
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			// Thought summaries are not part of the answer.
			if part.Text != "" && !part.Thought {
				text.WriteString(part.Text)
			}
		}
	}
	response.Content = text.String()
	if usage := rsp.UsageMetadata; usage != nil {
		response.Usage = &model.Usage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}
	return response
}

// buildChatConfig converts our Request to Gemini request config.
func (m *Model) buildChatConfig(request *model.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if request.MaxTokens != nil {
		config.MaxOutputTokens = int32(*request.MaxTokens)
	}
	if request.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*request.Temperature))
	}
	if request.TopP != nil {
		config.TopP = genai.Ptr(float32(*request.TopP))
	}
	if len(request.Stop) > 0 {
		config.StopSequences = request.Stop
	}
	return config
}

// convertMessages maps messages to Gemini contents. Gemma models reject
// system instructions, so system messages are sent as user turns.
func (m *Model) convertMessages(messages []model.Message) []*genai.Content {
	result := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		role := genai.RoleUser
		if msg.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		result = append(result, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}
	return result
}
