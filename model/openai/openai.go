//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package openai provides a model.Model over OpenAI-compatible chat
// completion APIs.
package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"trpc.group/trpc-go/trpc-graphqa-go/model"
	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/trace"
)

// ProviderName is reported by Info.
const ProviderName = "openai"

var _ model.Model = (*Model)(nil)

// Model implements the model.Model interface for OpenAI-compatible APIs.
type Model struct {
	client               openai.Client
	name                 string
	baseURL              string
	chatRequestCallback  ChatRequestCallbackFunc
	chatResponseCallback ChatResponseCallbackFunc
	extraFields          map[string]any
}

// New creates a new OpenAI-like model.
func New(name string, opts ...Option) *Model {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var clientOpts []openaiopt.RequestOption
	if o.APIKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.APIKey))
	}
	if o.BaseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(o.BaseURL))
	}
	clientOpts = append(clientOpts, o.OpenAIOptions...)

	return &Model{
		client:               openai.NewClient(clientOpts...),
		name:                 name,
		baseURL:              o.BaseURL,
		chatRequestCallback:  o.ChatRequestCallback,
		chatResponseCallback: o.ChatResponseCallback,
		extraFields:          o.ExtraFields,
	}
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

	chatRequest, opts := m.buildChatRequest(request)
	if m.chatRequestCallback != nil {
		m.chatRequestCallback(ctx, &chatRequest)
	}
	chatCompletion, err := m.client.Chat.Completions.New(ctx, chatRequest, opts...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if m.chatResponseCallback != nil {
		m.chatResponseCallback(ctx, &chatRequest, chatCompletion)
	}

	response := &model.Response{
		ID:        chatCompletion.ID,
		Model:     chatCompletion.Model,
		Timestamp: time.Now(),
	}
	if len(chatCompletion.Choices) > 0 {
		choice := chatCompletion.Choices[0]
		response.Content = choice.Message.Content
		response.FinishReason = choice.FinishReason
	}
	if chatCompletion.Usage.PromptTokens > 0 || chatCompletion.Usage.CompletionTokens > 0 {
		response.Usage = &model.Usage{
			PromptTokens:     int(chatCompletion.Usage.PromptTokens),
			CompletionTokens: int(chatCompletion.Usage.CompletionTokens),
			TotalTokens:      int(chatCompletion.Usage.TotalTokens),
		}
		span.SetAttributes(
			attribute.Int("gen_ai.usage.input_tokens", response.Usage.PromptTokens),
			attribute.Int("gen_ai.usage.output_tokens", response.Usage.CompletionTokens),
		)
	}
	if response.Content == "" {
		span.SetStatus(codes.Error, model.ErrEmptyResponse.Error())
		return nil, model.ErrEmptyResponse
	}
	return response, nil
}

func (m *Model) buildChatRequest(request *model.Request) (openai.ChatCompletionNewParams, []openaiopt.RequestOption) {
	chatRequest := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(m.name),
		Messages: m.convertMessages(request.Messages),
	}
	// MaxTokens is deprecated and not compatible with o-series models.
	if request.MaxTokens != nil {
		chatRequest.MaxCompletionTokens = openai.Int(int64(*request.MaxTokens))
	}
	if request.Temperature != nil {
		chatRequest.Temperature = openai.Float(*request.Temperature)
	}
	if request.TopP != nil {
		chatRequest.TopP = openai.Float(*request.TopP)
	}
	if len(request.Stop) > 0 {
		chatRequest.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: request.Stop,
		}
	}
	var opts []openaiopt.RequestOption
	for key, value := range m.extraFields {
		opts = append(opts, openaiopt.WithJSONSet(key, value))
	}
	return chatRequest, opts
}

// convertMessages converts our Message format to OpenAI's format.
func (m *Model) convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}
