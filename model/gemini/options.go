//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package gemini

import (
	"context"

	"google.golang.org/genai"
)

// ChatRequestCallbackFunc is called before a request is sent.
type ChatRequestCallbackFunc func(ctx context.Context, contents []*genai.Content)

// ChatResponseCallbackFunc is called after a successful response.
type ChatResponseCallbackFunc func(
	ctx context.Context,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
	rsp *genai.GenerateContentResponse,
)

type options struct {
	// Callback for the chat request.
	chatRequestCallback ChatRequestCallbackFunc
	// Callback for the chat response.
	chatResponseCallback ChatResponseCallbackFunc
	// geminiClientConfig for building gemini client.
	geminiClientConfig *genai.ClientConfig
	// client replaces the genai client, used by tests.
	client Client
}

// Option is a function that configures a Gemini model.
type Option func(*options)

// WithAPIKey sets the Gemini API key on the client config.
func WithAPIKey(key string) Option {
	return func(opts *options) {
		if opts.geminiClientConfig == nil {
			opts.geminiClientConfig = &genai.ClientConfig{}
		}
		opts.geminiClientConfig.APIKey = key
	}
}

// WithChatRequestCallback sets the function to be called before sending a chat request.
func WithChatRequestCallback(fn ChatRequestCallbackFunc) Option {
	return func(opts *options) {
		opts.chatRequestCallback = fn
	}
}

// WithChatResponseCallback sets the function to be called after receiving a chat response.
func WithChatResponseCallback(fn ChatResponseCallbackFunc) Option {
	return func(opts *options) {
		opts.chatResponseCallback = fn
	}
}

// WithGeminiClientConfig sets the ClientConfig used for gemini Client initialization.
func WithGeminiClientConfig(c *genai.ClientConfig) Option {
	return func(opts *options) {
		opts.geminiClientConfig = c
	}
}

// WithClient uses c instead of building a genai client.
func WithClient(c Client) Option {
	return func(opts *options) {
		opts.client = c
	}
}
