//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package model

import "time"

// Usage is the token accounting of one completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the reply of a chat completion.
type Response struct {
	// ID is the provider response id, when one is returned.
	ID string `json:"id,omitempty"`
	// Model is the model version that produced the reply.
	Model string `json:"model,omitempty"`
	// Content is the concatenated reply text.
	Content string `json:"content"`
	// FinishReason reports why generation stopped.
	FinishReason string `json:"finish_reason,omitempty"`
	// Usage is nil when the provider does not report it.
	Usage *Usage `json:"usage,omitempty"`
	// Timestamp is when the response was received.
	Timestamp time.Time `json:"timestamp"`
}
