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

// Client is the GenAI client. It provides access to the various GenAI services.
type Client interface {
	Models() Models
}

// Models provides methods for interacting with the available language models.
type Models interface {
	// GenerateContent generates content based on the provided model, contents, and configuration.
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// clientWrapper implements Client
type clientWrapper struct {
	client *genai.Client
}

// Models implements Client.Models
func (c *clientWrapper) Models() Models {
	return &modelsWrapper{models: c.client.Models}
}

type modelsWrapper struct {
	models *genai.Models
}

// GenerateContent implements Models.GenerateContent
func (m *modelsWrapper) GenerateContent(ctx context.Context, model string, contents []*genai.Content,
	config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return m.models.GenerateContent(ctx, model, contents, config)
}
