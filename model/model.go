//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package model defines the chat model abstraction used to draft Cypher
// queries and compose answers.
package model

import (
	"context"
	"errors"
)

// ErrNilRequest is returned when GenerateContent receives a nil request.
var ErrNilRequest = errors.New("request cannot be nil")

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Info describes a model.
type Info struct {
	// Name is the provider model name, e.g. "gemma-3-27b-it".
	Name string
	// Provider is the backend serving the model.
	Provider string
}

// Model is a chat completion model.
type Model interface {
	// Info returns the model description.
	Info() Info
	// GenerateContent sends the conversation and returns the full reply.
	GenerateContent(ctx context.Context, request *Request) (*Response, error)
}
