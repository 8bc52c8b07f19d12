//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package graph

import "fmt"

// StageError reports the node a run failed in.
type StageError struct {
	// Node is the ID of the failing node.
	Node string
	// Message is the operator-facing description of the failure.
	Message string
	// Err is the underlying cause.
	Err error
}

// NewStageError creates a StageError for node.
func NewStageError(node, message string, err error) *StageError {
	return &StageError{Node: node, Message: message, Err: err}
}

// Error implements error.
func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("node %s: %s", e.Node, e.Message)
	}
	return fmt.Sprintf("node %s: %s: %v", e.Node, e.Message, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}
