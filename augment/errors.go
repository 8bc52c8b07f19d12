//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package augment

import (
	"errors"
	"fmt"
)

var (
	// ErrResolution is wrapped by every failure of the semantic index.
	ErrResolution = errors.New("entity resolution failed")
	// ErrLengthMismatch is returned when literals and their positional
	// counterparts do not line up.
	ErrLengthMismatch = errors.New("literal count mismatch")
	// errIndexRequired is returned by New when no index is given.
	errIndexRequired = errors.New("augment: semantic index is required")
)

// Stage names a step of the augmentation state machine.
type Stage string

// Augmentation stages.
const (
	StageExtract Stage = "extract"
	StageResolve Stage = "resolve"
	StageRank    Stage = "rank"
	StageRewrite Stage = "rewrite"
)

// Error is the structured failure returned by Augmenter.Augment.
type Error struct {
	// Stage is where augmentation stopped.
	Stage Stage
	// Message is a human readable summary for operators.
	Message string
	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("augment %s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("augment %s: %s: %v", e.Stage, e.Message, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
