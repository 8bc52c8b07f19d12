//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"trpc.group/trpc-go/trpc-graphqa-go/log"
	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/trace"
)

// BeforeNodeCallback runs before a node.
type BeforeNodeCallback[S any] func(ctx context.Context, node *Node[S], state S)

// AfterNodeCallback runs after a node, with the node error if any.
type AfterNodeCallback[S any] func(ctx context.Context, node *Node[S], state S, err error)

// Executor runs a compiled Graph.
type Executor[S any] struct {
	graph      *Graph[S]
	beforeNode []BeforeNodeCallback[S]
	afterNode  []AfterNodeCallback[S]
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption[S any] func(*Executor[S])

// WithBeforeNode registers a callback invoked before every node.
func WithBeforeNode[S any](cb BeforeNodeCallback[S]) ExecutorOption[S] {
	return func(e *Executor[S]) {
		e.beforeNode = append(e.beforeNode, cb)
	}
}

// WithAfterNode registers a callback invoked after every node.
func WithAfterNode[S any](cb AfterNodeCallback[S]) ExecutorOption[S] {
	return func(e *Executor[S]) {
		e.afterNode = append(e.afterNode, cb)
	}
}

// NewExecutor creates a new graph executor.
func NewExecutor[S any](g *Graph[S], opts ...ExecutorOption[S]) (*Executor[S], error) {
	if g == nil || len(g.order) == 0 {
		return nil, errors.New("graph is not compiled")
	}
	e := &Executor[S]{graph: g}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Invoke runs every node in order and returns the final state. The first
// failing node stops the run with a *StageError; the state returned then is
// the state the failing node received. A cancelled context stops the run
// before the next node.
func (e *Executor[S]) Invoke(ctx context.Context, state S) (S, error) {
	for _, id := range e.graph.order {
		node := e.graph.nodes[id]
		if err := ctx.Err(); err != nil {
			return state, NewStageError(id, "cancelled before node", err)
		}
		next, err := e.runNode(ctx, node, state)
		if err != nil {
			var stageErr *StageError
			if !errors.As(err, &stageErr) {
				stageErr = NewStageError(id, fmt.Sprintf("%s failed", id), err)
			} else if stageErr.Node == "" {
				stageErr.Node = id
			}
			return state, stageErr
		}
		state = next
	}
	return state, nil
}

func (e *Executor[S]) runNode(ctx context.Context, node *Node[S], state S) (next S, err error) {
	ctx, span := trace.Tracer.Start(ctx, "graph.node "+node.ID)
	span.SetAttributes(attribute.String("graph.node.id", node.ID))
	start := time.Now()
	for _, cb := range e.beforeNode {
		cb(ctx, node, state)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("node %s panicked: %v", node.ID, r)
		}
		d := time.Since(start)
		metric.RecordStage(node.ID, d, err)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			log.ErrorfContext(ctx, "graph node %s failed after %s: %v", node.ID, d, err)
		} else {
			log.DebugfContext(ctx, "graph node %s finished in %s", node.ID, d)
		}
		span.End()
		for _, cb := range e.afterNode {
			cb(ctx, node, next, err)
		}
	}()
	return node.Function(ctx, state)
}
