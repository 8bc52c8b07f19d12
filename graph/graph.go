//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package graph provides a typed state graph whose nodes run one after
// another, each receiving the state produced by its predecessor.
package graph

import (
	"context"
	"errors"
)

// Special node IDs.
const (
	// Start is the virtual node the entry point hangs off.
	Start = "__start__"
	// End is the virtual node finish points lead to.
	End = "__end__"
)

var (
	// ErrNoEntryPoint is returned by Compile when no entry point was set.
	ErrNoEntryPoint = errors.New("graph has no entry point")
	// ErrNoFinishPoint is returned by Compile when no node leads to End.
	ErrNoFinishPoint = errors.New("graph has no finish point")
)

// NodeFunc transforms the state. Returning an error stops the run.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// Node is a named step of the graph.
type Node[S any] struct {
	// ID is the unique identifier of the node.
	ID string
	// Name is the human-readable name of the node.
	Name string
	// Description is the description of the node.
	Description string
	// Function is executed when the node runs.
	Function NodeFunc[S]
}

// Graph is a compiled, validated graph.
type Graph[S any] struct {
	nodes map[string]*Node[S]
	// order lists node IDs from the entry point to the finish point.
	order []string
}

// Nodes returns the nodes in execution order.
func (g *Graph[S]) Nodes() []*Node[S] {
	nodes := make([]*Node[S], 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Node returns the node with the given ID.
func (g *Graph[S]) Node(id string) (*Node[S], bool) {
	n, ok := g.nodes[id]
	return n, ok
}
