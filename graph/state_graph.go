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
	"errors"
	"fmt"
)

// StateGraph builds a Graph.
//
// Example usage:
//
//	g, err := graph.NewStateGraph[State]().
//	  AddNode("text2cypher", draft).
//	  AddNode("knowledge_retriever", retrieve).
//	  AddEdge("text2cypher", "knowledge_retriever").
//	  SetEntryPoint("text2cypher").
//	  SetFinishPoint("knowledge_retriever").
//	  Compile()
type StateGraph[S any] struct {
	nodes map[string]*Node[S]
	next  map[string]string
	entry string
	errs  []error
}

// NewStateGraph creates an empty graph builder.
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes: make(map[string]*Node[S]),
		next:  make(map[string]string),
	}
}

// Option is a function that configures a Node.
type Option func(*nodeOptions)

type nodeOptions struct {
	name        string
	description string
}

// WithName sets the name of the node.
func WithName(name string) Option {
	return func(o *nodeOptions) {
		o.name = name
	}
}

// WithDescription sets the description of the node.
func WithDescription(description string) Option {
	return func(o *nodeOptions) {
		o.description = description
	}
}

// AddNode adds a node with the given ID and function.
func (sg *StateGraph[S]) AddNode(id string, function NodeFunc[S], opts ...Option) *StateGraph[S] {
	o := nodeOptions{name: id}
	for _, opt := range opts {
		opt(&o)
	}
	if id == "" || id == Start || id == End {
		sg.errs = append(sg.errs, fmt.Errorf("invalid node id %q", id))
		return sg
	}
	if function == nil {
		sg.errs = append(sg.errs, fmt.Errorf("node %s has no function", id))
		return sg
	}
	if _, exists := sg.nodes[id]; exists {
		sg.errs = append(sg.errs, fmt.Errorf("node with ID %s already exists", id))
		return sg
	}
	sg.nodes[id] = &Node[S]{ID: id, Name: o.name, Description: o.description, Function: function}
	return sg
}

// AddEdge adds an edge between two nodes. A node has at most one successor.
func (sg *StateGraph[S]) AddEdge(from, to string) *StateGraph[S] {
	if from == "" || to == "" {
		sg.errs = append(sg.errs, errors.New("edge from and to cannot be empty"))
		return sg
	}
	if prev, exists := sg.next[from]; exists && prev != to {
		sg.errs = append(sg.errs, fmt.Errorf("node %s already has successor %s", from, prev))
		return sg
	}
	sg.next[from] = to
	return sg
}

// SetEntryPoint sets the first node to run.
func (sg *StateGraph[S]) SetEntryPoint(nodeID string) *StateGraph[S] {
	sg.entry = nodeID
	return sg.AddEdge(Start, nodeID)
}

// SetFinishPoint adds an edge from the node to End.
func (sg *StateGraph[S]) SetFinishPoint(nodeID string) *StateGraph[S] {
	return sg.AddEdge(nodeID, End)
}

// Compile validates the graph and returns it for execution.
func (sg *StateGraph[S]) Compile() (*Graph[S], error) {
	order, err := sg.validate()
	if err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	nodes := make(map[string]*Node[S], len(sg.nodes))
	for id, n := range sg.nodes {
		nodes[id] = n
	}
	return &Graph[S]{nodes: nodes, order: order}, nil
}

// MustCompile compiles the graph or panics if invalid.
func (sg *StateGraph[S]) MustCompile() *Graph[S] {
	g, err := sg.Compile()
	if err != nil {
		panic(err)
	}
	return g
}

// validate walks the single-successor path from the entry point and returns
// the node order.
func (sg *StateGraph[S]) validate() ([]string, error) {
	if len(sg.errs) > 0 {
		return nil, errors.Join(sg.errs...)
	}
	if sg.entry == "" {
		return nil, ErrNoEntryPoint
	}
	if !sg.hasFinishPoint() {
		return nil, ErrNoFinishPoint
	}
	for from, to := range sg.next {
		if _, ok := sg.nodes[from]; !ok && from != Start {
			return nil, fmt.Errorf("source node %s does not exist", from)
		}
		if _, ok := sg.nodes[to]; !ok && to != End {
			return nil, fmt.Errorf("target node %s does not exist", to)
		}
	}
	visited := make(map[string]bool, len(sg.nodes))
	var order []string
	for id := sg.entry; id != End; id = sg.next[id] {
		if visited[id] {
			return nil, fmt.Errorf("cycle at node %s", id)
		}
		visited[id] = true
		order = append(order, id)
		if _, ok := sg.next[id]; !ok {
			return nil, fmt.Errorf("node %s has no outgoing edges and is not a finish point", id)
		}
	}
	for nodeID := range sg.nodes {
		if !visited[nodeID] {
			return nil, fmt.Errorf("node %s is not reachable from the entry point", nodeID)
		}
	}
	return order, nil
}

func (sg *StateGraph[S]) hasFinishPoint() bool {
	for _, to := range sg.next {
		if to == End {
			return true
		}
	}
	return false
}
