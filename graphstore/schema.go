//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package graphstore

import (
	"fmt"
	"sort"
	"strings"
)

// Property is a typed property of a label or relationship type.
type Property struct {
	Name string
	// Type is the upper-case property type, for example STRING or INTEGER.
	Type string
}

// Triple is a relationship pattern (:Start)-[:Type]->(:End).
type Triple struct {
	Start string
	Type  string
	End   string
}

// String renders t as a cypher pattern.
func (t Triple) String() string {
	return fmt.Sprintf("(:%s)-[:%s]->(:%s)", t.Start, t.Type, t.End)
}

// Schema describes the graph.
type Schema struct {
	// NodeProps maps a node label to its properties.
	NodeProps map[string][]Property
	// RelProps maps a relationship type to its properties.
	RelProps map[string][]Property
	// Relationships lists every pattern present in the graph.
	Relationships []Triple
}

// FormatOption filters the types rendered by Format.
type FormatOption func(*formatOptions)

type formatOptions struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// WithInclude renders only the given labels and relationship types.
// It takes precedence over WithExclude.
func WithInclude(types ...string) FormatOption {
	return func(o *formatOptions) {
		o.include = toSet(types)
	}
}

// WithExclude hides the given labels and relationship types.
func WithExclude(types ...string) FormatOption {
	return func(o *formatOptions) {
		o.exclude = toSet(types)
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (o *formatOptions) keep(name string) bool {
	if len(o.include) > 0 {
		_, ok := o.include[name]
		return ok
	}
	_, ok := o.exclude[name]
	return !ok
}

// HasRelationship reports whether the pattern (:start)-[:relType]->(:end)
// exists in the graph.
func (s *Schema) HasRelationship(start, relType, end string) bool {
	for _, t := range s.Relationships {
		if t.Start == start && t.Type == relType && t.End == end {
			return true
		}
	}
	return false
}

// Format renders the schema as prompt text:
//
//	Node properties:
//	Stop {name: STRING}
//	Relationship properties:
//	HAS_STOP {order: INTEGER}
//	The relationships:
//	(:Route)-[:HAS_STOP]->(:Stop)
//
// A relationship is kept only when its start, type and end all pass the
// filters. Output is sorted so it is stable between calls.
func (s *Schema) Format(opts ...FormatOption) string {
	o := &formatOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var b strings.Builder
	b.WriteString("Node properties:\n")
	writeProps(&b, s.NodeProps, o)
	b.WriteString("Relationship properties:\n")
	writeProps(&b, s.RelProps, o)
	b.WriteString("The relationships:\n")

	rels := make([]string, 0, len(s.Relationships))
	for _, t := range s.Relationships {
		if o.keep(t.Start) && o.keep(t.Type) && o.keep(t.End) {
			rels = append(rels, t.String())
		}
	}
	sort.Strings(rels)
	b.WriteString(strings.Join(rels, "\n"))
	return strings.TrimRight(b.String(), "\n")
}

func writeProps(b *strings.Builder, props map[string][]Property, o *formatOptions) {
	names := make([]string, 0, len(props))
	for name := range props {
		if o.keep(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		parts := make([]string, 0, len(props[name]))
		for _, p := range props[name] {
			parts = append(parts, p.Name+": "+p.Type)
		}
		fmt.Fprintf(b, "%s {%s}\n", name, strings.Join(parts, ", "))
	}
}
