//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package document defines the unit stored in the entity index.
package document

import "time"

// Metadata keys written by the indexer.
const (
	MetaLabel  = "label"
	MetaSource = "source"
)

// Document is one indexed entity name.
type Document struct {
	// ID is the unique identifier.
	ID string `json:"id"`
	// Name is the entity label, such as "Stop" or "Route".
	Name string `json:"name"`
	// Content is the entity name that gets embedded and matched.
	Content string `json:"content"`
	// Metadata holds extra attributes.
	Metadata map[string]any `json:"metadata,omitempty"`
	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the document was last indexed.
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy of d with its own metadata map.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	if d.Metadata != nil {
		c.Metadata = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
