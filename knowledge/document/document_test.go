//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClone(t *testing.T) {
	var nilDoc *Document
	assert.Nil(t, nilDoc.Clone())

	d := &Document{ID: "1", Name: "Stop", Content: "Kim Mã", Metadata: map[string]any{MetaLabel: "Stop"}}
	c := d.Clone()
	assert.Equal(t, d, c)

	c.Metadata[MetaLabel] = "Route"
	assert.Equal(t, "Stop", d.Metadata[MetaLabel])
}
