//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package lexical provides an offline embedder built from hashed character
// trigrams of accent-folded text. Names that differ only in diacritics or
// case embed to the same vector.
package lexical

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/embedder"
)

var _ embedder.Embedder = (*Embedder)(nil)

// DefaultDimensions is the default vector length.
const DefaultDimensions = 256

var errEmptyText = errors.New("text cannot be empty")

// Embedder hashes character trigrams into a fixed size vector.
type Embedder struct {
	dimensions int
}

// Option configures the Embedder.
type Option func(*Embedder)

// WithDimensions sets the vector length.
func WithDimensions(n int) Option {
	return func(e *Embedder) {
		if n > 0 {
			e.dimensions = n
		}
	}
}

// New creates an Embedder.
func New(opts ...Option) *Embedder {
	e := &Embedder{dimensions: DefaultDimensions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetDimensions implements embedder.Embedder.
func (e *Embedder) GetDimensions() int {
	return e.dimensions
}

// GetEmbedding implements embedder.Embedder. The result has unit length.
func (e *Embedder) GetEmbedding(_ context.Context, text string) ([]float64, error) {
	folded := Fold(text)
	if folded == "" {
		return nil, errEmptyText
	}
	vec := make([]float64, e.dimensions)
	for _, word := range strings.Fields(folded) {
		padded := []rune(" " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			vec[e.bucket(string(padded[i:i+3]))]++
		}
	}
	var norm2 float64
	for _, v := range vec {
		norm2 += v * v
	}
	if norm2 == 0 {
		return vec, nil
	}
	l := math.Sqrt(norm2)
	for i := range vec {
		vec[i] /= l
	}
	return vec, nil
}

func (e *Embedder) bucket(gram string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(gram))
	return int(h.Sum32() % uint32(e.dimensions))
}

// Fold lower-cases text, strips diacritics and collapses whitespace.
// "Đại học Bách Khoa" folds to "dai hoc bach khoa".
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	folded = strings.Map(func(r rune) rune {
		switch r {
		case 'đ', 'Đ':
			return 'd'
		}
		if unicode.IsPunct(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}
