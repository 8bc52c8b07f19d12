//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package prompt renders the prompts sent to the chat model.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
)

// ErrEmptyQuestion is returned when a prompt is rendered without a question.
var ErrEmptyQuestion = errors.New("question is empty")

// Template is a named prompt template.
type Template struct {
	tmpl *template.Template
}

// New parses text as a prompt template. Fields are referenced as {{.Name}}.
func New(name, text string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s prompt: %w", name, err)
	}
	return &Template{tmpl: tmpl}, nil
}

// MustNew is like New but panics on a parse error.
func MustNew(name, text string) *Template {
	t, err := New(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.tmpl.Name()
}

// Render executes the template with data.
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute %s prompt: %w", t.tmpl.Name(), err)
	}
	return buf.String(), nil
}
