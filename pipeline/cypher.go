//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package pipeline

import (
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(.*?)```")

// ExtractCypher returns the query inside the first fenced code block of
// text, without its language tag. Text without a fence is returned trimmed.
func ExtractCypher(text string) string {
	m := fencedBlock.FindStringSubmatch(text)
	if m == nil {
		return strings.TrimSpace(text)
	}
	body := m[1]
	if first, rest, ok := strings.Cut(body, "\n"); ok && isLanguageTag(first) {
		body = rest
	} else if !ok && isLanguageTag(strings.TrimSpace(body)) {
		body = ""
	}
	return strings.TrimSpace(body)
}

func isLanguageTag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cypher", "cql", "neo4j":
		return true
	}
	return false
}
