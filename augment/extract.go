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
	"regexp"
	"strings"
)

// entityPattern matches a property map entry such as {name: "Bach Khoa"}.
// Only the first entry of a map is seen. Nested braces and escaped quotes
// are not understood.
var entityPattern = regexp.MustCompile(`\{\s*\w+\s*:\s*"([^"]*)"`)

// ExtractEntities returns the distinct entity literals of query in order of
// first occurrence. Single quotes are treated as double quotes and empty
// literals are ignored.
func ExtractEntities(query string) []string {
	normalized := strings.ReplaceAll(query, "'", `"`)
	matches := entityPattern.FindAllStringSubmatch(normalized, -1)
	if len(matches) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(matches))
	literals := make([]string, 0, len(matches))
	for _, m := range matches {
		literal := m[1]
		if literal == "" {
			continue
		}
		if _, ok := seen[literal]; ok {
			continue
		}
		seen[literal] = struct{}{}
		literals = append(literals, literal)
	}
	return literals
}
