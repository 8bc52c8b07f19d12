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
	"fmt"
	"sort"
	"strings"
)

// Rewrite replaces every occurrence of literals[i] in query with
// replacements[i]. All occurrences are located in the original query and
// replaced in a single left to right pass, so replacement text is never
// substituted again. Where literals overlap the longest one wins.
func Rewrite(query string, literals, replacements []string) (string, error) {
	if len(literals) != len(replacements) {
		return "", fmt.Errorf("%w: %d literals, %d replacements", ErrLengthMismatch, len(literals), len(replacements))
	}
	order := make([]int, 0, len(literals))
	for i, literal := range literals {
		if literal == "" {
			continue
		}
		order = append(order, i)
	}
	if len(order) == 0 {
		return query, nil
	}
	// strings.Replacer tries old strings in argument order at each position.
	sort.SliceStable(order, func(a, b int) bool {
		return len(literals[order[a]]) > len(literals[order[b]])
	})
	pairs := make([]string, 0, 2*len(order))
	for _, i := range order {
		pairs = append(pairs, literals[i], replacements[i])
	}
	return strings.NewReplacer(pairs...).Replace(query), nil
}
