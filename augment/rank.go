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
)

// Combination picks one candidate per entity literal, positionally aligned
// with the literal order used to build it.
type Combination struct {
	Candidates []Candidate
	// Score is the mean of the candidate scores.
	Score float64
}

// Contents returns the replacement strings of c in literal order.
func (c Combination) Contents() []string {
	out := make([]string, len(c.Candidates))
	for i, cand := range c.Candidates {
		out[i] = cand.Content
	}
	return out
}

// Rank enumerates the cross product of sets, sets[i] holding the candidates
// of literals[i], and sorts it by descending mean score. Equal scores keep
// enumeration order, where the last literal varies fastest.
//
// An empty set anywhere yields no combinations: dropping a literal would
// silently remove a constraint from the query.
func Rank(literals []string, sets [][]Candidate) ([]Combination, error) {
	if len(literals) != len(sets) {
		return nil, fmt.Errorf("%w: %d literals, %d candidate sets", ErrLengthMismatch, len(literals), len(sets))
	}
	if len(sets) == 0 {
		return nil, nil
	}
	total := 1
	for _, set := range sets {
		if len(set) == 0 {
			return nil, nil
		}
		total *= len(set)
	}

	combos := make([]Combination, 0, total)
	idx := make([]int, len(sets))
	for {
		picked := make([]Candidate, len(sets))
		var sum float64
		for pos, i := range idx {
			picked[pos] = sets[pos][i]
			sum += sets[pos][i].Score
		}
		combos = append(combos, Combination{
			Candidates: picked,
			Score:      sum / float64(len(sets)),
		})
		if !advance(idx, sets) {
			break
		}
	}

	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].Score > combos[j].Score
	})
	return combos, nil
}

// advance moves idx to the next cross product position, odometer style.
// It returns false after the last position.
func advance(idx []int, sets [][]Candidate) bool {
	for pos := len(idx) - 1; pos >= 0; pos-- {
		idx[pos]++
		if idx[pos] < len(sets[pos]) {
			return true
		}
		idx[pos] = 0
	}
	return false
}
