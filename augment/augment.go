//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package augment resolves the entity literals of a generated graph query
// against a semantic index of known entity names and returns the rewritten
// candidate queries ranked best first.
//
// Augmentation runs extract, resolve, rank and rewrite in order. A draft with
// no literals, or with a literal that resolves to nothing, yields no results.
package augment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-graphqa-go/log"
	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/trace"
)

// RankedQuery is one entity-resolved rewrite of a draft query.
type RankedQuery struct {
	// Query is the rewritten query text.
	Query string
	// Score is the mean candidate score of the combination.
	Score float64
	// SourceLiterals are the literals of the draft, in extraction order.
	SourceLiterals []string
	// Replacements[i] replaced SourceLiterals[i].
	Replacements []string
}

// Augmenter turns draft queries into ranked entity-resolved queries.
type Augmenter struct {
	resolver *Resolver
	pool     *ants.PoolWithFunc
	opts     *options
}

// New creates an Augmenter backed by index. Close releases its workers.
func New(index Index, opts ...Option) (*Augmenter, error) {
	if index == nil {
		return nil, errIndexRequired
	}
	o := newOptions(opts...)
	pool, err := createResolvePool(o.concurrency)
	if err != nil {
		return nil, err
	}
	return &Augmenter{
		resolver: NewResolver(index, o.maxCandidates),
		pool:     pool,
		opts:     o,
	}, nil
}

// Close releases the resolution workers.
func (a *Augmenter) Close() {
	a.pool.Release()
}

// Augment returns the rewrites of draft ordered by descending score.
// Failures are returned as *Error and no partial list is ever returned.
func (a *Augmenter) Augment(ctx context.Context, draft string) (result []*RankedQuery, err error) {
	ctx, span := trace.Tracer.Start(ctx, "augment")
	defer func() {
		span.SetAttributes(attribute.Int("graphqa.augment.results", len(result)))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	literals := ExtractEntities(draft)
	span.SetAttributes(attribute.StringSlice("graphqa.augment.literals", literals))
	if len(literals) == 0 {
		log.DebugfContext(ctx, "augment: no entity literals in query")
		if a.opts.passThrough {
			return []*RankedQuery{{
				Query:          draft,
				Score:          defaultScore,
				SourceLiterals: []string{},
				Replacements:   []string{},
			}}, nil
		}
		return []*RankedQuery{}, nil
	}

	sets, err := a.resolveAll(ctx, literals)
	if err != nil {
		log.ErrorfContext(ctx, "augment: resolve entities %q: %v", literals, err)
		return nil, err
	}
	for i, set := range sets {
		if len(set) == 0 {
			log.WarnfContext(ctx, "augment: no candidates for entity %q", literals[i])
			metric.RecordCombinations(0)
			return []*RankedQuery{}, nil
		}
	}

	combos, err := Rank(literals, sets)
	if err != nil {
		return nil, &Error{Stage: StageRank, Message: "rank combinations", Err: err}
	}
	metric.RecordCombinations(len(combos))
	span.AddEvent("ranked", oteltrace.WithAttributes(attribute.Int("graphqa.augment.combinations", len(combos))))

	result = make([]*RankedQuery, 0, len(combos))
	for _, combo := range combos {
		replacements := combo.Contents()
		query, err := Rewrite(draft, literals, replacements)
		if err != nil {
			return nil, &Error{Stage: StageRewrite, Message: "rewrite query", Err: err}
		}
		result = append(result, &RankedQuery{
			Query:          query,
			Score:          combo.Score,
			SourceLiterals: literals,
			Replacements:   replacements,
		})
	}
	return result, nil
}

// resolveAll resolves every literal on the worker pool. sets[i] always
// belongs to literals[i], whatever order the searches complete in.
func (a *Augmenter) resolveAll(ctx context.Context, literals []string) ([][]Candidate, error) {
	sets := make([][]Candidate, len(literals))
	errs := make([]error, len(literals))
	var wg sync.WaitGroup
	for i, literal := range literals {
		param := resolveParamPool.Get().(*resolveParam)
		param.idx = i
		param.ctx = ctx
		param.literal = literal
		param.resolver = a.resolver
		param.sets = sets
		param.errs = errs
		param.wg = &wg
		wg.Add(1)
		if err := a.pool.Invoke(param); err != nil {
			wg.Done()
			param.reset()
			resolveParamPool.Put(param)
			errs[i] = fmt.Errorf("submit resolution: %w", err)
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrResolution) {
			err = fmt.Errorf("%w: %w", ErrResolution, err)
		}
		return nil, &Error{
			Stage:   StageResolve,
			Message: fmt.Sprintf("cannot link entity %q", literals[i]),
			Err:     err,
		}
	}
	return sets, nil
}
