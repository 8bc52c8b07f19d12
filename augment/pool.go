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
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

type resolveParam struct {
	idx      int
	ctx      context.Context
	literal  string
	resolver *Resolver
	sets     [][]Candidate
	errs     []error
	wg       *sync.WaitGroup
}

func (p *resolveParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.literal = ""
	p.resolver = nil
	p.sets = nil
	p.errs = nil
	p.wg = nil
}

var resolveParamPool = &sync.Pool{
	New: func() any { return new(resolveParam) },
}

func createResolvePool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*resolveParam)
		if !ok {
			panic("resolve pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			resolveParamPool.Put(param)
		}()
		param.sets[param.idx], param.errs[param.idx] = param.resolver.Resolve(param.ctx, param.literal)
	})
	if err != nil {
		return nil, fmt.Errorf("create resolve pool: %w", err)
	}
	return pool, nil
}
