//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-graphqa-go/augment"
)

func newAugmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "augment <cypher>",
		Short: "Print the entity-resolved rewrites of a query, best first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settingsFrom(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newGraphApp(ctx, s)
			if err != nil {
				return err
			}
			defer a.close(context.Background())
			if err := a.warmUp(ctx); err != nil {
				return err
			}
			ranked, err := a.augmenter.Augment(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			printRanked(cmd.OutOrStdout(), ranked)
			return nil
		},
	}
	return cmd
}

func printRanked(w io.Writer, ranked []*augment.RankedQuery) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "no entity-resolved queries")
		return
	}
	for i, rq := range ranked {
		fmt.Fprintf(w, "#%d score=%.4f\n", i+1, rq.Score)
		for j, literal := range rq.SourceLiterals {
			fmt.Fprintf(w, "  %q -> %q\n", literal, rq.Replacements[j])
		}
		fmt.Fprintln(w, rq.Query)
	}
}
