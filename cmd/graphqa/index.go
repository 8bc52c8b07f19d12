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

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Load the entity names of the graph into the vector store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			if a.ephemeral {
				return fmt.Errorf("MILVUS_URI is required to build a persistent index")
			}
			stats, err := a.index(ctx)
			if stats != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "read %d, skipped %d, indexed %d, failed %d in %s\n",
					stats.Read, stats.Skipped, stats.Indexed, stats.Failed, stats.Duration)
			}
			return err
		},
	}
}
