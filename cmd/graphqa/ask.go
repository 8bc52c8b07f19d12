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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settingsFrom(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newQAApp(ctx, s)
			if err != nil {
				return err
			}
			defer a.close(context.Background())
			if err := a.warmUp(ctx); err != nil {
				return err
			}

			state, err := a.pipeline.Ask(ctx, strings.Join(args, " "))
			if verbose && state != nil {
				enc := json.NewEncoder(cmd.ErrOrStderr())
				enc.SetIndent("", "  ")
				_ = enc.Encode(state)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), state.Answer)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the pipeline state to stderr")
	return cmd
}
