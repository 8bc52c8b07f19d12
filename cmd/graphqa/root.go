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

	"trpc.group/trpc-go/trpc-graphqa-go/config"
	"trpc.group/trpc-go/trpc-graphqa-go/log"
	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/trace"
)

type rootFlags struct {
	envFile  string
	logLevel string
	noFile   bool
}

// settingsKey stores the loaded settings in the command context.
type settingsKey struct{}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	var shutdownTrace func() error

	root := &cobra.Command{
		Use:           "graphqa",
		Short:         "Question answering over a Neo4j knowledge graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.Load(flags.envFile)
			if err != nil {
				return err
			}
			if flags.logLevel != "" {
				s.Log.Level = flags.logLevel
			}
			if flags.noFile {
				s.Log.File = ""
			}
			log.SetLevel(s.Log.Level)
			if err := log.SetOutput(s.Log.File); err != nil {
				return fmt.Errorf("open log file %s: %w", s.Log.File, err)
			}
			if s.Telemetry.Endpoint != "" {
				shutdownTrace, err = trace.Start(cmd.Context(),
					trace.WithServiceName(s.Telemetry.ServiceName),
					trace.WithEndpoint(s.Telemetry.Endpoint),
				)
				if err != nil {
					log.Warnf("tracing disabled: %v", err)
				}
			}
			cmd.SetContext(context.WithValue(cmd.Context(), settingsKey{}, s))
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if shutdownTrace != nil {
				if err := shutdownTrace(); err != nil {
					log.Warnf("shutdown tracing: %v", err)
				}
			}
			return log.Close()
		},
	}
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override LOG_LEVEL")
	root.PersistentFlags().BoolVar(&flags.noFile, "no-log-file", false, "log to stdout only")

	root.AddCommand(
		newServeCmd(),
		newAskCmd(),
		newIndexCmd(),
		newAugmentCmd(),
	)
	return root
}

// settingsFrom returns the validated settings loaded by the root command.
func settingsFrom(cmd *cobra.Command) (*config.Settings, error) {
	s, ok := cmd.Context().Value(settingsKey{}).(*config.Settings)
	if !ok || s == nil {
		return nil, fmt.Errorf("settings not loaded")
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}
