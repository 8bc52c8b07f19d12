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
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-graphqa-go/log"
	"trpc.group/trpc-go/trpc-graphqa-go/server/chat"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API and web page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			if addr == "" {
				addr = ":" + strconv.Itoa(s.Server.Port)
			}
			srv := chat.New(a.pipeline,
				chat.WithHealthCheck("neo4j", func(ctx context.Context) error {
					_, err := a.store.Query(ctx, "RETURN 1", nil)
					return err
				}),
			)
			return listenAndServe(ctx, addr, srv.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, defaults to :APPLICATION_API_PORT")
	return cmd
}

// listenAndServe runs the HTTP server until ctx is done.
func listenAndServe(ctx context.Context, addr string, h http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
