//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

package milvus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestSetGetClientBuilder(t *testing.T) {
	oldBuilder := GetClientBuilder()
	defer func() { SetClientBuilder(oldBuilder) }()

	var gotAddress string
	SetClientBuilder(func(_ context.Context, opts ...ClientBuilderOpt) (Client, error) {
		cfg := &ClientBuilderOpts{}
		for _, opt := range opts {
			opt(cfg)
		}
		gotAddress = cfg.Address
		return nil, nil
	})
	_, err := GetClientBuilder()(context.Background(), WithAddress("localhost:19530"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:19530", gotAddress)
}

func TestDefaultClientBuilder_EmptyAddress(t *testing.T) {
	_, err := defaultClientBuilder(context.Background())
	require.ErrorIs(t, err, errEmptyAddress)
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name     string
		opts     []ClientBuilderOpt
		user     string
		password string
		apiKey   string
		dbName   string
	}{
		{
			name: "no token",
			opts: []ClientBuilderOpt{WithAddress("localhost:19530")},
		},
		{
			name:     "user and password token",
			opts:     []ClientBuilderOpt{WithAddress("localhost:19530"), WithToken("root:Milvus")},
			user:     "root",
			password: "Milvus",
		},
		{
			name:   "api key token",
			opts:   []ClientBuilderOpt{WithAddress("https://in01.zillizcloud.com"), WithToken("abc123"), WithDBName("transit")},
			apiKey: "abc123",
			dbName: "transit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := newConfig(tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.user, cfg.Username)
			assert.Equal(t, tt.password, cfg.Password)
			assert.Equal(t, tt.apiKey, cfg.APIKey)
			assert.Equal(t, tt.dbName, cfg.DBName)
			assert.Len(t, cfg.DialOptions, 1)
		})
	}
}

func TestNewConfig_DialOptions(t *testing.T) {
	cfg, err := newConfig(
		WithAddress("localhost:19530"),
		WithDialOptions(
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithUserAgent("graphqa"),
		),
	)
	require.NoError(t, err)
	assert.Len(t, cfg.DialOptions, 2)
}
