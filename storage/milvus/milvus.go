//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package milvus builds connections to a Milvus server.
package milvus

import (
	"context"
	"errors"
	"strings"
	"time"

	client "github.com/milvus-io/milvus/client/v2/milvusclient"
	"google.golang.org/grpc"
)

const defaultDialTimeout = 5 * time.Second

var errEmptyAddress = errors.New("milvus address is empty")

// Client is the subset of the milvus client used by the entity index.
type Client interface {
	HasCollection(ctx context.Context, option client.HasCollectionOption, callOptions ...grpc.CallOption) (has bool, err error)
	CreateCollection(ctx context.Context, option client.CreateCollectionOption, callOptions ...grpc.CallOption) error
	LoadCollection(ctx context.Context, option client.LoadCollectionOption, callOptions ...grpc.CallOption) (client.LoadTask, error)
	Insert(ctx context.Context, option client.InsertOption, callOptions ...grpc.CallOption) (client.InsertResult, error)
	Query(ctx context.Context, option client.QueryOption, callOptions ...grpc.CallOption) (client.ResultSet, error)
	Search(ctx context.Context, option client.SearchOption, callOptions ...grpc.CallOption) ([]client.ResultSet, error)
	Close(ctx context.Context) error
}

type clientBuilder func(ctx context.Context, builderOpts ...ClientBuilderOpt) (Client, error)

var globalBuilder clientBuilder = defaultClientBuilder

// SetClientBuilder replaces the milvus client builder.
func SetClientBuilder(builder clientBuilder) {
	globalBuilder = builder
}

// GetClientBuilder returns the milvus client builder.
func GetClientBuilder() clientBuilder {
	return globalBuilder
}

// ClientBuilderOpt is the option for the milvus client.
type ClientBuilderOpt func(*ClientBuilderOpts)

// ClientBuilderOpts is the options for the milvus client.
type ClientBuilderOpts struct {
	// Address is the server address, "localhost:19530" or an http(s) URI.
	Address string
	// Token is either "user:password" or a Zilliz Cloud API key.
	Token string
	// DBName is the name of the database, "default" when empty.
	DBName string
	// DialOptions are passed to grpc.
	DialOptions []grpc.DialOption
}

// WithAddress sets the address of the milvus server.
func WithAddress(address string) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.Address = address
	}
}

// WithToken sets the access token.
func WithToken(token string) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.Token = token
	}
}

// WithDBName sets the database name.
func WithDBName(dbName string) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.DBName = dbName
	}
}

// WithDialOptions sets the grpc dial options.
func WithDialOptions(opts ...grpc.DialOption) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.DialOptions = opts
	}
}

// newConfig translates builder options into a client config.
func newConfig(builderOpts ...ClientBuilderOpt) (*client.ClientConfig, error) {
	opts := &ClientBuilderOpts{}
	for _, opt := range builderOpts {
		opt(opts)
	}
	if opts.Address == "" {
		return nil, errEmptyAddress
	}

	cfg := &client.ClientConfig{Address: opts.Address, DBName: opts.DBName}
	if opts.Token != "" {
		if user, password, ok := strings.Cut(opts.Token, ":"); ok {
			cfg.Username = user
			cfg.Password = password
		} else {
			cfg.APIKey = opts.Token
		}
	}
	if len(opts.DialOptions) > 0 {
		cfg.DialOptions = opts.DialOptions
	} else {
		cfg.DialOptions = []grpc.DialOption{grpc.WithTimeout(defaultDialTimeout)}
	}
	return cfg, nil
}

func defaultClientBuilder(ctx context.Context, builderOpts ...ClientBuilderOpt) (Client, error) {
	cfg, err := newConfig(builderOpts...)
	if err != nil {
		return nil, err
	}
	return client.New(ctx, cfg)
}
