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
	"github.com/milvus-io/milvus/client/v2/entity"
	"google.golang.org/grpc"
)

const (
	defaultCollectionName = "entities"
	defaultDimension      = 1536
	defaultMaxResults     = 10
	defaultHNSWM          = 16
	defaultEfConstruction = 128
)

type options struct {
	address  string
	token    string
	dbName   string
	dialOpts []grpc.DialOption

	collectionName string
	dimension      int
	metricType     entity.MetricType
	enableHNSW     bool
	hnswM          int
	efConstruction int
	maxResults     int

	idField        string
	nameField      string
	contentField   string
	vectorField    string
	metadataField  string
	createdAtField string
	updatedAtField string
}

var defaultOptions = options{
	collectionName: defaultCollectionName,
	dimension:      defaultDimension,
	metricType:     entity.COSINE,
	enableHNSW:     true,
	hnswM:          defaultHNSWM,
	efConstruction: defaultEfConstruction,
	maxResults:     defaultMaxResults,
	idField:        "id",
	nameField:      "name",
	contentField:   "content",
	vectorField:    "vector",
	metadataField:  "metadata",
	createdAtField: "created_at",
	updatedAtField: "updated_at",
}

// Option configures the VectorStore.
type Option func(*options)

// WithAddress sets the Milvus address, "localhost:19530" or an http(s) URI.
func WithAddress(address string) Option {
	return func(o *options) {
		o.address = address
	}
}

// WithToken sets the access token, "user:password" or an API key.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithDBName sets the database name.
func WithDBName(dbName string) Option {
	return func(o *options) {
		o.dbName = dbName
	}
}

// WithDialOptions sets grpc dial options.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) {
		o.dialOpts = opts
	}
}

// WithCollectionName sets the collection holding entity names.
func WithCollectionName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.collectionName = name
		}
	}
}

// WithDimension sets the embedding dimension of the vector field.
func WithDimension(dimension int) Option {
	return func(o *options) {
		if dimension > 0 {
			o.dimension = dimension
		}
	}
}

// WithMetricType sets the metric used by the vector index.
func WithMetricType(metricType entity.MetricType) Option {
	return func(o *options) {
		o.metricType = metricType
	}
}

// WithHNSWIndex configures the HNSW index. Disabling it falls back to
// AUTOINDEX.
func WithHNSWIndex(enabled bool, m, efConstruction int) Option {
	return func(o *options) {
		o.enableHNSW = enabled
		if m > 0 {
			o.hnswM = m
		}
		if efConstruction > 0 {
			o.efConstruction = efConstruction
		}
	}
}

// WithMaxResults sets the result cap used when a query has no limit.
func WithMaxResults(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxResults = n
		}
	}
}
