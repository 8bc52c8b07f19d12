//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package milvus provides a Milvus backed VectorStore for entity names.
package milvus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	client "github.com/milvus-io/milvus/client/v2/milvusclient"

	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/document"
	"trpc.group/trpc-go/trpc-graphqa-go/knowledge/vectorstore"
	"trpc.group/trpc-go/trpc-graphqa-go/log"
	"trpc.group/trpc-go/trpc-graphqa-go/storage/milvus"
)

var _ vectorstore.VectorStore = (*VectorStore)(nil)

const countField = "count(*)"

var (
	errDocumentRequired   = errors.New("milvus document is required")
	errDocumentIDRequired = errors.New("milvus document ID is required")
	errQueryRequired      = errors.New("milvus query vector is required")
)

// VectorStore is the vector store for Milvus.
type VectorStore struct {
	client milvus.Client
	option options
}

// New connects to Milvus, creating and loading the collection when needed.
func New(ctx context.Context, opts ...Option) (*VectorStore, error) {
	option := defaultOptions
	for _, opt := range opts {
		opt(&option)
	}

	milvusClient, err := milvus.GetClientBuilder()(ctx,
		milvus.WithAddress(option.address),
		milvus.WithToken(option.token),
		milvus.WithDBName(option.dbName),
		milvus.WithDialOptions(option.dialOpts...),
	)
	if err != nil {
		return nil, fmt.Errorf("create milvus client failed: %w", err)
	}

	vs := &VectorStore{client: milvusClient, option: option}
	if err := vs.initCollection(ctx); err != nil {
		_ = milvusClient.Close(ctx)
		return nil, fmt.Errorf("initialize milvus collection failed: %w", err)
	}
	return vs, nil
}

func (vs *VectorStore) initCollection(ctx context.Context) error {
	exists, err := vs.client.HasCollection(ctx, client.NewHasCollectionOption(vs.option.collectionName))
	if err != nil {
		return fmt.Errorf("check collection existence failed: %w", err)
	}
	if !exists {
		log.Infof("creating milvus collection %s (dim %d)", vs.option.collectionName, vs.option.dimension)
		if err := vs.createCollection(ctx); err != nil {
			return err
		}
	}

	loadTask, err := vs.client.LoadCollection(ctx, client.NewLoadCollectionOption(vs.option.collectionName))
	if err != nil {
		return fmt.Errorf("load collection failed: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("wait for load collection failed: %w", err)
	}
	return nil
}

func (vs *VectorStore) schema() *entity.Schema {
	return &entity.Schema{
		CollectionName: vs.option.collectionName,
		Description:    "trpc-graphqa-go entity names",
		AutoID:         false,
		Fields: []*entity.Field{
			entity.NewField().
				WithName(vs.option.idField).
				WithDataType(entity.FieldTypeVarChar).
				WithIsPrimaryKey(true).
				WithMaxLength(64),
			entity.NewField().
				WithName(vs.option.nameField).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(256),
			entity.NewField().
				WithName(vs.option.contentField).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(4096),
			entity.NewField().
				WithName(vs.option.vectorField).
				WithDataType(entity.FieldTypeFloatVector).
				WithDim(int64(vs.option.dimension)),
			entity.NewField().
				WithName(vs.option.metadataField).
				WithDataType(entity.FieldTypeJSON),
			entity.NewField().
				WithName(vs.option.createdAtField).
				WithDataType(entity.FieldTypeInt64),
			entity.NewField().
				WithName(vs.option.updatedAtField).
				WithDataType(entity.FieldTypeInt64),
		},
	}
}

func (vs *VectorStore) vectorIndex() index.Index {
	if vs.option.enableHNSW {
		return index.NewHNSWIndex(vs.option.metricType, vs.option.hnswM, vs.option.efConstruction)
	}
	return index.NewAutoIndex(vs.option.metricType)
}

func (vs *VectorStore) createCollection(ctx context.Context) error {
	indexOption := client.NewCreateIndexOption(vs.option.collectionName, vs.option.vectorField, vs.vectorIndex())
	createOption := client.NewCreateCollectionOption(vs.option.collectionName, vs.schema()).
		WithIndexOptions(indexOption)
	if err := vs.client.CreateCollection(ctx, createOption); err != nil {
		return fmt.Errorf("create collection failed: %w", err)
	}
	return nil
}

// Add implements vectorstore.VectorStore.
func (vs *VectorStore) Add(ctx context.Context, doc *document.Document, embedding []float64) error {
	if doc == nil {
		return errDocumentRequired
	}
	if doc.ID == "" {
		return errDocumentIDRequired
	}
	if len(embedding) == 0 {
		return fmt.Errorf("milvus embedding is required for %s", doc.ID)
	}
	if len(embedding) != vs.option.dimension {
		return fmt.Errorf("milvus embedding dimension mismatch: expected %d, got %d", vs.option.dimension, len(embedding))
	}

	metadata := doc.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataBytes, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("milvus marshal metadata failed: %w", err)
	}
	now := time.Now().Unix()
	createdAt := now
	if !doc.CreatedAt.IsZero() {
		createdAt = doc.CreatedAt.Unix()
	}

	insertOption := client.NewColumnBasedInsertOption(vs.option.collectionName).
		WithVarcharColumn(vs.option.idField, []string{doc.ID}).
		WithVarcharColumn(vs.option.nameField, []string{doc.Name}).
		WithVarcharColumn(vs.option.contentField, []string{doc.Content}).
		WithFloatVectorColumn(vs.option.vectorField, vs.option.dimension, [][]float32{toFloat32(embedding)}).
		WithColumns(column.NewColumnJSONBytes(vs.option.metadataField, [][]byte{metadataBytes})).
		WithInt64Column(vs.option.createdAtField, []int64{createdAt}).
		WithInt64Column(vs.option.updatedAtField, []int64{now})
	if _, err := vs.client.Insert(ctx, insertOption); err != nil {
		return fmt.Errorf("milvus insert document failed: %w", err)
	}
	return nil
}

// Search implements vectorstore.VectorStore.
func (vs *VectorStore) Search(ctx context.Context, query *vectorstore.SearchQuery) (*vectorstore.SearchResult, error) {
	if query == nil || len(query.Vector) == 0 {
		return nil, errQueryRequired
	}
	limit := query.Limit
	if limit <= 0 {
		limit = vs.option.maxResults
	}

	searchOption := client.NewSearchOption(vs.option.collectionName, limit,
		[]entity.Vector{entity.FloatVector(toFloat32(query.Vector))})
	searchOption.WithANNSField(vs.option.vectorField)
	searchOption.WithOutputFields(vs.outputFields()...)
	result, err := vs.client.Search(ctx, searchOption)
	if err != nil {
		return nil, fmt.Errorf("milvus vector search failed: %w", err)
	}
	return vs.convertSearchResult(result, query.MinScore)
}

// Count implements vectorstore.VectorStore.
func (vs *VectorStore) Count(ctx context.Context) (int, error) {
	queryOption := client.NewQueryOption(vs.option.collectionName).
		WithOutputFields(countField)
	result, err := vs.client.Query(ctx, queryOption)
	if err != nil {
		return 0, fmt.Errorf("milvus count documents failed: %w", err)
	}
	col := result.GetColumn(countField)
	if col == nil || col.Len() == 0 {
		return 0, nil
	}
	n, err := col.GetAsInt64(0)
	if err != nil {
		return 0, fmt.Errorf("milvus read count failed: %w", err)
	}
	return int(n), nil
}

// Close implements vectorstore.VectorStore.
func (vs *VectorStore) Close() error {
	if vs.client == nil {
		return nil
	}
	return vs.client.Close(context.Background())
}

func (vs *VectorStore) outputFields() []string {
	return []string{
		vs.option.idField,
		vs.option.nameField,
		vs.option.contentField,
		vs.option.metadataField,
		vs.option.createdAtField,
		vs.option.updatedAtField,
	}
}

func (vs *VectorStore) convertSearchResult(result []client.ResultSet, minScore float64) (*vectorstore.SearchResult, error) {
	searchResult := &vectorstore.SearchResult{Results: make([]*vectorstore.ScoredDocument, 0)}
	if len(result) == 0 {
		return searchResult, nil
	}
	if len(result) > 1 {
		return nil, fmt.Errorf("milvus search returned multiple result sets, expected 1, got: %d", len(result))
	}
	rs := result[0]
	if rs.Len() == 0 {
		return searchResult, nil
	}

	docs, err := vs.convertResultToDocuments(rs)
	if err != nil {
		return nil, fmt.Errorf("convert result to document failed: %w", err)
	}
	metric := vs.metricType()
	for i, doc := range docs {
		if i >= len(rs.Scores) {
			break
		}
		score := vectorstore.NormalizeScore(float64(rs.Scores[i]), metric)
		if score < minScore {
			continue
		}
		searchResult.Results = append(searchResult.Results, &vectorstore.ScoredDocument{Document: doc, Score: score})
	}
	sort.SliceStable(searchResult.Results, func(i, j int) bool {
		return searchResult.Results[i].Score > searchResult.Results[j].Score
	})
	return searchResult, nil
}

func (vs *VectorStore) convertResultToDocuments(rs client.ResultSet) ([]*document.Document, error) {
	n := rs.Len()
	docs := make([]*document.Document, n)
	for i := range docs {
		docs[i] = &document.Document{}
	}

	stringFields := map[string]func(*document.Document, string){
		vs.option.idField:      func(d *document.Document, v string) { d.ID = v },
		vs.option.nameField:    func(d *document.Document, v string) { d.Name = v },
		vs.option.contentField: func(d *document.Document, v string) { d.Content = v },
	}
	for field, set := range stringFields {
		col := rs.GetColumn(field)
		if col == nil {
			continue
		}
		for i := 0; i < col.Len() && i < n; i++ {
			val, err := col.GetAsString(i)
			if err != nil {
				return nil, fmt.Errorf("get %s failed: %w", field, err)
			}
			set(docs[i], val)
		}
	}

	if col := rs.GetColumn(vs.option.metadataField); col != nil {
		for i := 0; i < col.Len() && i < n; i++ {
			val, err := col.Get(i)
			if err != nil {
				return nil, fmt.Errorf("get metadata failed: %w", err)
			}
			switch m := val.(type) {
			case []byte:
				var metadata map[string]any
				if err := json.Unmarshal(m, &metadata); err == nil {
					docs[i].Metadata = metadata
				}
			case map[string]any:
				docs[i].Metadata = m
			}
		}
	}

	timeFields := map[string]func(*document.Document, time.Time){
		vs.option.createdAtField: func(d *document.Document, v time.Time) { d.CreatedAt = v },
		vs.option.updatedAtField: func(d *document.Document, v time.Time) { d.UpdatedAt = v },
	}
	for field, set := range timeFields {
		col := rs.GetColumn(field)
		if col == nil {
			continue
		}
		for i := 0; i < col.Len() && i < n; i++ {
			val, err := col.GetAsInt64(i)
			if err != nil {
				return nil, fmt.Errorf("get %s failed: %w", field, err)
			}
			set(docs[i], time.Unix(val, 0))
		}
	}
	return docs, nil
}

func (vs *VectorStore) metricType() vectorstore.MetricType {
	switch vs.option.metricType {
	case entity.L2:
		return vectorstore.MetricL2
	case entity.IP:
		return vectorstore.MetricIP
	default:
		return vectorstore.MetricCosine
	}
}

func toFloat32(embedding []float64) []float32 {
	out := make([]float32, len(embedding))
	for i, v := range embedding {
		out[i] = float32(v)
	}
	return out
}
