//
// Tencent is pleased to support the open source community by making trpc-graphqa-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-graphqa-go is licensed under the Apache License Version 2.0.
//
//

// Package neo4j provides a graphstore.Store backed by the Neo4j driver.
package neo4j

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"trpc.group/trpc-go/trpc-graphqa-go/graphstore"
	"trpc.group/trpc-go/trpc-graphqa-go/log"
	"trpc.group/trpc-go/trpc-graphqa-go/telemetry/trace"
)

var _ graphstore.Store = (*Store)(nil)

const (
	nodePropertiesQuery = `CALL db.schema.nodeTypeProperties()
YIELD nodeLabels, propertyName, propertyTypes
RETURN nodeLabels, propertyName, propertyTypes`
	relPropertiesQuery = `CALL db.schema.relTypeProperties()
YIELD relType, propertyName, propertyTypes
RETURN relType, propertyName, propertyTypes`
	relationshipsQuery = `MATCH (a)-[r]->(b)
WITH DISTINCT labels(a) AS starts, type(r) AS rel, labels(b) AS ends
UNWIND starts AS start
UNWIND ends AS end
RETURN DISTINCT start, rel, end`
)

var errURLRequired = errors.New("neo4j url is required")

// runner executes one query and returns its records.
type runner interface {
	run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
	close(ctx context.Context) error
}

// Store is a graphstore.Store over a Neo4j database.
type Store struct {
	runner runner
	opts   options
}

type options struct {
	url          string
	user         string
	password     string
	database     string
	queryTimeout time.Duration
}

// Option configures the Store.
type Option func(*options)

// WithURL sets the bolt or neo4j URL.
func WithURL(url string) Option {
	return func(o *options) {
		o.url = url
	}
}

// WithBasicAuth sets the credentials.
func WithBasicAuth(user, password string) Option {
	return func(o *options) {
		o.user = user
		o.password = password
	}
}

// WithDatabase selects the database. The server default is used when empty.
func WithDatabase(database string) Option {
	return func(o *options) {
		o.database = database
	}
}

// WithQueryTimeout bounds each query. Zero disables the bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) {
		o.queryTimeout = d
	}
}

// New connects to Neo4j and verifies the connection.
func New(ctx context.Context, opts ...Option) (*Store, error) {
	o := options{queryTimeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if o.url == "" {
		return nil, errURLRequired
	}
	driver, err := neo4j.NewDriverWithContext(o.url, neo4j.BasicAuth(o.user, o.password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	log.Infof("connected to neo4j at %s", o.url)
	return &Store{runner: &driverRunner{driver: driver, database: o.database}, opts: o}, nil
}

// Query implements graphstore.Store.
func (s *Store) Query(ctx context.Context, cypher string, params map[string]any) (rows []graphstore.Row, err error) {
	if strings.TrimSpace(cypher) == "" {
		return nil, graphstore.ErrEmptyQuery
	}
	ctx, span := trace.Tracer.Start(ctx, "graphstore.query")
	span.SetAttributes(attribute.String("db.system", "neo4j"), attribute.String("db.query.text", cypher))
	defer func() {
		span.SetAttributes(attribute.Int("db.response.returned_rows", len(rows)))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if s.opts.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.queryTimeout)
		defer cancel()
	}
	records, err := s.runner.run(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("run neo4j query: %w", err)
	}
	rows = make([]graphstore.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordToRow(rec))
	}
	return rows, nil
}

// Schema implements graphstore.Store.
func (s *Store) Schema(ctx context.Context) (*graphstore.Schema, error) {
	schema := &graphstore.Schema{
		NodeProps: make(map[string][]graphstore.Property),
		RelProps:  make(map[string][]graphstore.Property),
	}

	nodeRecs, err := s.runner.run(ctx, nodePropertiesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("read node properties: %w", err)
	}
	for _, rec := range nodeRecs {
		row := rec.AsMap()
		prop, ok := propertyOf(row)
		if !ok {
			continue
		}
		labels, _ := row["nodeLabels"].([]any)
		for _, l := range labels {
			if label, ok := l.(string); ok {
				schema.NodeProps[label] = append(schema.NodeProps[label], prop)
			}
		}
	}

	relRecs, err := s.runner.run(ctx, relPropertiesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("read relationship properties: %w", err)
	}
	for _, rec := range relRecs {
		row := rec.AsMap()
		prop, ok := propertyOf(row)
		if !ok {
			continue
		}
		relType := trimTypeName(fmt.Sprint(row["relType"]))
		schema.RelProps[relType] = append(schema.RelProps[relType], prop)
	}

	patternRecs, err := s.runner.run(ctx, relationshipsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("read relationships: %w", err)
	}
	for _, rec := range patternRecs {
		row := rec.AsMap()
		schema.Relationships = append(schema.Relationships, graphstore.Triple{
			Start: fmt.Sprint(row["start"]),
			Type:  fmt.Sprint(row["rel"]),
			End:   fmt.Sprint(row["end"]),
		})
	}
	return schema, nil
}

// Close implements graphstore.Store.
func (s *Store) Close(ctx context.Context) error {
	return s.runner.close(ctx)
}

type driverRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

func (d *driverRunner) run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	configurers := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithReadersRouting()}
	if d.database != "" {
		configurers = append(configurers, neo4j.ExecuteQueryWithDatabase(d.database))
	}
	result, err := neo4j.ExecuteQuery(ctx, d.driver, cypher, params, neo4j.EagerResultTransformer, configurers...)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

func (d *driverRunner) close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

// propertyOf reads a property row of the schema procedures. Rows for types
// without properties carry a null name and are skipped.
func propertyOf(row map[string]any) (graphstore.Property, bool) {
	name, ok := row["propertyName"].(string)
	if !ok || name == "" {
		return graphstore.Property{}, false
	}
	types, _ := row["propertyTypes"].([]any)
	typ := "ANY"
	if len(types) > 0 {
		typ = propertyType(fmt.Sprint(types[0]))
	}
	return graphstore.Property{Name: name, Type: typ}, true
}

// propertyType maps the procedure type names to the names used in prompts.
func propertyType(t string) string {
	switch {
	case t == "Long":
		return "INTEGER"
	case t == "Double":
		return "FLOAT"
	case strings.HasSuffix(t, "Array"):
		return "LIST"
	default:
		return strings.ToUpper(t)
	}
}

// trimTypeName turns ":`HAS_STOP`" into "HAS_STOP".
func trimTypeName(s string) string {
	return strings.Trim(strings.TrimPrefix(s, ":"), "`")
}

func recordToRow(rec *neo4j.Record) graphstore.Row {
	row := make(graphstore.Row, len(rec.Keys))
	for i, key := range rec.Keys {
		if i < len(rec.Values) {
			row[key] = plain(rec.Values[i])
		}
	}
	return row
}

// plain converts driver values into maps, slices and scalars.
func plain(v any) any {
	switch t := v.(type) {
	case dbtype.Node:
		return plainMap(t.Props)
	case dbtype.Relationship:
		m := plainMap(t.Props)
		m["type"] = t.Type
		return m
	case dbtype.Path:
		out := make([]any, 0, len(t.Nodes)+len(t.Relationships))
		for i, n := range t.Nodes {
			out = append(out, plain(n))
			if i < len(t.Relationships) {
				out = append(out, plain(t.Relationships[i]))
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case map[string]any:
		return plainMap(t)
	case dbtype.Date, dbtype.LocalTime, dbtype.LocalDateTime, dbtype.Time, dbtype.Duration, time.Time:
		return fmt.Sprint(t)
	default:
		return v
	}
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plain(v)
	}
	return out
}
