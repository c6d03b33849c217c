/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package bigquery

import "context"

// TableKind mirrors the catalog's object types.
type TableKind string

const (
	KindTable    TableKind = "TABLE"
	KindView     TableKind = "VIEW"
	KindExternal TableKind = "EXTERNAL"
)

// ColumnSchema describes a single column. Fields is populated for STRUCT
// columns only, in declared order.
type ColumnSchema struct {
	Name        string
	Type        string
	Repeated    bool
	Description string
	Fields      []ColumnSchema
}

// ExternalConfig describes the file-backed source of an external table.
type ExternalConfig struct {
	SourceFormat string
	ConnectionID string
	SourceURIs   []string
}

// TableMetadata is the full descriptor of a catalog object. ViewQuery is set
// for views only, External for external tables only.
type TableMetadata struct {
	Name      string
	Kind      TableKind
	Columns   []ColumnSchema
	ViewQuery string
	External  *ExternalConfig
}

// QueryResult holds a fully materialized result set. Columns is empty when
// the statement produced no result schema. Row values keep the ordering the
// warehouse returned them in; nested records stay []any in field order.
type QueryResult struct {
	Columns []ColumnSchema
	Rows    [][]any
}

// Client defines the warehouse operations needed by the schema and query
// components.
type Client interface {
	RunQuery(ctx context.Context, sql string) (*QueryResult, error)
	ListTables(ctx context.Context, dataProjectID, datasetID string) ([]string, error)
	GetTableMetadata(ctx context.Context, dataProjectID, datasetID, tableID string) (*TableMetadata, error)
	Close() error
}
