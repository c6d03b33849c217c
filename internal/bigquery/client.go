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

import (
	"context"
	"fmt"

	bq "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// sdkClient implements Client on top of the BigQuery SDK.
type sdkClient struct {
	bq *bq.Client
}

var _ Client = (*sdkClient)(nil)

// NewClient creates a warehouse client billed against computeProjectID.
// An empty location leaves job placement to the service.
func NewClient(ctx context.Context, computeProjectID, location string, opts ...option.ClientOption) (Client, error) {
	if computeProjectID == "" {
		return nil, fmt.Errorf("cannot create BigQuery client: compute project ID is missing")
	}
	client, err := bq.NewClient(ctx, computeProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}
	client.Location = location
	return &sdkClient{bq: client}, nil
}

func (c *sdkClient) Close() error {
	if c.bq != nil {
		return c.bq.Close()
	}
	return nil
}

// RunQuery executes sql and materializes the whole result set in memory.
// Callers bound result size through the query text or by truncating rows.
func (c *sdkClient) RunQuery(ctx context.Context, sql string) (*QueryResult, error) {
	it, err := c.bq.Query(sql).Read(ctx)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{}
	for {
		var row []bq.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, convertRow(row))
	}
	result.Columns = convertSchema(it.Schema)
	return result, nil
}

// ListTables enumerates the dataset through its INFORMATION_SCHEMA view
// rather than the tables.list API: the API call fails on some BigLake table
// kinds (Iceberg) that remain visible through the catalog view. Listing
// order is returned as-is.
func (c *sdkClient) ListTables(ctx context.Context, dataProjectID, datasetID string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT table_name FROM `%s.%s.INFORMATION_SCHEMA.TABLES`",
		dataProjectID, datasetID,
	)
	res, err := c.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables for dataset %s.%s: %w", dataProjectID, datasetID, err)
	}

	names := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) == 0 {
			continue
		}
		if name, ok := row[0].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// GetTableMetadata fetches the full descriptor for one catalog object.
func (c *sdkClient) GetTableMetadata(ctx context.Context, dataProjectID, datasetID, tableID string) (*TableMetadata, error) {
	md, err := c.bq.DatasetInProject(dataProjectID, datasetID).Table(tableID).Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata for table %s.%s.%s: %w", dataProjectID, datasetID, tableID, err)
	}

	meta := &TableMetadata{
		Name:      tableID,
		Kind:      TableKind(md.Type),
		Columns:   convertSchema(md.Schema),
		ViewQuery: md.ViewQuery,
	}
	if md.ExternalDataConfig != nil {
		meta.External = &ExternalConfig{
			SourceFormat: string(md.ExternalDataConfig.SourceFormat),
			ConnectionID: md.ExternalDataConfig.ConnectionID,
			SourceURIs:   md.ExternalDataConfig.SourceURIs,
		}
	}
	return meta, nil
}

func convertRow(row []bq.Value) []any {
	values := make([]any, len(row))
	for i, v := range row {
		values[i] = convertValue(v)
	}
	return values
}

// convertValue rewrites the SDK's value slices as plain []any, recursively.
// REPEATED and STRUCT cells both arrive as []bq.Value; leaving that type in
// QueryResult would make callers depend on the SDK to inspect row values.
func convertValue(v bq.Value) any {
	nested, ok := v.([]bq.Value)
	if !ok {
		return v
	}
	values := make([]any, len(nested))
	for i, n := range nested {
		values[i] = convertValue(n)
	}
	return values
}

// legacyTypeNames maps the API's legacy field type names onto the GoogleSQL
// names used in DDL.
var legacyTypeNames = map[string]string{
	"INTEGER": "INT64",
	"FLOAT":   "FLOAT64",
	"BOOLEAN": "BOOL",
	"RECORD":  "STRUCT",
}

func normalizeFieldType(t bq.FieldType) string {
	if std, ok := legacyTypeNames[string(t)]; ok {
		return std
	}
	return string(t)
}

func convertSchema(schema bq.Schema) []ColumnSchema {
	if len(schema) == 0 {
		return nil
	}
	cols := make([]ColumnSchema, 0, len(schema))
	for _, f := range schema {
		col := ColumnSchema{
			Name:        f.Name,
			Type:        normalizeFieldType(f.Type),
			Repeated:    f.Repeated,
			Description: f.Description,
		}
		if len(f.Schema) > 0 {
			col.Fields = convertSchema(f.Schema)
		}
		cols = append(cols, col)
	}
	return cols
}
