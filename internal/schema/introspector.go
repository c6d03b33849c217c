// Package schema reconstructs DDL text, with embedded sample rows, for every
// object in a BigQuery dataset. The generated document is meant to be pasted
// into an LLM prompt, not replayed against the warehouse.
package schema

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/bigquery"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/sqlfmt"
)

// sourceFormatIceberg is the only external source format that gets DDL; any
// other external format is skipped.
const sourceFormatIceberg = "ICEBERG"

const sampleRowLimit = 5

// Introspector generates schema documents through a warehouse client.
type Introspector struct {
	client bigquery.Client
	logger *zap.Logger
}

func NewIntrospector(client bigquery.Client, logger *zap.Logger) *Introspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Introspector{client: client, logger: logger}
}

// DDL generates one text block per table in the dataset, in catalog listing
// order. A failure to fetch one table's sample rows degrades to an inline
// comment; a failure to list the dataset's tables aborts the whole document.
func (in *Introspector) DDL(ctx context.Context, dataProjectID, datasetID string) (string, error) {
	tables, err := in.client.ListTables(ctx, dataProjectID, datasetID)
	if err != nil {
		return "", fmt.Errorf("failed to list tables: %w", err)
	}

	var ddl strings.Builder
	for _, tableID := range tables {
		meta, err := in.client.GetTableMetadata(ctx, dataProjectID, datasetID, tableID)
		if err != nil {
			return "", fmt.Errorf("failed to describe table %s: %w", tableID, err)
		}
		ref := fmt.Sprintf("%s.%s.%s", dataProjectID, datasetID, tableID)

		switch meta.Kind {
		case bigquery.KindView:
			fmt.Fprintf(&ddl, "CREATE OR REPLACE VIEW `%s` AS\n%s;\n\n", ref, meta.ViewQuery)
		case bigquery.KindExternal:
			ddl.WriteString(externalTableDDL(ref, meta))
		case bigquery.KindTable:
			ddl.WriteString(in.tableDDL(ctx, ref, meta))
		default:
			// Materialized views, snapshots and anything unrecognized are
			// skipped without a trace in the document.
		}
	}
	return ddl.String(), nil
}

func (in *Introspector) tableDDL(ctx context.Context, ref string, meta *bigquery.TableMetadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE TABLE `%s` (\n%s\n);\n\n", ref, columnDefs(meta.Columns, true))
	b.WriteString(in.sampleRows(ctx, ref))
	return b.String()
}

// sampleRows fetches up to sampleRowLimit rows through a plain query. Querying
// works on BigLake tables where the row-listing API fails. Failure here is not
// fatal: the table keeps its CREATE statement and gains a note instead.
func (in *Introspector) sampleRows(ctx context.Context, ref string) string {
	res, err := in.client.RunQuery(ctx, fmt.Sprintf("SELECT * FROM `%s` LIMIT %d", ref, sampleRowLimit))
	if err != nil {
		in.logger.Warn("could not retrieve sample rows", zap.String("table", ref), zap.Error(err))
		return fmt.Sprintf("-- NOTE: Could not retrieve sample rows for table %s.\n\n", ref)
	}
	if len(res.Rows) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- Example values for table `%s`:\n", ref)
	for _, row := range res.Rows {
		values := make([]string, len(row))
		for i, v := range row {
			var col *bigquery.ColumnSchema
			if i < len(res.Columns) {
				col = &res.Columns[i]
			}
			values[i] = sqlfmt.Literal(classify(v, col))
		}
		fmt.Fprintf(&b, "INSERT INTO `%s` VALUES (%s);\n\n", ref, strings.Join(values, ", "))
	}
	return b.String()
}

func externalTableDDL(ref string, meta *bigquery.TableMetadata) string {
	cfg := meta.External
	if cfg == nil || cfg.SourceFormat != sourceFormatIceberg {
		return ""
	}

	uris := make([]string, len(cfg.SourceURIs))
	for i, uri := range cfg.SourceURIs {
		uris[i] = fmt.Sprintf("'%s'", uri)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE EXTERNAL TABLE `%s` (\n%s\n)\n", ref, columnDefs(meta.Columns, false))
	fmt.Fprintf(&b, "WITH CONNECTION `%s`\n", cfg.ConnectionID)
	fmt.Fprintf(&b, "OPTIONS (\n  uris = [%s],\n  format = '%s'\n);\n\n",
		strings.Join(uris, ",\n    "), sourceFormatIceberg)
	return b.String()
}

func columnDefs(cols []bigquery.ColumnSchema, withDescriptions bool) string {
	defs := make([]string, 0, len(cols))
	for _, col := range cols {
		def := fmt.Sprintf("  `%s` %s", col.Name, columnType(col))
		if withDescriptions && col.Description != "" {
			def += fmt.Sprintf(" OPTIONS(description='%s')", strings.ReplaceAll(col.Description, "'", "''"))
		}
		defs = append(defs, def)
	}
	return strings.Join(defs, ",\n")
}

func columnType(col bigquery.ColumnSchema) string {
	if col.Repeated {
		return fmt.Sprintf("ARRAY<%s>", col.Type)
	}
	return col.Type
}

// classify is the schema-aware front of sqlfmt.Classify: the column schema is
// what distinguishes a repeated field from a struct, since both reach the
// client as plain value slices.
func classify(v any, col *bigquery.ColumnSchema) sqlfmt.Value {
	if v == nil {
		return sqlfmt.Null{}
	}
	if col != nil {
		if col.Repeated {
			if elems, ok := v.([]any); ok {
				elem := *col
				elem.Repeated = false
				arr := make(sqlfmt.Array, len(elems))
				for i, e := range elems {
					arr[i] = classify(e, &elem)
				}
				return arr
			}
		} else if col.Type == "STRUCT" {
			if fields, ok := v.([]any); ok {
				st := make(sqlfmt.Struct, len(fields))
				for i, f := range fields {
					var fc *bigquery.ColumnSchema
					if i < len(col.Fields) {
						fc = &col.Fields[i]
					}
					st[i] = classify(f, fc)
				}
				return st
			}
		}
	}
	return sqlfmt.Classify(v)
}
