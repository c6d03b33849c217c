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

// Package validator cleans up machine-generated SQL, enforces a read-only
// policy and a row cap, and converts every failure mode into a structured
// result the calling agent can inspect.
package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/bigquery"
)

// MaxRows is the hard cap on returned rows, enforced both by the injected
// LIMIT clause and unconditionally when materializing results.
const MaxRows = 80

// disallowedStatements rejects DML and DDL verbs anywhere in the query text.
// The word-boundary match is a heuristic: it also fires inside string literals
// and identifiers, and callers rely on that breadth.
var disallowedStatements = regexp.MustCompile(`(?i)\b(update|delete|drop|insert|create|alter|truncate|merge)\b`)

const emptySuccessMessage = "Valid SQL. Query executed successfully (no results)."

// Result is the outcome of validating one query. Exactly one of the three
// states holds: rows were returned, the statement succeeded without a result
// schema (Empty), or it failed (Err).
type Result struct {
	Rows  []map[string]any
	Err   string
	Empty bool
}

// MarshalJSON emits the {query_result, error_message} contract. An Empty
// result reports its informational message on the error channel, which is
// what the calling agent consumes.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := struct {
		QueryResult  []map[string]any `json:"query_result"`
		ErrorMessage *string          `json:"error_message"`
	}{QueryResult: r.Rows}

	switch {
	case r.Err != "":
		out.ErrorMessage = &r.Err
	case r.Empty:
		msg := emptySuccessMessage
		out.ErrorMessage = &msg
	}
	return json.Marshal(out)
}

// Validator executes candidate queries through a warehouse client.
type Validator struct {
	client bigquery.Client
	logger *zap.Logger
}

func New(client bigquery.Client, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{client: client, logger: logger}
}

// CleanupSQL repairs common generation artifacts in model-produced SQL and
// appends a row limit when the text carries no "limit" token. This is text
// repair, not parsing.
func CleanupSQL(sql string) string {
	sql = strings.ReplaceAll(sql, `\"`, `"`)
	sql = strings.ReplaceAll(sql, "\\\n", "\n")
	sql = strings.ReplaceAll(sql, `\'`, "'")
	sql = strings.ReplaceAll(sql, `\n`, "\n")

	if !strings.Contains(strings.ToLower(sql), "limit") {
		sql = sql + " limit " + strconv.Itoa(MaxRows)
	}
	return sql
}

// Run cleans, authorizes, executes and shapes the results of sql. Every
// failure mode short of a programming error comes back as a Result; nothing
// is re-raised to the caller.
func (v *Validator) Run(ctx context.Context, sql string) *Result {
	v.logger.Info("validating SQL", zap.String("sql", sql))
	sql = CleanupSQL(sql)
	v.logger.Info("validating SQL after cleanup", zap.String("sql", sql))

	if disallowedStatements.MatchString(sql) {
		return &Result{Err: "Invalid SQL: Contains disallowed DML/DDL operations."}
	}

	res, err := v.client.RunQuery(ctx, sql)
	if err != nil {
		return &Result{Err: fmt.Sprintf("Invalid SQL: %v", err)}
	}

	if len(res.Columns) == 0 {
		return &Result{Empty: true}
	}

	rows := make([]map[string]any, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(rows) == MaxRows {
			break
		}
		out := make(map[string]any, len(row))
		for i, val := range row {
			if i >= len(res.Columns) {
				continue
			}
			out[res.Columns[i].Name] = shapeValue(val)
		}
		rows = append(rows, out)
	}
	return &Result{Rows: rows}
}

// shapeValue renders date-only values as YYYY-MM-DD text; everything else
// passes through unchanged.
func shapeValue(v any) any {
	if d, ok := v.(civil.Date); ok {
		return d.String()
	}
	return v
}
