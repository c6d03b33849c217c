package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/bigquery"
)

// recordingClient records whether the execution backend was invoked.
type recordingClient struct {
	result     *bigquery.QueryResult
	err        error
	ranQueries []string
}

func (r *recordingClient) RunQuery(ctx context.Context, sql string) (*bigquery.QueryResult, error) {
	r.ranQueries = append(r.ranQueries, sql)
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func (r *recordingClient) ListTables(ctx context.Context, dataProjectID, datasetID string) ([]string, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *recordingClient) GetTableMetadata(ctx context.Context, dataProjectID, datasetID, tableID string) (*bigquery.TableMetadata, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *recordingClient) Close() error { return nil }

func TestCleanupSQL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "unescapes double quotes",
			in:   `SELECT \"name\" FROM t LIMIT 5`,
			want: `SELECT "name" FROM t LIMIT 5`,
		},
		{
			name: "removes backslash before newline",
			in:   "SELECT 1 \\\nFROM t LIMIT 5",
			want: "SELECT 1 \nFROM t LIMIT 5",
		},
		{
			name: "unescapes single quotes",
			in:   `SELECT \'x\' FROM t LIMIT 5`,
			want: "SELECT 'x' FROM t LIMIT 5",
		},
		{
			name: "unescapes literal newline sequences",
			in:   `SELECT 1\nFROM t LIMIT 5`,
			want: "SELECT 1\nFROM t LIMIT 5",
		},
		{
			name: "appends limit when missing",
			in:   "SELECT * FROM t",
			want: "SELECT * FROM t limit 80",
		},
		{
			name: "keeps existing lowercase limit",
			in:   "SELECT * FROM t limit 5",
			want: "SELECT * FROM t limit 5",
		},
		{
			name: "keeps existing uppercase limit",
			in:   "SELECT * FROM t LIMIT 5",
			want: "SELECT * FROM t LIMIT 5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanupSQL(tt.in))
		})
	}
}

func TestCleanupSQLAppendsExactlyOneLimit(t *testing.T) {
	got := CleanupSQL("SELECT * FROM t")
	assert.Equal(t, 1, strings.Count(strings.ToLower(got), "limit"))

	got = CleanupSQL("SELECT * FROM t LIMIT 10")
	assert.Equal(t, 1, strings.Count(strings.ToLower(got), "limit"))
}

func TestRunRejectsDisallowedOperations(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"drop", "DROP TABLE x"},
		{"delete", "DELETE FROM x WHERE 1=1 LIMIT 1"},
		{"lowercase update", "update x set a = 1 limit 1"},
		{"merge", "MERGE t USING s ON t.id = s.id LIMIT 1"},
		{"truncate", "TRUNCATE TABLE x LIMIT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &recordingClient{}
			res := New(client, nil).Run(context.Background(), tt.sql)

			require.NotEmpty(t, res.Err)
			assert.Contains(t, res.Err, "disallowed")
			assert.Nil(t, res.Rows)
			// The execution backend must never be invoked.
			assert.Empty(t, client.ranQueries)
		})
	}
}

func TestRunAllowsWordFragments(t *testing.T) {
	// "created_at" contains "create" but not on a word boundary.
	client := &recordingClient{result: &bigquery.QueryResult{
		Columns: []bigquery.ColumnSchema{{Name: "created_at", Type: "DATE"}},
	}}
	res := New(client, nil).Run(context.Background(), "SELECT created_at FROM t LIMIT 1")

	assert.Empty(t, res.Err)
	require.Len(t, client.ranQueries, 1)
}

func TestRunCapsRowsAtMaxRows(t *testing.T) {
	result := &bigquery.QueryResult{
		Columns: []bigquery.ColumnSchema{{Name: "n", Type: "INT64"}},
	}
	for i := 0; i < 200; i++ {
		result.Rows = append(result.Rows, []any{int64(i)})
	}
	client := &recordingClient{result: result}

	res := New(client, nil).Run(context.Background(), "SELECT n FROM t LIMIT 500")
	assert.Empty(t, res.Err)
	assert.Len(t, res.Rows, MaxRows)
}

func TestRunShapesDateValues(t *testing.T) {
	client := &recordingClient{result: &bigquery.QueryResult{
		Columns: []bigquery.ColumnSchema{{Name: "day", Type: "DATE"}},
		Rows:    [][]any{{civil.Date{Year: 2024, Month: 1, Day: 5}}},
	}}

	res := New(client, nil).Run(context.Background(), "SELECT day FROM t LIMIT 1")
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "2024-01-05", res.Rows[0]["day"])
}

func TestRunExecutionFailureBecomesResult(t *testing.T) {
	client := &recordingClient{err: fmt.Errorf("syntax error at [1:8]")}

	res := New(client, nil).Run(context.Background(), "SELEC 1 LIMIT 1")
	assert.Equal(t, "Invalid SQL: syntax error at [1:8]", res.Err)
	assert.Nil(t, res.Rows)
	assert.False(t, res.Empty)
}

func TestRunNoSchemaIsEmptySuccess(t *testing.T) {
	client := &recordingClient{result: &bigquery.QueryResult{}}

	res := New(client, nil).Run(context.Background(), "SELECT 1 LIMIT 1")
	assert.True(t, res.Empty)
	assert.Empty(t, res.Err)
	assert.Nil(t, res.Rows)
}

func TestResultMarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   string
	}{
		{
			name:   "rows",
			result: &Result{Rows: []map[string]any{{"n": 1}}},
			want:   `{"query_result":[{"n":1}],"error_message":null}`,
		},
		{
			name:   "error",
			result: &Result{Err: "Invalid SQL: boom"},
			want:   `{"query_result":null,"error_message":"Invalid SQL: boom"}`,
		},
		{
			name:   "empty success reuses the error channel",
			result: &Result{Empty: true},
			want:   `{"query_result":null,"error_message":"Valid SQL. Query executed successfully (no results)."}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.result)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
