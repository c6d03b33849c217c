package settings

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/bigquery"
)

// countingClient counts catalog listings so tests can observe memoization.
type countingClient struct {
	mu        sync.Mutex
	listCalls int
	listErr   error
}

func (c *countingClient) ListTables(ctx context.Context, dataProjectID, datasetID string) ([]string, error) {
	c.mu.Lock()
	c.listCalls++
	c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	return []string{"users"}, nil
}

func (c *countingClient) GetTableMetadata(ctx context.Context, dataProjectID, datasetID, tableID string) (*bigquery.TableMetadata, error) {
	return &bigquery.TableMetadata{
		Name:      tableID,
		Kind:      bigquery.KindView,
		ViewQuery: "SELECT 1",
	}, nil
}

func (c *countingClient) RunQuery(ctx context.Context, sql string) (*bigquery.QueryResult, error) {
	return &bigquery.QueryResult{}, nil
}

func (c *countingClient) Close() error { return nil }

func (c *countingClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listCalls
}

func TestGetComputesOnce(t *testing.T) {
	client := &countingClient{}
	cache := NewCache(client, "p", "d", nil)
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)
	second, err := cache.Get(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, client.calls())
	assert.Equal(t, "p", first.DataProjectID)
	assert.Equal(t, "d", first.DatasetID)
	assert.Contains(t, first.DDLSchema, "CREATE OR REPLACE VIEW")
	assert.Equal(t, "80", first.Extra["max_num_rows"])
}

func TestRefreshRecomputes(t *testing.T) {
	client := &countingClient{}
	cache := NewCache(client, "p", "d", nil)
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)
	refreshed, err := cache.Refresh(ctx)
	require.NoError(t, err)

	assert.NotSame(t, first, refreshed)
	assert.Equal(t, 2, client.calls())

	// Get hands out the refreshed snapshot afterwards.
	got, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, refreshed, got)
	assert.Equal(t, 2, client.calls())
}

func TestGetFailureIsNotCached(t *testing.T) {
	client := &countingClient{listErr: fmt.Errorf("transient")}
	cache := NewCache(client, "p", "d", nil)
	ctx := context.Background()

	_, err := cache.Get(ctx)
	require.Error(t, err)

	client.listErr = nil
	got, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestGetConcurrentFirstAccess(t *testing.T) {
	client := &countingClient{}
	cache := NewCache(client, "p", "d", nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Get(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, client.calls())
}
