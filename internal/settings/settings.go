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
package settings

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/bigquery"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/schema"
)

// Settings is a snapshot of everything prompt construction needs to know
// about the target dataset. Callers must not mutate it.
type Settings struct {
	DataProjectID string
	DatasetID     string
	DDLSchema     string
	Extra         map[string]string
}

// extraConstants are auxiliary generation-method constants merged into every
// snapshot alongside the schema document.
var extraConstants = map[string]string{
	"nl2sql_method": "BASELINE",
	"max_num_rows":  "80",
}

// Cache computes the settings snapshot once and hands it out until an
// explicit Refresh. Schema changes in the warehouse are not detected.
type Cache struct {
	dataProjectID string
	datasetID     string
	introspector  *schema.Introspector

	mu      sync.Mutex
	current *Settings
}

func NewCache(client bigquery.Client, dataProjectID, datasetID string, logger *zap.Logger) *Cache {
	return &Cache{
		dataProjectID: dataProjectID,
		datasetID:     datasetID,
		introspector:  schema.NewIntrospector(client, logger),
	}
}

// Get returns the cached settings, computing them on first use.
func (c *Cache) Get(ctx context.Context) (*Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return c.current, nil
	}
	return c.computeLocked(ctx)
}

// Refresh recomputes the snapshot unconditionally, replacing the stored one.
func (c *Cache) Refresh(ctx context.Context) (*Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.computeLocked(ctx)
}

func (c *Cache) computeLocked(ctx context.Context) (*Settings, error) {
	ddl, err := c.introspector.DDL(ctx, c.dataProjectID, c.datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema document: %w", err)
	}

	extra := make(map[string]string, len(extraConstants))
	for k, v := range extraConstants {
		extra[k] = v
	}
	c.current = &Settings{
		DataProjectID: c.dataProjectID,
		DatasetID:     c.datasetID,
		DDLSchema:     ddl,
		Extra:         extra,
	}
	return c.current, nil
}
