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
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/genai"
)

// Config holds all configuration for the application.
type Config struct {
	BigQuery     BigQueryConfig
	GeminiAPIKey string
	Model        string
}

// BigQueryConfig identifies the dataset being explored and the project
// billed for query execution.
type BigQueryConfig struct {
	DataProjectID    string
	ComputeProjectID string
	DatasetID        string
	Location         string
}

// Load builds configuration from the environment. Command flags override
// individual fields afterwards.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("GOOGLE_CLOUD_LOCATION", "us-central1")
	v.SetDefault("BASELINE_NL2SQL_MODEL", genai.DefaultModel)

	return &Config{
		BigQuery: BigQueryConfig{
			DataProjectID:    v.GetString("BQ_DATA_PROJECT_ID"),
			ComputeProjectID: v.GetString("BQ_COMPUTE_PROJECT_ID"),
			DatasetID:        v.GetString("BQ_DATASET_ID"),
			Location:         v.GetString("GOOGLE_CLOUD_LOCATION"),
		},
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
		Model:        v.GetString("BASELINE_NL2SQL_MODEL"),
	}
}

// Validate checks that the fields every command needs are present.
func (c *Config) Validate() error {
	if c.BigQuery.DataProjectID == "" {
		return fmt.Errorf("data project ID is required (--data-project or BQ_DATA_PROJECT_ID)")
	}
	if c.BigQuery.ComputeProjectID == "" {
		return fmt.Errorf("compute project ID is required (--compute-project or BQ_COMPUTE_PROJECT_ID)")
	}
	if c.BigQuery.DatasetID == "" {
		return fmt.Errorf("dataset ID is required (--dataset or BQ_DATASET_ID)")
	}
	return nil
}
