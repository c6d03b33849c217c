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
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/bigquery"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/config"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/genai"
)

var (
	// BigQuery connection flags
	dataProjectID    string
	computeProjectID string
	datasetID        string
	location         string

	// Gemini flags
	geminiAPIKey string
	model        string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bq_nl2sql_agent",
	Short: "Explore a BigQuery dataset and run natural-language-derived queries safely",
	Long: `bq_nl2sql_agent reconstructs a BigQuery dataset's schema as annotated DDL
with sample rows, turns natural language questions into SQL through Gemini,
and validates every generated query behind a read-only, row-capped gate.`,
	PersistentPreRunE: initFlagsAndConfig,
}

// initFlagsAndConfig builds configuration from the environment, then lets
// flags override individual fields.
func initFlagsAndConfig(cmd *cobra.Command, args []string) error {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg = config.Load()
	if dataProjectID != "" {
		cfg.BigQuery.DataProjectID = dataProjectID
	}
	if computeProjectID != "" {
		cfg.BigQuery.ComputeProjectID = computeProjectID
	}
	if datasetID != "" {
		cfg.BigQuery.DatasetID = datasetID
	}
	if location != "" {
		cfg.BigQuery.Location = location
	}
	if geminiAPIKey != "" {
		cfg.GeminiAPIKey = geminiAPIKey
	}
	if model != "" {
		cfg.Model = model
	}
	return nil
}

func setupClient(ctx context.Context) (bigquery.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := bigquery.NewClient(ctx, cfg.BigQuery.ComputeProjectID, cfg.BigQuery.Location)
	if err != nil {
		logger.Error("failed to connect to BigQuery", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to BigQuery: %w", err)
	}
	return client, nil
}

func setupLLMClient(ctx context.Context) (genai.LLMClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is required (--gemini-api-key or GEMINI_API_KEY)")
	}
	return genai.NewClient(ctx, genai.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.Model}, logger)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// The logger is flushed on the way out; zap buffers entries and would
// otherwise drop them at process exit.
func Execute() error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataProjectID, "data-project", "", "Project holding the BigQuery data (defaults to BQ_DATA_PROJECT_ID)")
	rootCmd.PersistentFlags().StringVar(&computeProjectID, "compute-project", "", "Project billed for BigQuery compute (defaults to BQ_COMPUTE_PROJECT_ID)")
	rootCmd.PersistentFlags().StringVar(&datasetID, "dataset", "", "BigQuery dataset ID (defaults to BQ_DATASET_ID)")
	rootCmd.PersistentFlags().StringVar(&location, "location", "", "Cloud location (defaults to GOOGLE_CLOUD_LOCATION)")
	rootCmd.PersistentFlags().StringVar(&geminiAPIKey, "gemini-api-key", "", "Gemini API key (can also be set via GEMINI_API_KEY environment variable)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Gemini model for SQL generation (defaults to BASELINE_NL2SQL_MODEL)")

	// Add subcommands
	rootCmd.AddCommand(generateSchemaCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(validateCmd)
}
