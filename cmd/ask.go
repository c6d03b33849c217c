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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/nl2sql"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/session"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/settings"
)

var askCmd = &cobra.Command{
	Use:     "ask [question]",
	Short:   "Answer a natural language question with a validated BigQuery query",
	Long:    `Generates SQL for the question through Gemini, grounded on the dataset's schema document, then validates and executes it behind the read-only gate.`,
	Example: `./bq_nl2sql_agent ask --dataset sales "which product had the highest revenue last month?"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.Join(args, " ")

	client, err := setupClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	llm, err := setupLLMClient(ctx)
	if err != nil {
		return err
	}
	defer llm.Close()

	cache := settings.NewCache(client, cfg.BigQuery.DataProjectID, cfg.BigQuery.DatasetID, logger)
	svc := nl2sql.NewService(client, llm, cache, session.New(), logger)

	sql, result, err := svc.Answer(ctx, question)
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	fmt.Printf("SQL:\n%s\n\n%s\n", sql, out)
	return nil
}
