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
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/schema"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/utils"
)

var generateSchemaCmd = &cobra.Command{
	Use:     "generate-schema",
	Short:   "Generate DDL with sample rows for a BigQuery dataset",
	Long:    `Reconstructs CREATE statements for every table, view and Iceberg external table in the dataset, embedding up to five sample rows per table, and writes the document to stdout or a file.`,
	Example: `./bq_nl2sql_agent generate-schema --data-project my-data-proj --compute-project my-compute-proj --dataset sales --out_file sales_schema.sql`,
	RunE:    runGenerateSchema,
}

func runGenerateSchema(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := setupClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	logger.Info("starting schema generation",
		zap.String("data_project", cfg.BigQuery.DataProjectID),
		zap.String("dataset", cfg.BigQuery.DatasetID),
	)

	introspector := schema.NewIntrospector(client, logger)
	ddl, err := introspector.DDL(ctx, cfg.BigQuery.DataProjectID, cfg.BigQuery.DatasetID)
	if err != nil {
		return fmt.Errorf("failed to generate schema document: %w", err)
	}

	outputFile := cmd.Flag("out_file").Value.String()
	if outputFile == "" {
		if save, _ := cmd.Flags().GetBool("save"); save {
			outputFile = utils.DefaultSchemaFilePath(cfg.BigQuery.DatasetID)
		} else {
			fmt.Print(ddl)
			return nil
		}
	}
	if err := utils.WriteToFile(ddl, outputFile); err != nil {
		return fmt.Errorf("failed to write schema document: %w", err)
	}
	fmt.Printf("Schema document written to: %s\n", outputFile)
	return nil
}

func init() {
	var outputFile string

	generateSchemaCmd.Flags().StringVarP(&outputFile, "out_file", "o", "", "File path to save the schema document to (optional, defaults to stdout)")
	generateSchemaCmd.Flags().Bool("save", false, "Write to <dataset>_schema.sql in the working directory")
}
