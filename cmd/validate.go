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

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/utils"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:     "validate [sql]",
	Short:   "Validate and execute a SQL query behind the read-only gate",
	Long:    `Cleans up the query text, rejects DML/DDL operations, executes the query with a row cap, and prints the structured result.`,
	Example: "./bq_nl2sql_agent validate --dataset sales \"SELECT product, SUM(revenue) AS r FROM `my-proj.sales.orders` GROUP BY product ORDER BY r DESC LIMIT 10\"",
	RunE:    runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sql := strings.Join(args, " ")
	sqlFile := cmd.Flag("sql_file").Value.String()
	if sqlFile != "" {
		var err error
		sql, err = utils.ReadSQLFromFile(sqlFile)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(sql) == "" {
		return fmt.Errorf("no SQL provided: pass it as an argument or via --sql_file")
	}

	client, err := setupClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	result := validator.New(client, logger).Run(ctx, sql)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	var sqlFile string

	validateCmd.Flags().StringVarP(&sqlFile, "sql_file", "f", "", "File containing the SQL query to validate (optional)")
}
