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
package utils

import (
	"fmt"
	"os"
	"strings"
)

// ReadSQLFromFile reads a single SQL statement from a file.
func ReadSQLFromFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

// WriteToFile writes content to filePath, creating or truncating it.
func WriteToFile(content, filePath string) error {
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", filePath, err)
	}
	return nil
}

// DefaultSchemaFilePath names the output file for a dataset's schema document.
func DefaultSchemaFilePath(datasetID string) string {
	return fmt.Sprintf("%s_schema.sql", datasetID)
}
