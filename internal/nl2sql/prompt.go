package nl2sql

import (
	"strconv"
	"strings"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/validator"
)

// promptTemplate instructs the model to answer a natural language question
// with a single GoogleSQL query, grounded on the generated schema document.
const promptTemplate = "You are a BigQuery SQL expert tasked with answering user's questions about BigQuery tables by generating SQL queries in the GoogleSql dialect. Your task is to write a Bigquery SQL query that answers the following question while using the provided context.\n" +
	"\n" +
	"**Guidelines:**\n" +
	"\n" +
	"- **Table Referencing:** Always use the full table name with the database prefix in the SQL statement. Tables should be referred to using a fully qualified name enclosed in backticks (`) e.g. `project_name.dataset_name.table_name`. Table names are case sensitive.\n" +
	"- **Joins:** Join as few tables as possible. When joining tables, ensure all join columns are the same data type. Analyze the database and the table schema provided to understand the relationships between columns and tables.\n" +
	"- **Aggregations:** Use all non-aggregated columns from the `SELECT` statement in the `GROUP BY` clause.\n" +
	"- **SQL Syntax:** Return syntactically and semantically correct SQL for BigQuery with proper relation mapping (i.e., project_id, owner, table, and column relation). Use SQL `AS` statement to assign a new name temporarily to a table column or even a table wherever needed. Always enclose subqueries and union queries in parentheses.\n" +
	"- **Column Usage:** Use *ONLY* the column names (column_name) mentioned in the Table Schema. Do *NOT* use any other column names. Associate `column_name` mentioned in the Table Schema only to the `table_name` specified under Table Schema.\n" +
	"- **FILTERS:** You should write query effectively to reduce and minimize the total rows to be returned. For example, you can use filters (like `WHERE`, `HAVING`, etc.) and aggregation functions (like 'COUNT', 'SUM', etc.) in the SQL query.\n" +
	"- **LIMIT ROWS:** The maximum number of rows returned should be less than {MAX_NUM_ROWS}.\n" +
	"\n" +
	"**Schema:**\n" +
	"\n" +
	"The database structure is defined by the following table schemas (possibly with sample rows):\n" +
	"\n" +
	"```\n" +
	"{SCHEMA}\n" +
	"```\n" +
	"\n" +
	"**Natural language question:**\n" +
	"\n" +
	"```\n" +
	"{QUESTION}\n" +
	"```\n" +
	"\n" +
	"**Think Step-by-Step:** Carefully consider the schema, question, guidelines, and best practices outlined above to generate the correct BigQuery SQL.\n"

// buildPrompt fills the template with the schema document and the question.
func buildPrompt(ddlSchema, question string) string {
	return strings.NewReplacer(
		"{MAX_NUM_ROWS}", strconv.Itoa(validator.MaxRows),
		"{SCHEMA}", ddlSchema,
		"{QUESTION}", question,
	).Replace(promptTemplate)
}
