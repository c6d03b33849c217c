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

// Package sqlfmt renders warehouse values as GoogleSQL literals, one total
// rendering rule per value shape. Rendering never fails; anything that does
// not match a known shape falls back to its plain textual form.
package sqlfmt

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Value is the closed set of SQL literal shapes.
type Value interface {
	literal() string
}

// Null renders as the NULL keyword.
type Null struct{}

// Text renders as a single-quoted string literal.
type Text string

// Bytes renders as a byte-string literal (b'...'). Invalid UTF-8 sequences
// are replaced, never rejected.
type Bytes []byte

// Temporal holds the textual form of a date, datetime, time or timestamp and
// renders it single-quoted with no internal escaping.
type Temporal string

// Array renders as a bracketed, comma-joined list of its elements.
type Array []Value

// Struct holds field values in declared order and renders them parenthesized.
// Field names are never emitted; GoogleSQL struct literals are positional, so
// callers must supply values in the target column's field order.
type Struct []Value

// Scalar is the plain unquoted textual form of a numeric or boolean value.
type Scalar string

func (Null) literal() string { return "NULL" }

func (t Text) literal() string { return "'" + escape(string(t)) + "'" }

func (b Bytes) literal() string {
	return "b'" + escape(strings.ToValidUTF8(string(b), "�")) + "'"
}

func (t Temporal) literal() string { return "'" + string(t) + "'" }

func (a Array) literal() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = Literal(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s Struct) literal() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = Literal(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s Scalar) literal() string { return string(s) }

// escape doubles backslashes before doubling single quotes. The reverse order
// would double-escape the backslashes inserted for the quotes.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}

// Literal renders v as a GoogleSQL literal. A nil Value renders as NULL.
func Literal(v Value) string {
	if v == nil {
		return "NULL"
	}
	return v.literal()
}

// Classify maps a native Go value, as produced by the BigQuery client, onto
// the Value union. It cannot distinguish a repeated field from a struct (both
// arrive as plain slices); schema-aware callers classify those themselves and
// pass the result through unchanged.
func Classify(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case string:
		return Text(t)
	case []byte:
		return Bytes(t)
	case time.Time:
		return Temporal(t.Format("2006-01-02 15:04:05.999999-07:00"))
	case civil.Date:
		return Temporal(t.String())
	case civil.DateTime:
		return Temporal(t.Date.String() + " " + t.Time.String())
	case civil.Time:
		return Temporal(t.String())
	case float64:
		if math.IsNaN(t) {
			return Null{}
		}
		return Scalar(fmt.Sprint(t))
	case float32:
		if math.IsNaN(float64(t)) {
			return Null{}
		}
		return Scalar(fmt.Sprint(t))
	case []any:
		vals := make(Array, len(t))
		for i, e := range t {
			vals[i] = Classify(e)
		}
		return vals
	default:
		return Scalar(fmt.Sprint(v))
	}
}
