package sqlfmt

import (
	"math"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestClassifyNullInputs(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"NaN float64", math.NaN()},
		{"NaN float32", float32(math.NaN())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "NULL", Literal(Classify(tt.value)))
		})
	}
}

func TestLiteralNilValue(t *testing.T) {
	assert.Equal(t, "NULL", Literal(nil))
}

func TestTextEscaping(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain", "hello", "'hello'"},
		{"single quote", "O'Brien", "'O''Brien'"},
		{"backslash", `a\b`, `'a\\b'`},
		{"quote and backslash", `it's a \ path`, `'it''s a \\ path'`},
		{"backslash before quote", `\'`, `'\\'''`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(Text(tt.value)))
		})
	}
}

func TestTextEscapingRoundTrip(t *testing.T) {
	original := `back\slash and 'quote'`
	lit := Literal(Text(original))
	inner := strings.TrimSuffix(strings.TrimPrefix(lit, "'"), "'")
	// Reverse the two escaping stages in the opposite order they were applied.
	inner = strings.ReplaceAll(inner, "''", "'")
	inner = strings.ReplaceAll(inner, `\\`, `\`)
	assert.Equal(t, original, inner)
}

func TestBytesLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
		want  string
	}{
		{"plain", []byte("abc"), "b'abc'"},
		{"with quote", []byte("a'b"), "b'a''b'"},
		{"invalid utf8 replaced", []byte{0xff, 'o', 'k'}, "b'�ok'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(Classify(tt.value)))
		})
	}
}

func TestTemporalValues(t *testing.T) {
	ts := time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"timestamp", ts, "'2024-01-05 10:30:00+00:00'"},
		{"date", civil.Date{Year: 2024, Month: 1, Day: 5}, "'2024-01-05'"},
		{"datetime", civil.DateTime{
			Date: civil.Date{Year: 2024, Month: 1, Day: 5},
			Time: civil.Time{Hour: 10, Minute: 30},
		}, "'2024-01-05 10:30:00'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(Classify(tt.value)))
		})
	}
}

func TestArrayLiteral(t *testing.T) {
	got := Literal(Classify([]any{int64(1), "two", nil}))
	assert.Equal(t, "[1, 'two', NULL]", got)
}

func TestNestedArrayLiteral(t *testing.T) {
	got := Literal(Classify([]any{[]any{int64(1), int64(2)}, []any{}}))
	assert.Equal(t, "[[1, 2], []]", got)
}

func TestStructLiteral(t *testing.T) {
	// Values only, declared order, no field names.
	st := Struct{Text("alice"), Scalar("42"), Null{}}
	assert.Equal(t, "('alice', 42, NULL)", Literal(st))
}

func TestScalarValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"int64", int64(42), "42"},
		{"negative int", int64(-7), "-7"},
		{"float64", 3.5, "3.5"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Literal(Classify(tt.value)))
		})
	}
}

func TestClassifyPassesValuesThrough(t *testing.T) {
	st := Struct{Text("x")}
	assert.Equal(t, "('x')", Literal(Classify(st)))
}
