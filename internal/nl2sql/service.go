// Package nl2sql turns natural language questions into validated BigQuery
// queries: settings snapshot in, prompt out, generated SQL through the
// read-only validation gate, everything recorded in the session state.
package nl2sql

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/bigquery"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/genai"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/session"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/settings"
	"github.com/GoogleCloudPlatform/bigquery-nl2sql-agent/internal/validator"
)

type Service struct {
	llm       genai.LLMClient
	cache     *settings.Cache
	validator *validator.Validator
	state     *session.State
	logger    *zap.Logger
}

func NewService(client bigquery.Client, llm genai.LLMClient, cache *settings.Cache, state *session.State, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if state == nil {
		state = session.New()
	}
	return &Service{
		llm:       llm,
		cache:     cache,
		validator: validator.New(client, logger),
		state:     state,
		logger:    logger,
	}
}

// GenerateSQL produces an initial SQL query for a natural language question.
// The settings snapshot (computed on first use) provides the schema document
// embedded in the prompt.
func (s *Service) GenerateSQL(ctx context.Context, question string) (string, error) {
	st, err := s.cache.Get(ctx)
	if err != nil {
		return "", err
	}
	s.state.Set(session.KeyDatabaseSettings, st)

	sql, err := s.llm.GenerateSQL(ctx, buildPrompt(st.DDLSchema, question))
	if err != nil {
		return "", fmt.Errorf("failed to generate SQL: %w", err)
	}

	s.state.Set(session.KeySQLQuery, sql)
	return sql, nil
}

// Validate runs sql through the safety gate and execution, recording returned
// rows in the session state. It never returns an error; failures come back
// inside the result.
func (s *Service) Validate(ctx context.Context, sql string) *validator.Result {
	res := s.validator.Run(ctx, sql)
	if res.Rows != nil {
		s.state.Set(session.KeyQueryResult, res.Rows)
	}
	return res
}

// Answer is the full pipeline: question to SQL to validated result.
func (s *Service) Answer(ctx context.Context, question string) (string, *validator.Result, error) {
	sql, err := s.GenerateSQL(ctx, question)
	if err != nil {
		return "", nil, err
	}
	return sql, s.Validate(ctx, sql), nil
}
