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

// Package session holds the key-value state shared with the surrounding
// agent orchestration. This core only writes; the read side belongs to the
// orchestration layer.
package session

import "sync"

// Keys written by the core.
const (
	KeyDatabaseSettings = "database_settings"
	KeySQLQuery         = "sql_query"
	KeyQueryResult      = "query_result"
)

// State is a concurrency-safe string-keyed map for one agent session.
type State struct {
	mu     sync.RWMutex
	values map[string]any
}

func New() *State {
	return &State{values: make(map[string]any)}
}

func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}
