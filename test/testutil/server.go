// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil provides common test helpers for rni-relay: a mock
// historias GraphQL endpoint, response builders, file assertions and a
// harness for running the built binary.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// GraphQLRequest is a request received by a mock server.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
	Header    http.Header    `json:"-"`
	Timestamp time.Time      `json:"-"`
}

// HistoriasServer serves a fixed historias collection in limit/offset
// pages the way the real endpoint does.
type HistoriasServer struct {
	*httptest.Server

	mu        sync.Mutex
	historias []map[string]any
	requests  []GraphQLRequest
	failAt    map[int]int
}

// NewHistoriasServer starts a server over historias. It is closed when the
// test ends.
func NewHistoriasServer(t *testing.T, historias []map[string]any) *HistoriasServer {
	t.Helper()

	mock := &HistoriasServer{
		historias: historias,
		failAt:    make(map[int]int),
	}
	mock.Server = httptest.NewServer(http.HandlerFunc(mock.handle))
	t.Cleanup(mock.Close)
	return mock
}

// FailRequest makes the nth request (1-based) answer with status.
func (m *HistoriasServer) FailRequest(n, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt[n] = status
}

// GraphQLURL returns the endpoint URL.
func (m *HistoriasServer) GraphQLURL() string {
	return m.URL + "/graphql"
}

// Requests returns a copy of the requests received so far.
func (m *HistoriasServer) Requests() []GraphQLRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GraphQLRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Offsets returns the offset variable of every request received.
func (m *HistoriasServer) Offsets() []int {
	var offsets []int
	for _, req := range m.Requests() {
		offsets = append(offsets, intVar(req.Variables, "offset", 0))
	}
	return offsets
}

func (m *HistoriasServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Problems parsing JSON"})
		return
	}
	req.Header = r.Header.Clone()
	req.Timestamp = time.Now()

	m.mu.Lock()
	m.requests = append(m.requests, req)
	n := len(m.requests)
	status, fail := m.failAt[n]
	m.mu.Unlock()

	if fail {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(http.StatusText(status)))
		return
	}

	if !strings.Contains(req.Query, "historias(limit: $limit, offset: $offset)") {
		writeJSON(w, NewGraphQLResponseBuilder().WithError("Cannot query field on type Query").Build())
		return
	}

	limit := intVar(req.Variables, "limit", 100)
	offset := intVar(req.Variables, "offset", 0)
	writeJSON(w, NewGraphQLResponseBuilder().WithHistorias(m.page(limit, offset)...).Build())
}

func (m *HistoriasServer) page(limit, offset int) []map[string]any {
	if offset < 0 || offset >= len(m.historias) || limit <= 0 {
		return nil
	}
	end := offset + limit
	if end > len(m.historias) {
		end = len(m.historias)
	}
	return m.historias[offset:end]
}

// NewErrorServer creates a mock server that always answers with status.
func NewErrorServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(http.StatusText(status)))
	}))
	t.Cleanup(server.Close)
	return server
}

// AssertGraphQLRequest validates the shape of a request received by a mock
// server.
func AssertGraphQLRequest(t *testing.T, req GraphQLRequest) {
	t.Helper()
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if accept := req.Header.Get("Accept"); accept != "application/json" {
		t.Errorf("Accept = %q, want application/json", accept)
	}
	if !strings.HasPrefix(req.Header.Get("User-Agent"), "rni-relay/") {
		t.Errorf("User-Agent = %q, want rni-relay/<version>", req.Header.Get("User-Agent"))
	}
	if _, ok := req.Variables["limit"]; !ok {
		t.Error("request is missing the limit variable")
	}
	if _, ok := req.Variables["offset"]; !ok {
		t.Error("request is missing the offset variable")
	}
}

func intVar(vars map[string]any, name string, def int) int {
	if f, ok := vars[name].(float64); ok {
		return int(f)
	}
	return def
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
