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

// Package testutil provides common test helpers for changelog-sync
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// MockServer is a fake GitHub REST API. It records the page number and
// Authorization header of every request.
type MockServer struct {
	*httptest.Server

	mu    sync.Mutex
	pages []int
	auth  []string
	paths []string
}

func (m *MockServer) record(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = append(m.pages, page)
	m.auth = append(m.auth, r.Header.Get("Authorization"))
	m.paths = append(m.paths, r.URL.Path)
	return page
}

// RequestCount returns the number of requests served.
func (m *MockServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pages)
}

// RequestedPages returns the page numbers requested, in order.
func (m *MockServer) RequestedPages() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.pages...)
}

// AuthHeaders returns the Authorization header of every request.
func (m *MockServer) AuthHeaders() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.auth...)
}

// Paths returns the URL path of every request.
func (m *MockServer) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// NewMockServer creates a mock server with a custom handler. Requests are
// recorded before handler runs.
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// NewRESTServer serves the closed pull request listing. pages maps page
// numbers to their records; other pages are empty arrays.
func NewRESTServer(t *testing.T, pages map[int][]map[string]interface{}) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := m.record(r)

		if !strings.HasSuffix(r.URL.Path, "/pulls") || r.URL.Query().Get("state") != "closed" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "Not Found"}`))
			return
		}

		records := pages[page]
		if records == nil {
			records = []map[string]interface{}{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)
	}))
	t.Cleanup(m.Close)
	return m
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(`{"message": "` + http.StatusText(statusCode) + `"}`))
	})
}

// NewRateLimitServer creates a mock server that answers like GitHub does once
// the hourly quota is used up.
func NewRateLimitServer(t *testing.T) *MockServer {
	t.Helper()
	reset := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", reset)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "API rate limit exceeded for 127.0.0.1.", "documentation_url": "https://docs.github.com/rest/overview/resources-in-the-rest-api#rate-limiting"}`))
	})
}

// NewGraphQLServer serves GraphQL pages in order, one per request, with
// cursors "c1", "c2", ... linking them.
func NewGraphQLServer(t *testing.T, pages ...[]map[string]interface{}) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]interface{} `json:"variables"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		index := 0
		if after, ok := req.Variables["after"].(string); ok && strings.HasPrefix(after, "c") {
			index, _ = strconv.Atoi(strings.TrimPrefix(after, "c"))
		}

		b := NewGraphQLResponseBuilder()
		if index < len(pages) {
			b.WithPullRequests(pages[index]...)
		}
		if index+1 < len(pages) {
			b.WithPagination(true, "c"+strconv.Itoa(index+1))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(b.Build())
	})
}

// GenerateRESTPage generates closed PRs numbered startNum..endNum. Even
// numbers are merged, one hour apart starting at base; odd numbers are
// closed without merging.
func GenerateRESTPage(startNum, endNum int, base time.Time) []map[string]interface{} {
	prs := make([]map[string]interface{}, 0, endNum-startNum+1)
	for i := startNum; i <= endNum; i++ {
		b := NewPullRequestBuilder(i)
		if i%2 == 0 {
			b.WithMergedAt(base.Add(time.Duration(i) * time.Hour))
		}
		prs = append(prs, b.Build())
	}
	return prs
}
