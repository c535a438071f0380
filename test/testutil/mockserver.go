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

// Package testutil provides common test helpers for board-relay
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// TestToken is the raw token every mock server accepts. The servers expect
// it in the normalized form the client sends on the wire.
const TestToken = "test-token"

// BoardFixture describes one board served by NewBoardServer, including how
// many generated items and connectors its collection endpoints return.
type BoardFixture struct {
	ID             string
	Name           string
	ItemCount      int
	ConnectorCount int
	// Extra fields are merged into the board payload so tests can verify
	// that unmodeled API fields survive a backup round trip.
	Extra map[string]any
}

// MockServer wraps httptest.Server with request accounting.
type MockServer struct {
	*httptest.Server
	requestCount int32
}

// RequestCount returns the number of requests the server has answered.
func (s *MockServer) RequestCount() int32 {
	return atomic.LoadInt32(&s.requestCount)
}

// NewMockServer creates a mock server around a custom handler. Requests are
// counted but not authenticated; use this for error-path tests.
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()

	s := &MockServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.requestCount, 1)
		handler(w, r)
	}))
	return s
}

// NewBoardServer creates a mock Miro API serving the given boards with their
// items and connectors. Collection endpoints honor the limit and cursor
// query parameters, so page sizes smaller than a collection produce real
// multi-page fetches. Every request must carry the normalized test token.
func NewBoardServer(t *testing.T, fixtures ...BoardFixture) *MockServer {
	t.Helper()

	mux := http.NewServeMux()
	for _, f := range fixtures {
		fixture := f
		board := NewBoardBuilder(fixture.ID).WithName(fixture.Name).Build()
		for k, v := range fixture.Extra {
			board[k] = v
		}
		items := GenerateItems(fixture.ID, fixture.ItemCount)
		connectors := GenerateConnectors(fixture.ConnectorCount)

		mux.HandleFunc("/boards/"+fixture.ID, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(board)
		})
		mux.HandleFunc("/boards/"+fixture.ID+"/items", func(w http.ResponseWriter, r *http.Request) {
			serveCursorPage(w, r, items)
		})
		mux.HandleFunc("/boards/"+fixture.ID+"/connectors", func(w http.ResponseWriter, r *http.Request) {
			serveCursorPage(w, r, connectors)
		})
	}

	s := &MockServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.requestCount, 1)
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid access token"}`))
			return
		}
		mux.ServeHTTP(w, r)
	}))
	return s
}

// NewAccountServer creates a mock Miro API whose /boards endpoint serves the
// given board payloads with offset pagination, honoring the limit and offset
// query parameters.
func NewAccountServer(t *testing.T, boards []map[string]any) *MockServer {
	t.Helper()

	s := &MockServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.requestCount, 1)
		if !authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid access token"}`))
			return
		}
		if r.URL.Path != "/boards" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not found"}`))
			return
		}

		limit := queryInt(r, "limit", 50)
		offset := queryInt(r, "offset", 0)

		end := offset + limit
		if end > len(boards) {
			end = len(boards)
		}
		var page []map[string]any
		if offset < end {
			page = boards[offset:end:end]
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":   page,
			"total":  len(boards),
			"offset": offset,
		})
	}))
	return s
}

// NewErrorServer creates a mock server that always returns the specified
// status with a JSON error body.
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()

	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(fmt.Sprintf(`{"message":%q}`, http.StatusText(statusCode))))
	})
}

// serveCursorPage answers one page of a cursor-paginated collection. The
// cursor encodes the start index of the next page; the "next" link is
// omitted on the final page.
func serveCursorPage(w http.ResponseWriter, r *http.Request, records []map[string]any) {
	limit := queryInt(r, "limit", 50)
	start := queryInt(r, "cursor", 0)

	end := start + limit
	if end > len(records) {
		end = len(records)
	}
	var page []map[string]any
	if start < end {
		page = records[start:end:end]
	}

	response := map[string]any{
		"data":  page,
		"total": len(records),
	}
	if end < len(records) {
		response["links"] = map[string]string{
			"next": fmt.Sprintf("%s?cursor=%d&limit=%d", r.URL.Path, end, limit),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer oauth2:"+TestToken
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
