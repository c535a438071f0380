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

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// MiroLikeMockServer creates a mock server that behaves like the real Miro
// API: token-authenticated GET endpoints, clamped page limits, offset and
// cursor pagination, Miro-shaped error bodies, and a finite request budget
// that turns into 429 responses when exhausted.
type MiroLikeMockServer struct {
	*httptest.Server
	mu                 sync.RWMutex
	rateLimitRemaining int32
	boards             map[string]*boardState
	boardOrder         []string
	requestHistory     []APIRequest
}

// boardState holds everything the mock serves for one board.
type boardState struct {
	payload    map[string]interface{}
	items      []map[string]interface{}
	connectors []map[string]interface{}
}

// APIRequest represents one recorded API request
type APIRequest struct {
	Method    string
	Path      string
	Query     url.Values
	Timestamp time.Time
}

// NewMiroLikeMockServer creates a realistic Miro API mock serving the given
// board fixtures.
func NewMiroLikeMockServer(t *testing.T, fixtures ...BoardFixture) *MiroLikeMockServer {
	t.Helper()

	mock := &MiroLikeMockServer{
		rateLimitRemaining: 1000,
		boards:             map[string]*boardState{},
		requestHistory:     []APIRequest{},
	}

	for _, f := range fixtures {
		board := NewBoardBuilder(f.ID).WithName(f.Name).Build()
		for k, v := range f.Extra {
			board[k] = v
		}
		mock.boards[f.ID] = &boardState{
			payload:    board,
			items:      GenerateItems(f.ID, f.ItemCount),
			connectors: GenerateConnectors(f.ConnectorCount),
		}
		mock.boardOrder = append(mock.boardOrder, f.ID)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Record the request before any outcome is decided
		mock.mu.Lock()
		mock.requestHistory = append(mock.requestHistory, APIRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.Query(),
			Timestamp: time.Now(),
		})
		mock.mu.Unlock()

		if r.Method != http.MethodGet {
			writeMiroError(w, http.StatusMethodNotAllowed, "methodNotAllowed", "Method not allowed")
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			writeMiroError(w, http.StatusUnauthorized, "tokenNotProvided", "Token not provided")
			return
		}
		if auth != "Bearer oauth2:"+TestToken {
			writeMiroError(w, http.StatusUnauthorized, "unauthorized", "Invalid access token")
			return
		}

		// Check the request budget
		remaining := atomic.AddInt32(&mock.rateLimitRemaining, -1)
		if remaining < 0 {
			w.Header().Set("Retry-After", "30")
			writeMiroError(w, http.StatusTooManyRequests, "tooManyRequests", "Rate limit exceeded")
			return
		}

		mock.route(w, r)
	}))

	mock.Server = server
	return mock
}

// route dispatches a request to the board collection, a single board, or one
// of its item and connector collections.
func (m *MiroLikeMockServer) route(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 0 || parts[0] != "boards" {
		writeMiroError(w, http.StatusNotFound, "notFound", "Resource not found")
		return
	}

	if len(parts) == 1 {
		m.serveBoardList(w, r)
		return
	}

	boardID, err := url.PathUnescape(parts[1])
	if err != nil {
		boardID = parts[1]
	}
	m.mu.RLock()
	board, ok := m.boards[boardID]
	m.mu.RUnlock()
	if !ok {
		writeMiroError(w, http.StatusNotFound, "boardNotFound", "Board not found")
		return
	}

	switch {
	case len(parts) == 2:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(board.payload)
	case len(parts) == 3 && parts[2] == "items":
		serveCursorPage(w, r, board.items)
	case len(parts) == 3 && parts[2] == "connectors":
		serveCursorPage(w, r, board.connectors)
	default:
		writeMiroError(w, http.StatusNotFound, "notFound", "Resource not found")
	}
}

// serveBoardList answers the offset-paginated board collection with the
// limit clamped the way the real API clamps it.
func (m *MiroLikeMockServer) serveBoardList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}
	offset := queryInt(r, "offset", 0)

	m.mu.RLock()
	boards := make([]map[string]interface{}, 0, len(m.boardOrder))
	for _, id := range m.boardOrder {
		boards = append(boards, m.boards[id].payload)
	}
	m.mu.RUnlock()

	end := offset + limit
	if end > len(boards) {
		end = len(boards)
	}
	var pageRecords []map[string]interface{}
	if offset < end {
		pageRecords = boards[offset:end:end]
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"data":   pageRecords,
		"total":  len(boards),
		"offset": offset,
		"limit":  limit,
	})
}

// GetRequestHistory returns a copy of all recorded requests
func (m *MiroLikeMockServer) GetRequestHistory() []APIRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]APIRequest, len(m.requestHistory))
	copy(history, m.requestHistory)
	return history
}

// RequestsTo counts the recorded requests for an exact path
func (m *MiroLikeMockServer) RequestsTo(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, req := range m.requestHistory {
		if req.Path == path {
			count++
		}
	}
	return count
}

// ResetRateLimit restores the full request budget
func (m *MiroLikeMockServer) ResetRateLimit() {
	atomic.StoreInt32(&m.rateLimitRemaining, 1000)
}

// SetRateLimit sets the number of requests remaining before 429 responses
func (m *MiroLikeMockServer) SetRateLimit(remaining int32) {
	atomic.StoreInt32(&m.rateLimitRemaining, remaining)
}

// writeMiroError emits an error response in the API's error body shape.
func writeMiroError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"type":    "error",
		"code":    code,
		"status":  status,
		"message": message,
	})
}
