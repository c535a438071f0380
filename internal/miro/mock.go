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

package miro

import (
	"context"
	"fmt"

	relayerrors "github.com/sirseerhq/board-relay/internal/errors"
)

// MockClient is a mock implementation of the Miro Client interface for testing.
type MockClient struct {
	// Data to return
	Board      *Board
	Items      []Item
	Connectors []Connector
	Boards     []Board

	// Error to return from every method when set
	Err error

	// Per-method errors for testing individual failure points
	GetBoardErr   error
	ItemsErr      error
	ConnectorsErr error
	BoardsErr     error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount   int
	LastBoardID string
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Board:      testBoard(),
		Items:      testItems(),
		Connectors: testConnectors(),
		Boards:     testBoards(),
	}
}

// GetBoard implements the Client interface
func (m *MockClient) GetBoard(ctx context.Context, boardID string) (*Board, error) {
	if err := m.called(ctx, boardID); err != nil {
		return nil, err
	}
	if m.GetBoardErr != nil {
		return nil, m.GetBoardErr
	}
	return m.Board, nil
}

// ListBoardItems implements the Client interface
func (m *MockClient) ListBoardItems(ctx context.Context, boardID string) ([]Item, error) {
	if err := m.called(ctx, boardID); err != nil {
		return nil, err
	}
	if m.ItemsErr != nil {
		return nil, m.ItemsErr
	}
	return m.Items, nil
}

// ListBoardConnectors implements the Client interface
func (m *MockClient) ListBoardConnectors(ctx context.Context, boardID string) ([]Connector, error) {
	if err := m.called(ctx, boardID); err != nil {
		return nil, err
	}
	if m.ConnectorsErr != nil {
		return nil, m.ConnectorsErr
	}
	return m.Connectors, nil
}

// ListBoards implements the Client interface
func (m *MockClient) ListBoards(ctx context.Context) ([]Board, error) {
	if err := m.called(ctx, ""); err != nil {
		return nil, err
	}
	if m.BoardsErr != nil {
		return nil, m.BoardsErr
	}
	return m.Boards, nil
}

// called tracks the invocation and simulates shared error conditions.
func (m *MockClient) called(ctx context.Context, boardID string) error {
	m.CallCount++
	if boardID != "" {
		m.LastBoardID = boardID
	}

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", relayerrors.ErrInvalidToken)
	}
	if m.ShouldFailNotFound {
		return fmt.Errorf("board %q not found: %w", boardID, relayerrors.ErrBoardNotFound)
	}
	if m.Err != nil {
		return m.Err
	}

	return nil
}

// testBoard creates a sample board for testing
func testBoard() *Board {
	return &Board{
		ID:        "uXjVM6LIxbk=",
		Name:      "Sprint Planning",
		CreatedAt: "2025-03-14T09:26:53Z",
		ViewLink:  "https://miro.com/app/board/uXjVM6LIxbk=",
	}
}

// testItems creates sample item data for testing
func testItems() []Item {
	return []Item{
		{ID: "3458764517517529001", Type: "sticky_note"},
		{ID: "3458764517517529002", Type: "shape"},
		{ID: "3458764517517529003", Type: "text"},
	}
}

// testConnectors creates sample connector data for testing
func testConnectors() []Connector {
	return []Connector{
		{ID: "3458764517517530001"},
		{ID: "3458764517517530002"},
	}
}

// testBoards creates sample board listing data for testing
func testBoards() []Board {
	return []Board{
		{ID: "uXjVM6LIxbk=", Name: "Sprint Planning", CreatedAt: "2025-03-14T09:26:53Z", ViewLink: "https://miro.com/app/board/uXjVM6LIxbk="},
		{ID: "uXjVM2AbCde=", Name: "Architecture", CreatedAt: "2025-01-08T14:02:11Z", ViewLink: "https://miro.com/app/board/uXjVM2AbCde="},
		{ID: "uXjVM9ZyXwv=", Name: "Retro", CreatedAt: "2025-06-30T17:45:00Z", ViewLink: "https://miro.com/app/board/uXjVM9ZyXwv="},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithBoard sets the board returned by GetBoard
func WithBoard(board *Board) MockClientOption {
	return func(m *MockClient) {
		m.Board = board
	}
}

// WithItems sets the items returned by ListBoardItems
func WithItems(items []Item) MockClientOption {
	return func(m *MockClient) {
		m.Items = items
	}
}

// WithConnectors sets the connectors returned by ListBoardConnectors
func WithConnectors(connectors []Connector) MockClientOption {
	return func(m *MockClient) {
		m.Connectors = connectors
	}
}

// WithBoards sets the boards returned by ListBoards
func WithBoards(boards []Board) MockClientOption {
	return func(m *MockClient) {
		m.Boards = boards
	}
}

// WithError makes every client method return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Err = err
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
