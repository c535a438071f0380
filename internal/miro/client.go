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

import "context"

// Client defines the interface for interacting with the Miro API.
// This interface allows for easy mocking in tests.
type Client interface {
	// GetBoard retrieves metadata for a single board. A failure here aborts
	// the surrounding operation; there is no fallback.
	GetBoard(ctx context.Context, boardID string) (*Board, error)

	// ListBoardItems retrieves every item on the board, following the
	// cursor-based pagination of the items endpoint until exhaustion.
	// Server-provided ordering is preserved.
	ListBoardItems(ctx context.Context, boardID string) ([]Item, error)

	// ListBoardConnectors retrieves every connector on the board, following
	// the cursor-based pagination of the connectors endpoint until exhaustion.
	ListBoardConnectors(ctx context.Context, boardID string) ([]Connector, error)

	// ListBoards retrieves every board visible to the credential, following
	// the offset-based pagination of the board listing endpoint.
	ListBoards(ctx context.Context) ([]Board, error)
}
