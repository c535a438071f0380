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

package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirseerhq/board-relay/internal/miro"
	"github.com/sirseerhq/board-relay/internal/output"
)

// timestampFormat names backup files down to the second.
const timestampFormat = "20060102_150405"

// Builder creates board backups. It fetches a board's metadata, items, and
// connectors through a Miro client and writes them as one snapshot file per
// call into the configured backup directory.
type Builder struct {
	client miro.Client
	dir    string
	logger *slog.Logger
}

// NewBuilder creates a Builder that writes backup files into dir. The
// directory is created on first use if it does not exist.
func NewBuilder(client miro.Client, dir string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		client: client,
		dir:    dir,
		logger: logger,
	}
}

// Backup captures a complete snapshot of one board and writes it to a
// timestamped JSON file, returning the written file's path. boardName is
// optional and only used for progress reporting; when empty, the name from
// the board's own metadata is used instead.
//
// A failure fetching the board's metadata aborts before any further
// requests. Any later failure propagates with the underlying cause and
// leaves no partially written file behind.
func (b *Builder) Backup(ctx context.Context, boardID, boardName string) (string, error) {
	b.logger.Info("starting board backup", "board_id", boardID)

	board, err := b.client.GetBoard(ctx, boardID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch board info: %w", err)
	}
	b.logger.Info("board info fetched", "board", displayName(boardName, board, boardID))

	items, err := b.client.ListBoardItems(ctx, boardID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch board items: %w", err)
	}

	connectors, err := b.client.ListBoardConnectors(ctx, boardID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch board connectors: %w", err)
	}

	// Empty collections serialize as [], not null.
	if items == nil {
		items = []miro.Item{}
	}
	if connectors == nil {
		connectors = []miro.Connector{}
	}

	now := time.Now()
	snap := &Snapshot{
		BoardInfo:  board,
		Items:      items,
		Connectors: connectors,
		Metadata: CaptureMetadata{
			BackupDate:      now.Format(time.RFC3339),
			TotalItems:      len(items),
			TotalConnectors: len(connectors),
		},
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	filename := fmt.Sprintf("backup_%s_%s.json", sanitizeBoardID(boardID), now.Format(timestampFormat))
	path := filepath.Join(b.dir, filename)

	if err := output.WriteJSONFile(path, snap); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	b.logger.Info("backup written",
		"path", path,
		"items", len(items),
		"connectors", len(connectors))

	return path, nil
}

// displayName picks the best human-readable name for progress output.
func displayName(boardName string, board *miro.Board, boardID string) string {
	if boardName != "" {
		return boardName
	}
	if board != nil && board.Name != "" {
		return board.Name
	}
	return boardID
}

// sanitizeBoardID makes a board identifier safe to embed in a file name.
// Path separators cannot appear in file names.
func sanitizeBoardID(boardID string) string {
	boardID = strings.ReplaceAll(boardID, "/", "-")
	return strings.ReplaceAll(boardID, "\\", "-")
}
