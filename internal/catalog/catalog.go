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

// Package catalog exports the full list of boards visible to a credential
// as a spreadsheet-friendly CSV inventory, optionally accompanied by a
// timestamped JSON document carrying the complete raw board payloads.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirseerhq/board-relay/internal/miro"
	"github.com/sirseerhq/board-relay/internal/output"
)

// Format selects what the exporter writes.
type Format string

const (
	// FormatCSV writes only the CSV inventory.
	FormatCSV Format = "csv"
	// FormatBoth writes the CSV inventory plus a timestamped JSON document.
	FormatBoth Format = "both"
)

// timestampFormat names JSON export files down to the second.
const timestampFormat = "20060102_150405"

// catalogHeader is the fixed CSV column order. The boardID column feeds
// batch backup runs, which look the column up by this exact name.
var catalogHeader = []string{"name", "boardID", "createdAt", "viewLink"}

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatBoth:
		return FormatBoth, nil
	default:
		return "", fmt.Errorf("invalid format %q (valid formats: csv, both)", s)
	}
}

// Exporter writes board catalogs fetched through a Miro client.
type Exporter struct {
	client miro.Client
	logger *slog.Logger
}

// NewExporter creates an Exporter.
func NewExporter(client miro.Client, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		client: client,
		logger: logger,
	}
}

// Result reports what an export produced.
type Result struct {
	// Boards is the number of boards in the catalog.
	Boards int
	// CSVPath is where the CSV inventory was written.
	CSVPath string
	// JSONPath is where the JSON document was written; empty unless the
	// export ran with FormatBoth.
	JSONPath string
}

// document is the JSON export payload.
type document struct {
	Boards   []miro.Board   `json:"boards"`
	Metadata exportMetadata `json:"metadata"`
}

type exportMetadata struct {
	TotalBoards int    `json:"total_boards"`
	GeneratedAt string `json:"generated_at"`
}

// Export fetches every visible board and writes the catalog to csvPath,
// replacing any previous catalog at that path. Rows are ordered by board
// name ascending (byte order, so names sort case-sensitively and unnamed
// boards come first). With FormatBoth a JSON document named
// miro_boards_<timestamp>.json is also written next to the CSV; its boards
// keep the API's own order and their complete raw payloads.
func (e *Exporter) Export(ctx context.Context, csvPath string, format Format) (*Result, error) {
	boards, err := e.client.ListBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	if boards == nil {
		boards = []miro.Board{}
	}
	e.logger.Info("boards fetched", "count", len(boards))

	ordered := make([]miro.Board, len(boards))
	copy(ordered, boards)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})

	if err := output.WriteCSVFile(csvPath, catalogHeader, catalogRows(ordered)); err != nil {
		return nil, fmt.Errorf("failed to write catalog CSV: %w", err)
	}
	e.logger.Info("catalog written", "path", csvPath, "boards", len(ordered))

	result := &Result{
		Boards:  len(boards),
		CSVPath: csvPath,
	}

	if format == FormatBoth {
		now := time.Now()
		jsonPath := filepath.Join(filepath.Dir(csvPath), fmt.Sprintf("miro_boards_%s.json", now.Format(timestampFormat)))
		doc := document{
			Boards: boards,
			Metadata: exportMetadata{
				TotalBoards: len(boards),
				GeneratedAt: now.Format(time.RFC3339),
			},
		}
		if err := output.WriteJSONFile(jsonPath, doc); err != nil {
			return nil, fmt.Errorf("failed to write catalog JSON: %w", err)
		}
		e.logger.Info("catalog JSON written", "path", jsonPath)
		result.JSONPath = jsonPath
	}

	return result, nil
}

// catalogRows renders boards into CSV rows in the header's column order.
func catalogRows(boards []miro.Board) [][]string {
	rows := make([][]string, 0, len(boards))
	for _, board := range boards {
		rows = append(rows, []string{
			board.Name,
			board.ID,
			board.CreatedAt,
			board.ViewLink,
		})
	}
	return rows
}
