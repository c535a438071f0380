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

package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirseerhq/board-relay/internal/miro"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// readCSV parses a written catalog file.
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read catalog: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse catalog CSV: %v", err)
	}
	return records
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "csv", want: FormatCSV},
		{input: "both", want: FormatBoth},
		{input: "json", wantErr: true},
		{input: "CSV", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExportSortsByName(t *testing.T) {
	boards := []miro.Board{
		{ID: "b-z", Name: "zeta"},
		{ID: "b-empty", Name: ""},
		{ID: "b-upper", Name: "Zebra"},
		{ID: "b-a", Name: "apple"},
	}
	mock := miro.NewMockClientWithOptions(miro.WithBoards(boards))

	csvPath := filepath.Join(t.TempDir(), "board_list.csv")
	exporter := NewExporter(mock, testLogger())

	result, err := exporter.Export(context.Background(), csvPath, FormatCSV)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if result.Boards != 4 {
		t.Errorf("result.Boards = %d, want 4", result.Boards)
	}

	records := readCSV(t, csvPath)
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5 (header plus 4 rows)", len(records))
	}

	// Byte order: unnamed first, uppercase before lowercase
	wantNames := []string{"", "Zebra", "apple", "zeta"}
	for i, want := range wantNames {
		if got := records[i+1][0]; got != want {
			t.Errorf("row %d name = %q, want %q", i, got, want)
		}
	}
}

func TestExportHeader(t *testing.T) {
	mock := miro.NewMockClient()
	csvPath := filepath.Join(t.TempDir(), "board_list.csv")
	exporter := NewExporter(mock, testLogger())

	if _, err := exporter.Export(context.Background(), csvPath, FormatCSV); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records := readCSV(t, csvPath)
	want := []string{"name", "boardID", "createdAt", "viewLink"}
	if len(records[0]) != len(want) {
		t.Fatalf("header has %d columns, want %d", len(records[0]), len(want))
	}
	for i, column := range want {
		if records[0][i] != column {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], column)
		}
	}
}

func TestExportRowValues(t *testing.T) {
	boards := []miro.Board{
		{
			ID:        "uXjVM6LIxbk=",
			Name:      "Roadmap",
			CreatedAt: "2025-03-14T09:26:53Z",
			ViewLink:  "https://miro.com/app/board/uXjVM6LIxbk=",
		},
	}
	mock := miro.NewMockClientWithOptions(miro.WithBoards(boards))

	csvPath := filepath.Join(t.TempDir(), "board_list.csv")
	exporter := NewExporter(mock, testLogger())
	if _, err := exporter.Export(context.Background(), csvPath, FormatCSV); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records := readCSV(t, csvPath)
	row := records[1]
	want := []string{"Roadmap", "uXjVM6LIxbk=", "2025-03-14T09:26:53Z", "https://miro.com/app/board/uXjVM6LIxbk="}
	for i, value := range want {
		if row[i] != value {
			t.Errorf("row[%d] = %q, want %q", i, row[i], value)
		}
	}
}

func TestExportStableForEqualNames(t *testing.T) {
	boards := []miro.Board{
		{ID: "first", Name: "Duplicate"},
		{ID: "second", Name: "Duplicate"},
	}
	mock := miro.NewMockClientWithOptions(miro.WithBoards(boards))

	csvPath := filepath.Join(t.TempDir(), "board_list.csv")
	exporter := NewExporter(mock, testLogger())
	if _, err := exporter.Export(context.Background(), csvPath, FormatCSV); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records := readCSV(t, csvPath)
	if records[1][1] != "first" || records[2][1] != "second" {
		t.Errorf("equal names reordered: got %q then %q", records[1][1], records[2][1])
	}
}

func TestExportOverwritesPreviousCatalog(t *testing.T) {
	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "board_list.csv")

	first := miro.NewMockClientWithOptions(miro.WithBoards([]miro.Board{
		{ID: "old-1", Name: "Old One"},
		{ID: "old-2", Name: "Old Two"},
		{ID: "old-3", Name: "Old Three"},
	}))
	if _, err := NewExporter(first, testLogger()).Export(context.Background(), csvPath, FormatCSV); err != nil {
		t.Fatalf("first Export failed: %v", err)
	}

	second := miro.NewMockClientWithOptions(miro.WithBoards([]miro.Board{
		{ID: "new-1", Name: "New One"},
	}))
	if _, err := NewExporter(second, testLogger()).Export(context.Background(), csvPath, FormatCSV); err != nil {
		t.Fatalf("second Export failed: %v", err)
	}

	records := readCSV(t, csvPath)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (stale rows must not survive)", len(records))
	}
	if records[1][1] != "new-1" {
		t.Errorf("row id = %q, want new-1", records[1][1])
	}
}

func TestExportIsDeterministic(t *testing.T) {
	mock := miro.NewMockClient()
	tmpDir := t.TempDir()
	firstPath := filepath.Join(tmpDir, "first.csv")
	secondPath := filepath.Join(tmpDir, "second.csv")

	exporter := NewExporter(mock, testLogger())
	if _, err := exporter.Export(context.Background(), firstPath, FormatCSV); err != nil {
		t.Fatalf("first Export failed: %v", err)
	}
	if _, err := exporter.Export(context.Background(), secondPath, FormatCSV); err != nil {
		t.Fatalf("second Export failed: %v", err)
	}

	firstData, err := os.ReadFile(firstPath)
	if err != nil {
		t.Fatalf("failed to read first catalog: %v", err)
	}
	secondData, err := os.ReadFile(secondPath)
	if err != nil {
		t.Fatalf("failed to read second catalog: %v", err)
	}
	if !bytes.Equal(firstData, secondData) {
		t.Error("same boards produced different catalog bytes")
	}
}

func TestExportCSVOnlyWritesNoJSON(t *testing.T) {
	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "board_list.csv")

	exporter := NewExporter(miro.NewMockClient(), testLogger())
	result, err := exporter.Export(context.Background(), csvPath, FormatCSV)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if result.JSONPath != "" {
		t.Errorf("result.JSONPath = %q, want empty", result.JSONPath)
	}

	matches, err := filepath.Glob(filepath.Join(tmpDir, "miro_boards_*.json"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("unexpected JSON export: %v", matches)
	}
}

func TestExportBoth(t *testing.T) {
	boards := []miro.Board{
		{ID: "b-z", Name: "zeta"},
		{ID: "b-a", Name: "alpha"},
	}
	mock := miro.NewMockClientWithOptions(miro.WithBoards(boards))

	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "board_list.csv")
	exporter := NewExporter(mock, testLogger())

	result, err := exporter.Export(context.Background(), csvPath, FormatBoth)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if result.JSONPath == "" {
		t.Fatal("result.JSONPath is empty")
	}
	if filepath.Dir(result.JSONPath) != tmpDir {
		t.Errorf("JSON written to %q, want directory %q", result.JSONPath, tmpDir)
	}

	data, err := os.ReadFile(result.JSONPath)
	if err != nil {
		t.Fatalf("failed to read JSON export: %v", err)
	}
	var doc struct {
		Boards   []miro.Board `json:"boards"`
		Metadata struct {
			TotalBoards int    `json:"total_boards"`
			GeneratedAt string `json:"generated_at"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("JSON export is not valid JSON: %v", err)
	}

	if doc.Metadata.TotalBoards != 2 {
		t.Errorf("total_boards = %d, want 2", doc.Metadata.TotalBoards)
	}
	if doc.Metadata.GeneratedAt == "" {
		t.Error("generated_at is empty")
	}

	// The JSON document keeps the API's order; only the CSV is sorted.
	if len(doc.Boards) != 2 || doc.Boards[0].ID != "b-z" {
		t.Errorf("JSON boards reordered: %+v", doc.Boards)
	}
	records := readCSV(t, csvPath)
	if records[1][1] != "b-a" {
		t.Errorf("CSV first row id = %q, want b-a", records[1][1])
	}
}

func TestExportEmptyAccount(t *testing.T) {
	mock := miro.NewMockClientWithOptions(miro.WithBoards(nil))

	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "board_list.csv")
	exporter := NewExporter(mock, testLogger())

	result, err := exporter.Export(context.Background(), csvPath, FormatBoth)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if result.Boards != 0 {
		t.Errorf("result.Boards = %d, want 0", result.Boards)
	}

	records := readCSV(t, csvPath)
	if len(records) != 1 {
		t.Errorf("got %d records, want header only", len(records))
	}

	data, err := os.ReadFile(result.JSONPath)
	if err != nil {
		t.Fatalf("failed to read JSON export: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("JSON export is not valid JSON: %v", err)
	}
	list, ok := doc["boards"].([]any)
	if !ok {
		t.Fatalf("boards = %v (%T), want empty array", doc["boards"], doc["boards"])
	}
	if len(list) != 0 {
		t.Errorf("boards has %d entries, want 0", len(list))
	}
}

func TestExportListFailure(t *testing.T) {
	listErr := errors.New("listing exploded")
	mock := miro.NewMockClient()
	mock.BoardsErr = listErr

	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "board_list.csv")
	exporter := NewExporter(mock, testLogger())

	if _, err := exporter.Export(context.Background(), csvPath, FormatCSV); !errors.Is(err, listErr) {
		t.Fatalf("expected listing error, got %v", err)
	}

	if _, err := os.Stat(csvPath); !os.IsNotExist(err) {
		t.Errorf("failed export must not create the catalog, stat err = %v", err)
	}
}
