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
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// BackupSnapshot mirrors the layout of a written backup file for assertions.
type BackupSnapshot struct {
	BoardInfo  map[string]interface{}   `json:"board_info"`
	Items      []map[string]interface{} `json:"items"`
	Connectors []map[string]interface{} `json:"connectors"`
	Metadata   struct {
		BackupDate      string `json:"backup_date"`
		TotalItems      int    `json:"total_items"`
		TotalConnectors int    `json:"total_connectors"`
	} `json:"metadata"`
}

// FindBackupFile locates the single backup file for a board in dir. It fails
// the test when zero or several matching files exist.
func FindBackupFile(t *testing.T, dir, boardID string) string {
	t.Helper()

	pattern := filepath.Join(dir, "backup_"+boardID+"_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("Failed to glob backup files: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected exactly one backup for %s, got %v", boardID, matches)
	}

	return matches[0]
}

// ReadBackup parses a backup file written by the backup command.
func ReadBackup(t *testing.T, path string) *BackupSnapshot {
	t.Helper()

	var snap BackupSnapshot
	ReadJSON(t, path, &snap)
	return &snap
}

// AssertBackupCounts validates the item and connector counts of a backup,
// both the embedded collections and the metadata totals.
func AssertBackupCounts(t *testing.T, snap *BackupSnapshot, wantItems, wantConnectors int) {
	t.Helper()

	if len(snap.Items) != wantItems {
		t.Errorf("Expected %d items, got %d", wantItems, len(snap.Items))
	}
	if snap.Metadata.TotalItems != wantItems {
		t.Errorf("metadata total_items = %d, want %d", snap.Metadata.TotalItems, wantItems)
	}
	if len(snap.Connectors) != wantConnectors {
		t.Errorf("Expected %d connectors, got %d", wantConnectors, len(snap.Connectors))
	}
	if snap.Metadata.TotalConnectors != wantConnectors {
		t.Errorf("metadata total_connectors = %d, want %d", snap.Metadata.TotalConnectors, wantConnectors)
	}
	if snap.Metadata.BackupDate == "" {
		t.Error("backup_date is empty")
	}
}

// ReadCatalog parses a catalog CSV into its rows, header included.
func ReadCatalog(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open catalog: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse catalog CSV: %v", err)
	}

	return rows
}

// AssertCatalogNames validates the name column of a catalog CSV, in order.
func AssertCatalogNames(t *testing.T, path string, want []string) {
	t.Helper()

	rows := ReadCatalog(t, path)
	if len(rows) == 0 {
		t.Fatal("Catalog CSV is empty")
	}
	if rows[0][0] != "name" || rows[0][1] != "boardID" {
		t.Errorf("Catalog header = %v, want name,boardID,...", rows[0])
	}
	if len(rows)-1 != len(want) {
		t.Fatalf("Expected %d catalog rows, got %d", len(want), len(rows)-1)
	}
	for i, name := range want {
		if rows[i+1][0] != name {
			t.Errorf("Row %d name = %q, want %q", i+1, rows[i+1][0], name)
		}
	}
}
