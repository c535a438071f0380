package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	relayerrors "github.com/sirseerhq/board-relay/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeTestConfig writes a config file into dir and returns its path.
func writeTestConfig(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

// newMiroServer wraps mux with a token check so every test exercises the
// full auth header plumbing, token normalization included.
func newMiroServer(t *testing.T, token string, mux *http.ServeMux) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer oauth2:"+token {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Invalid access token"}`)
			return
		}
		mux.ServeHTTP(w, r)
	}))
}

func writePage(w http.ResponseWriter, records []map[string]any, total int, next string) {
	page := map[string]any{
		"data":  records,
		"total": total,
	}
	if next != "" {
		page["links"] = map[string]string{"next": next}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "nil error",
			err:      nil,
			wantCode: 0,
		},
		{
			name:     "general error",
			err:      os.ErrClosed,
			wantCode: 1,
		},
		{
			name:     "missing config",
			err:      relayerrors.ErrMissingConfig,
			wantCode: 1,
		},
		{
			name:     "invalid token",
			err:      relayerrors.ErrInvalidToken,
			wantCode: 2,
		},
		{
			name:     "wrapped invalid token",
			err:      fmt.Errorf("backup failed: %w", relayerrors.ErrInvalidToken),
			wantCode: 2,
		},
		{
			name:     "board not found",
			err:      relayerrors.ErrBoardNotFound,
			wantCode: 2,
		},
		{
			name:     "rate limit",
			err:      relayerrors.ErrRateLimit,
			wantCode: 2,
		},
		{
			name:     "network failure",
			err:      relayerrors.ErrNetworkFailure,
			wantCode: 3,
		},
		{
			name:     "wrapped network failure",
			err:      fmt.Errorf("catalog export failed: %w", relayerrors.ErrNetworkFailure),
			wantCode: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapErrorToExitCode(tt.err)
			if got != tt.wantCode {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.wantCode)
			}
		})
	}
}

func TestBackupCommandRequiresTarget(t *testing.T) {
	cmd := newBackupCommand(testLogger())
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error when neither --csv-file nor --board-id is given")
	}
	if !strings.Contains(err.Error(), "--csv-file or --board-id") {
		t.Errorf("Error = %q, want mention of --csv-file or --board-id", err)
	}
}

func TestBackupSingleBoard(t *testing.T) {
	items := make([]map[string]any, 50)
	for i := range items {
		items[i] = map[string]any{
			"id":   fmt.Sprintf("item-%02d", i),
			"type": "sticky_note",
			"data": map[string]any{"content": fmt.Sprintf("<p>note %d</p>", i)},
		}
	}
	connectors := make([]map[string]any, 5)
	for i := range connectors {
		connectors[i] = map[string]any{"id": fmt.Sprintf("conn-%d", i)}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/boards/B1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"B1","name":"Sprint Planning","createdAt":"2024-03-01T10:00:00Z","viewLink":"https://miro.com/app/board/B1","sharingPolicy":{"access":"private"}}`)
	})
	mux.HandleFunc("/boards/B1/items", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cursor") == "" {
			writePage(w, items[:30], 50, "https://api.miro.com/v2/boards/B1/items?cursor=tail&limit=50")
			return
		}
		writePage(w, items[30:], 50, "")
	})
	mux.HandleFunc("/boards/B1/connectors", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, connectors, 5, "")
	})

	server := newMiroServer(t, "test-token", mux)
	defer server.Close()

	tmpDir := t.TempDir()
	backupDir := filepath.Join(tmpDir, "backups")
	configPath := writeTestConfig(t, tmpDir, fmt.Sprintf(`
miro:
  api_endpoint: %s
defaults:
  backup_dir: %s
`, server.URL, backupDir))

	err := runBackup(context.Background(), testLogger(), backupOptions{
		configPath: configPath,
		boardID:    "B1",
		token:      "test-token",
	})
	if err != nil {
		t.Fatalf("runBackup failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(backupDir, "backup_B1_*.json"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected exactly one backup file, got %v", matches)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("Failed to read backup file: %v", err)
	}

	var snap struct {
		BoardInfo  map[string]any   `json:"board_info"`
		Items      []map[string]any `json:"items"`
		Connectors []map[string]any `json:"connectors"`
		Metadata   struct {
			BackupDate      string `json:"backup_date"`
			TotalItems      int    `json:"total_items"`
			TotalConnectors int    `json:"total_connectors"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Backup file is not valid JSON: %v", err)
	}

	if snap.Metadata.TotalItems != 50 {
		t.Errorf("total_items = %d, want 50", snap.Metadata.TotalItems)
	}
	if snap.Metadata.TotalConnectors != 5 {
		t.Errorf("total_connectors = %d, want 5", snap.Metadata.TotalConnectors)
	}
	if snap.Metadata.BackupDate == "" {
		t.Error("backup_date is empty")
	}
	if len(snap.Items) != 50 {
		t.Fatalf("Expected 50 items across both pages, got %d", len(snap.Items))
	}
	if snap.Items[0]["id"] != "item-00" || snap.Items[49]["id"] != "item-49" {
		t.Errorf("Items out of order: first %v, last %v", snap.Items[0]["id"], snap.Items[49]["id"])
	}
	if len(snap.Connectors) != 5 {
		t.Errorf("Expected 5 connectors, got %d", len(snap.Connectors))
	}
	if snap.BoardInfo["name"] != "Sprint Planning" {
		t.Errorf("board_info name = %v, want Sprint Planning", snap.BoardInfo["name"])
	}
	if _, ok := snap.BoardInfo["sharingPolicy"]; !ok {
		t.Error("board_info lost the sharingPolicy field from the API payload")
	}
}

func TestBackupBatchContinuesAfterFailure(t *testing.T) {
	mux := http.NewServeMux()
	for _, id := range []string{"b-1", "b-3"} {
		boardID := id
		mux.HandleFunc("/boards/"+boardID, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"id":%q,"name":"Board %s"}`, boardID, boardID)
		})
		mux.HandleFunc("/boards/"+boardID+"/items", func(w http.ResponseWriter, r *http.Request) {
			writePage(w, []map[string]any{{"id": boardID + "-item", "type": "shape"}}, 1, "")
		})
		mux.HandleFunc("/boards/"+boardID+"/connectors", func(w http.ResponseWriter, r *http.Request) {
			writePage(w, nil, 0, "")
		})
	}
	mux.HandleFunc("/boards/b-2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Board not found"}`)
	})

	server := newMiroServer(t, "test-token", mux)
	defer server.Close()

	tmpDir := t.TempDir()
	backupDir := filepath.Join(tmpDir, "backups")
	configPath := writeTestConfig(t, tmpDir, fmt.Sprintf(`
miro:
  api_endpoint: %s
defaults:
  backup_dir: %s
`, server.URL, backupDir))

	csvPath := filepath.Join(tmpDir, "boards.csv")
	csvContent := "name,boardID,createdAt,viewLink\r\n" +
		"One,b-1,2024-01-01,https://miro.com/b-1\r\n" +
		"Two,b-2,2024-01-02,https://miro.com/b-2\r\n" +
		"Three,b-3,2024-01-03,https://miro.com/b-3\r\n"
	if err := os.WriteFile(csvPath, []byte(csvContent), 0o644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	err := runBackup(context.Background(), testLogger(), backupOptions{
		configPath: configPath,
		csvFile:    csvPath,
		interval:   0,
		token:      "test-token",
	})
	if err != nil {
		t.Fatalf("Batch run should succeed despite one failed board, got: %v", err)
	}

	for _, id := range []string{"b-1", "b-3"} {
		matches, _ := filepath.Glob(filepath.Join(backupDir, "backup_"+id+"_*.json"))
		if len(matches) != 1 {
			t.Errorf("Expected one backup for %s, got %v", id, matches)
		}
	}
	matches, _ := filepath.Glob(filepath.Join(backupDir, "backup_b-2_*.json"))
	if len(matches) != 0 {
		t.Errorf("Failed board b-2 should have no backup file, got %v", matches)
	}
}

func TestBackupBatchRequiresBoardIDColumn(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeTestConfig(t, tmpDir, `
miro:
  api_endpoint: http://127.0.0.1:1
`)

	csvPath := filepath.Join(tmpDir, "boards.csv")
	if err := os.WriteFile(csvPath, []byte("name,link\nOne,x\n"), 0o644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	err := runBackup(context.Background(), testLogger(), backupOptions{
		configPath: configPath,
		csvFile:    csvPath,
		token:      "test-token",
	})
	if err == nil {
		t.Fatal("Expected error for CSV without boardID column")
	}
	if !strings.Contains(err.Error(), "boardID column") {
		t.Errorf("Error = %q, want mention of the boardID column", err)
	}
}

func TestBackupInvalidTokenError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Invalid access token"}`)
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	configPath := writeTestConfig(t, tmpDir, fmt.Sprintf(`
miro:
  api_endpoint: %s
defaults:
  backup_dir: %s
`, server.URL, filepath.Join(tmpDir, "backups")))

	err := runBackup(context.Background(), testLogger(), backupOptions{
		configPath: configPath,
		boardID:    "B1",
		token:      "bad-token",
	})
	if err == nil {
		t.Fatal("Expected error from 401 response")
	}
	if !errors.Is(err, relayerrors.ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got: %v", err)
	}
	if got := mapErrorToExitCode(err); got != 2 {
		t.Errorf("Exit code = %d, want 2", got)
	}
}

func TestBackupTokenFromEnvFile(t *testing.T) {
	defer os.Unsetenv("BOARD_RELAY_TEST_TOKEN")

	mux := http.NewServeMux()
	mux.HandleFunc("/boards/B1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"B1","name":"Env Board"}`)
	})
	mux.HandleFunc("/boards/B1/items", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, nil, 0, "")
	})
	mux.HandleFunc("/boards/B1/connectors", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, nil, 0, "")
	})

	server := newMiroServer(t, "file-token", mux)
	defer server.Close()

	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(envPath, []byte("BOARD_RELAY_TEST_TOKEN=file-token\n"), 0o600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	backupDir := filepath.Join(tmpDir, "backups")
	configPath := writeTestConfig(t, tmpDir, fmt.Sprintf(`
miro:
  api_endpoint: %s
  token_env: BOARD_RELAY_TEST_TOKEN
  env_file: %s
defaults:
  backup_dir: %s
`, server.URL, envPath, backupDir))

	err := runBackup(context.Background(), testLogger(), backupOptions{
		configPath: configPath,
		boardID:    "B1",
	})
	if err != nil {
		t.Fatalf("runBackup with env file token failed: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(backupDir, "backup_B1_*.json"))
	if len(matches) != 1 {
		t.Fatalf("Expected one backup file, got %v", matches)
	}
}

func TestBackupMissingEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeTestConfig(t, tmpDir, fmt.Sprintf(`
miro:
  api_endpoint: http://127.0.0.1:1
  env_file: %s
`, filepath.Join(tmpDir, "missing.env")))

	err := runBackup(context.Background(), testLogger(), backupOptions{
		configPath: configPath,
		boardID:    "B1",
	})
	if err == nil {
		t.Fatal("Expected error when the env file does not exist")
	}
	if !errors.Is(err, relayerrors.ErrMissingConfig) {
		t.Errorf("Expected ErrMissingConfig, got: %v", err)
	}
	if got := mapErrorToExitCode(err); got != 1 {
		t.Errorf("Exit code = %d, want 1", got)
	}
}
