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

// Package batch drives backups of many boards from a catalog CSV. Boards
// are processed strictly in file order with a configurable pause between
// them to stay friendly to API rate limits. One board's failure never
// stops the run; it is logged and the next board proceeds immediately.
package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// BoardRef identifies one board to back up, optionally with a display
// name used in progress output.
type BoardRef struct {
	ID   string
	Name string
}

// label picks the name shown in logs for a board reference.
func (r BoardRef) label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// ReadBoardRefs reads board references from a CSV file. The file must
// carry a header row with a boardID column; a name column is optional.
// Extra columns are ignored, so a catalog written by the boards command
// feeds directly into a batch run.
func ReadBoardRefs(path string) ([]BoardRef, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file %s is empty", path)
	}

	idColumn, nameColumn := -1, -1
	for i, column := range records[0] {
		switch strings.TrimSpace(column) {
		case "boardID":
			idColumn = i
		case "name":
			nameColumn = i
		}
	}
	if idColumn == -1 {
		return nil, fmt.Errorf("CSV file %s has no boardID column", path)
	}

	refs := make([]BoardRef, 0, len(records)-1)
	for _, record := range records[1:] {
		if idColumn >= len(record) {
			continue
		}
		ref := BoardRef{ID: strings.TrimSpace(record[idColumn])}
		if nameColumn >= 0 && nameColumn < len(record) {
			ref.Name = strings.TrimSpace(record[nameColumn])
		}
		refs = append(refs, ref)
	}

	return refs, nil
}

// Backuper captures one board to a backup file and returns the file's path.
type Backuper interface {
	Backup(ctx context.Context, boardID, boardName string) (string, error)
}

// Driver runs backups for a list of board references sequentially.
type Driver struct {
	backuper Backuper
	interval time.Duration
	logger   *slog.Logger
}

// NewDriver creates a Driver that pauses for interval between boards.
func NewDriver(backuper Backuper, interval time.Duration, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		backuper: backuper,
		interval: interval,
		logger:   logger,
	}
}

// Run backs up every board in refs in order and returns how many failed.
// A failed board is logged and skipped; the run continues with the next
// board at once, without the inter-board pause. The pause also never runs
// after the final board. Run only returns an error when ctx is done, at
// which point remaining boards are abandoned.
func (d *Driver) Run(ctx context.Context, refs []BoardRef) (int, error) {
	total := len(refs)
	failed := 0

	for i, ref := range refs {
		d.logger.Info("backup progress", "current", i+1, "total", total)

		if _, err := d.backuper.Backup(ctx, ref.ID, ref.Name); err != nil {
			if ctx.Err() != nil {
				return failed, ctx.Err()
			}
			d.logger.Error("board backup failed", "board", ref.label(), "error", err)
			failed++
			continue
		}

		if i < total-1 {
			if err := d.wait(ctx); err != nil {
				return failed, err
			}
		}
	}

	d.logger.Info("batch complete",
		"succeeded", total-failed,
		"failed", failed,
		"total", total)

	return failed, nil
}

// wait sleeps for the configured interval unless ctx ends first.
func (d *Driver) wait(ctx context.Context) error {
	if d.interval <= 0 {
		return nil
	}
	select {
	case <-time.After(d.interval):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
