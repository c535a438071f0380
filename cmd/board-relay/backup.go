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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sirseerhq/board-relay/internal/batch"
	"github.com/sirseerhq/board-relay/internal/config"
	relayerrors "github.com/sirseerhq/board-relay/internal/errors"
	"github.com/sirseerhq/board-relay/internal/miro"
	"github.com/sirseerhq/board-relay/internal/snapshot"
	"github.com/spf13/cobra"
)

// backupOptions carries the backup command's flag values.
type backupOptions struct {
	configPath string
	csvFile    string
	boardID    string
	interval   int
	outputDir  string
	token      string
}

// backupCmd represents the backup command
func newBackupCommand(logger *slog.Logger) *cobra.Command {
	var opts backupOptions

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up Miro boards to timestamped JSON files",
		Long: `Back up one board or a whole list of boards. Each backup bundles the
board's metadata, items, and connectors into a single JSON file named
backup_<board-id>_<timestamp>.json in the backup directory.

Batch mode reads board ids from a CSV file with a boardID column (the file
written by the boards command works directly). Boards are processed in file
order with a pause between them; one board's failure is logged and the run
continues with the next board.

Authentication is read from the env file named in the configuration
(default .env, variable MIRO_ACCESS_TOKEN) unless --token is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.csvFile == "" && opts.boardID == "" {
				return errors.New("either --csv-file or --board-id must be specified")
			}
			opts.configPath = configFile
			return runBackup(cmd.Context(), logger, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.csvFile, "csv-file", "c", "", "CSV file listing boards to back up (boardID column required)")
	cmd.Flags().StringVarP(&opts.boardID, "board-id", "b", "", "Single board id to back up")
	cmd.Flags().IntVarP(&opts.interval, "interval", "i", 1, "Seconds to pause between boards in a batch run")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for backup files (overrides config)")
	cmd.Flags().StringVar(&opts.token, "token", "", "Miro access token (overrides the env file)")

	return cmd
}

// runBackup executes the backup command
func runBackup(ctx context.Context, logger *slog.Logger, opts backupOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.outputDir != "" {
		cfg.Defaults.BackupDir = opts.outputDir
	}

	token, err := cfg.ReadToken(opts.token)
	if err != nil {
		return err
	}

	client := miro.NewRESTClient(miro.NewToken(token), cfg.Miro.APIEndpoint,
		miro.WithPageSize(cfg.Defaults.PageSize),
		miro.WithLogger(logger))
	builder := snapshot.NewBuilder(client, cfg.Defaults.BackupDir, logger)

	// When both a CSV and a single board id are given, the CSV wins.
	if opts.csvFile != "" {
		return runBatchBackup(ctx, logger, builder, opts.csvFile, opts.interval)
	}
	return runSingleBackup(ctx, builder, opts.boardID)
}

// runSingleBackup backs up one board and reports the written file.
func runSingleBackup(ctx context.Context, builder *snapshot.Builder, boardID string) error {
	path, err := builder.Backup(ctx, boardID, "")
	if err != nil {
		return err
	}

	fmt.Printf("Backup complete: %s\n", path)
	return nil
}

// runBatchBackup backs up every board listed in a CSV file.
func runBatchBackup(ctx context.Context, logger *slog.Logger, builder *snapshot.Builder, csvFile string, interval int) error {
	refs, err := batch.ReadBoardRefs(csvFile)
	if err != nil {
		return err
	}
	logger.Info("boards loaded from CSV", "count", len(refs), "file", csvFile)

	driver := batch.NewDriver(builder, time.Duration(interval)*time.Second, logger)

	// Per-board failures are logged by the driver and do not fail the
	// run; only cancellation surfaces here.
	_, err = driver.Run(ctx, refs)
	return err
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// Check for specific error types
	if errors.Is(err, relayerrors.ErrInvalidToken) ||
		errors.Is(err, relayerrors.ErrBoardNotFound) ||
		errors.Is(err, relayerrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, relayerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
