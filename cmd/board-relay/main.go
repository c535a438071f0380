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
	"fmt"
	"log/slog"
	"os"

	"github.com/sirseerhq/board-relay/pkg/version"
	"github.com/spf13/cobra"
)

// configFile holds the --config persistent flag value.
var configFile string

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	rootCmd := &cobra.Command{
		Use:   "board-relay",
		Short: "Back up and catalog Miro boards",
		Long: `Board Relay captures complete point-in-time backups of Miro boards,
including every item and connector, into self-contained JSON files. It can
back up a single board, drive batch backups from a CSV list, and export a
catalog of all boards visible to a credential.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: search standard locations)")

	rootCmd.AddCommand(newBackupCommand(logger))
	rootCmd.AddCommand(newBoardsCommand(logger))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}
