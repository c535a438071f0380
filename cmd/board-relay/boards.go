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
	"fmt"
	"log/slog"

	"github.com/sirseerhq/board-relay/internal/catalog"
	"github.com/sirseerhq/board-relay/internal/config"
	"github.com/sirseerhq/board-relay/internal/miro"
	"github.com/spf13/cobra"
)

// boardsOptions carries the boards command's flag values.
type boardsOptions struct {
	configPath string
	format     catalog.Format
	output     string
	token      string
}

// boardsCmd represents the boards command
func newBoardsCommand(logger *slog.Logger) *cobra.Command {
	var (
		format     string
		outputFile string
		token      string
	)

	cmd := &cobra.Command{
		Use:   "boards",
		Short: "Export a catalog of all boards visible to the token",
		Long: `Export every board the credential can see into a CSV inventory sorted by
board name. The file's boardID column feeds directly into backup --csv-file,
so the catalog doubles as a batch backup manifest.

With --format both, a timestamped JSON document carrying the complete raw
board payloads is written next to the CSV.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := catalog.ParseFormat(format)
			if err != nil {
				return err
			}
			return runBoards(cmd.Context(), logger, boardsOptions{
				configPath: configFile,
				format:     parsed,
				output:     outputFile,
				token:      token,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or both (CSV plus JSON document)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Catalog CSV path (overrides config)")
	cmd.Flags().StringVar(&token, "token", "", "Miro access token (overrides the env file)")

	return cmd
}

// runBoards executes the boards command
func runBoards(ctx context.Context, logger *slog.Logger, opts boardsOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.output != "" {
		cfg.Defaults.CatalogFile = opts.output
	}

	token, err := cfg.ReadToken(opts.token)
	if err != nil {
		return err
	}

	client := miro.NewRESTClient(miro.NewToken(token), cfg.Miro.APIEndpoint,
		miro.WithPageSize(cfg.Defaults.PageSize),
		miro.WithLogger(logger))
	exporter := catalog.NewExporter(client, logger)

	result, err := exporter.Export(ctx, cfg.Defaults.CatalogFile, opts.format)
	if err != nil {
		return err
	}

	fmt.Printf("Saved %d boards to %s\n", result.Boards, result.CSVPath)
	if result.JSONPath != "" {
		fmt.Printf("JSON document written to %s\n", result.JSONPath)
	}
	return nil
}
