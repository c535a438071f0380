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

// Package main implements the board-relay command-line interface.
// This tool backs up Miro boards into self-contained JSON files and
// exports CSV catalogs of all boards visible to a credential.
//
// The CLI supports:
//   - Backing up a single board with --board-id
//   - Batch backups driven by a CSV board list with --csv-file
//   - Exporting a board catalog as CSV, optionally with a JSON document
//   - Miro token authentication via an env file or the --token flag
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	board-relay backup (--board-id <id> | --csv-file <path>) [flags]
//	board-relay boards [flags]
//
// Example:
//
//	board-relay boards --format both
//	board-relay backup --csv-file board_list.csv --interval 2
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
