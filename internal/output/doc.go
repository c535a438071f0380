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

// Package output provides utilities for writing backup and catalog files
// to disk. Both JSON documents and CSV tables are written atomically: the
// content goes to a temporary file in the target directory which is then
// renamed into place, so a crash or error mid-write never leaves a
// truncated file where a previous good one stood.
//
// JSON output is indented and preserves non-ASCII and HTML characters
// verbatim, keeping board content readable and diff-friendly. CSV output
// uses CRLF line endings so exported catalogs open cleanly in spreadsheet
// applications.
//
// Example usage:
//
//	if err := output.WriteJSONFile("backup.json", snapshot); err != nil {
//	    log.Fatal(err)
//	}
//
//	header := []string{"name", "boardID"}
//	rows := [][]string{{"Roadmap", "uXjVM6LIxbk="}}
//	if err := output.WriteCSVFile("board_list.csv", header, rows); err != nil {
//	    log.Fatal(err)
//	}
package output
