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

// Package snapshot builds complete point-in-time backups of Miro boards.
//
// A backup bundles the board's own metadata, every item, and every
// connector into a single JSON document together with capture metadata
// (when the backup ran and how many records it holds). Each backup is
// written to its own timestamped file and stands alone; nothing links
// one backup to the next, so files can be archived, moved, or deleted
// independently.
//
// Example usage:
//
//	builder := snapshot.NewBuilder(client, "backups", logger)
//	path, err := builder.Backup(ctx, "uXjVM6LIxbk=", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Backup complete: %s\n", path)
package snapshot
