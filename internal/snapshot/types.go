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

package snapshot

import (
	"github.com/sirseerhq/board-relay/internal/miro"
)

// Snapshot is the complete backup document for one board. It is assembled
// once per backup run, written to a single file, and never mutated after
// the write.
type Snapshot struct {
	BoardInfo  *miro.Board      `json:"board_info"`
	Items      []miro.Item      `json:"items"`
	Connectors []miro.Connector `json:"connectors"`
	Metadata   CaptureMetadata  `json:"metadata"`
}

// CaptureMetadata records when a backup was taken and how many records it
// holds. The counts always equal the lengths of the corresponding slices
// in the snapshot.
type CaptureMetadata struct {
	BackupDate      string `json:"backup_date"`
	TotalItems      int    `json:"total_items"`
	TotalConnectors int    `json:"total_connectors"`
}
