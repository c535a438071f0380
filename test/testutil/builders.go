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
	"fmt"
	"time"
)

// itemTypes cycles through the item kinds a real board mixes together.
var itemTypes = []string{"sticky_note", "shape", "text", "frame", "card"}

// BoardBuilder provides a fluent API for creating test board payloads
type BoardBuilder struct {
	id        string
	name      string
	createdAt string
	viewLink  string
	fields    map[string]any
}

// NewBoardBuilder creates a new board builder with defaults
func NewBoardBuilder(id string) *BoardBuilder {
	return &BoardBuilder{
		id:        id,
		name:      "Board " + id,
		createdAt: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC).Format(time.RFC3339),
		viewLink:  "https://miro.com/app/board/" + id,
		fields:    map[string]any{},
	}
}

// WithName sets the board name
func (b *BoardBuilder) WithName(name string) *BoardBuilder {
	if name != "" {
		b.name = name
	}
	return b
}

// WithCreatedAt sets the board creation timestamp
func (b *BoardBuilder) WithCreatedAt(createdAt string) *BoardBuilder {
	b.createdAt = createdAt
	return b
}

// WithViewLink sets the board view link
func (b *BoardBuilder) WithViewLink(link string) *BoardBuilder {
	b.viewLink = link
	return b
}

// WithField adds an arbitrary field to the board payload, standing in for
// the parts of the Miro API response the tool does not model.
func (b *BoardBuilder) WithField(key string, value any) *BoardBuilder {
	b.fields[key] = value
	return b
}

// Build returns the board as an API payload
func (b *BoardBuilder) Build() map[string]any {
	board := map[string]any{
		"id":        b.id,
		"name":      b.name,
		"createdAt": b.createdAt,
		"viewLink":  b.viewLink,
	}
	for k, v := range b.fields {
		board[k] = v
	}
	return board
}

// GenerateBoards returns n board payloads with distinct ids and names in a
// deliberately unsorted name order, so catalog tests can verify sorting.
func GenerateBoards(n int) []map[string]any {
	boards := make([]map[string]any, n)
	for i := range boards {
		id := fmt.Sprintf("board-%04d", i)
		// Count down through names while ids count up.
		name := fmt.Sprintf("Board %04d", n-1-i)
		boards[i] = NewBoardBuilder(id).WithName(name).Build()
	}
	return boards
}

// GenerateItems returns n item payloads for a board in stable id order,
// cycling through several item types with per-type payload shapes.
func GenerateItems(boardID string, n int) []map[string]any {
	items := make([]map[string]any, n)
	for i := range items {
		item := map[string]any{
			"id":   fmt.Sprintf("%s-item-%04d", boardID, i),
			"type": itemTypes[i%len(itemTypes)],
			"position": map[string]any{
				"x": float64(i * 100),
				"y": float64(i * 50),
			},
		}
		switch item["type"] {
		case "sticky_note", "text", "card":
			item["data"] = map[string]any{
				"content": fmt.Sprintf("<p>note %d</p>", i),
			}
		case "shape":
			item["data"] = map[string]any{
				"shape":   "rectangle",
				"content": fmt.Sprintf("<p>shape %d</p>", i),
			}
		case "frame":
			item["data"] = map[string]any{
				"title": fmt.Sprintf("Frame %d", i),
			}
		}
		items[i] = item
	}
	return items
}

// GenerateConnectors returns n connector payloads in stable id order.
func GenerateConnectors(n int) []map[string]any {
	connectors := make([]map[string]any, n)
	for i := range connectors {
		connectors[i] = map[string]any{
			"id":    fmt.Sprintf("connector-%04d", i),
			"shape": "curved",
			"startItem": map[string]any{
				"id": fmt.Sprintf("item-%04d", i),
			},
			"endItem": map[string]any{
				"id": fmt.Sprintf("item-%04d", i+1),
			},
		}
	}
	return connectors
}
