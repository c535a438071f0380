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

// Package miro provides types and interfaces for interacting with the Miro REST API.
package miro

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Token is a Miro access token in the normalized form the API expects.
// Construct it with NewToken; the value is immutable afterwards.
type Token string

// NewToken normalizes a raw credential into a Token. Surrounding whitespace
// is trimmed and the "oauth2:" prefix required by the Miro API is added when
// absent. Tokens that already carry the prefix pass through unchanged.
func NewToken(raw string) Token {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "oauth2:") {
		raw = "oauth2:" + raw
	}
	return Token(raw)
}

// Board represents a Miro board record. Only the fields this tool reads are
// modeled; the raw API payload is retained verbatim so persisted artifacts
// round-trip fields the tool does not know about.
type Board struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	ViewLink  string `json:"viewLink"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the modeled fields and keeps a copy of the payload.
func (b *Board) UnmarshalJSON(data []byte) error {
	type alias Board
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = Board(a)
	b.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original payload when one was captured, preserving
// unmodeled fields and their order.
func (b Board) MarshalJSON() ([]byte, error) {
	if len(b.raw) > 0 {
		return b.raw, nil
	}
	type alias Board
	return json.Marshal(alias(b))
}

// Item represents one item on a board: a sticky note, shape, frame, text
// element, and so on. The payload shape varies per item type, so everything
// beyond the identifying fields stays opaque.
type Item struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the identifying fields and keeps a copy of the payload.
func (it *Item) UnmarshalJSON(data []byte) error {
	type alias Item
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*it = Item(a)
	it.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original payload when one was captured.
func (it Item) MarshalJSON() ([]byte, error) {
	if len(it.raw) > 0 {
		return it.raw, nil
	}
	type alias Item
	return json.Marshal(alias(it))
}

// Connector represents a connector line between two items on a board.
type Connector struct {
	ID string `json:"id"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the identifying field and keeps a copy of the payload.
func (c *Connector) UnmarshalJSON(data []byte) error {
	type alias Connector
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Connector(a)
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original payload when one was captured.
func (c Connector) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	type alias Connector
	return json.Marshal(alias(c))
}

// listPage is the envelope every Miro collection endpoint returns: a page of
// records, the collection total, and pagination links. Records stay raw here;
// typed decoding happens per endpoint.
type listPage struct {
	Data  []json.RawMessage `json:"data"`
	Total int               `json:"total"`
	Links *pageLinks        `json:"links"`
}

// pageLinks distinguishes an absent "next" link from an empty one. A nil
// Next means the server declared this the last page.
type pageLinks struct {
	Next *string `json:"next"`
}

// Default values for fetch operations
const (
	defaultPageSize = 50
)

// StatusError is returned when the Miro API responds with a non-2xx status.
// It carries the response body so callers can log the server's explanation.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("miro api: %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("miro api: %s", e.Status)
}

// HTTPStatus returns the response status code. It makes StatusError
// classifiable by the apierror inspector without a package dependency.
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}
