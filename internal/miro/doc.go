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

// Package miro provides a client for the Miro REST API (v2) focused on
// reading boards, their items, and their connectors. It hides the API's two
// pagination styles behind collection-level methods that always return the
// complete record sequence in server order.
//
// The package includes:
//   - A Client interface covering the four consumed endpoints
//   - A REST implementation with token auth and response size limiting
//   - Mock client for testing
//   - Record types that preserve the raw API payload for round-trip fidelity
//
// Basic usage:
//
//	client := miro.NewRESTClient(miro.NewToken("your-token"), "https://api.miro.com/v2")
//	board, err := client.GetBoard(ctx, "uXjVM6LIxbk=")
//	if err != nil {
//	    // Handle error
//	}
//	items, err := client.ListBoardItems(ctx, board.ID)
package miro
