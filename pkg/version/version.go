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

// Package version holds the build version of board-relay. The version is
// reported by the CLI --version flag and sent as part of the User-Agent
// header on every API request.
package version

// Version is the current board-relay version. Release builds override it
// via -ldflags "-X github.com/sirseerhq/board-relay/pkg/version.Version=...".
var Version = "dev"
