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

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	relayerrors "github.com/sirseerhq/board-relay/internal/errors"
)

// ReadToken resolves the Miro access token for this run. A non-empty
// flagToken wins and skips the env file entirely. Otherwise the configured
// env file is loaded into the process environment and the token is read
// from the configured variable name, so a variable already present in the
// environment also satisfies the lookup.
//
// A missing env file or a missing/empty token value is a startup-fatal
// configuration error; both wrap ErrMissingConfig.
func (c *Config) ReadToken(flagToken string) (string, error) {
	if flagToken != "" {
		return strings.TrimSpace(flagToken), nil
	}

	envFile := c.Miro.EnvFile
	if _, err := os.Stat(envFile); err != nil {
		return "", fmt.Errorf("env file %s not found: %w", envFile, relayerrors.ErrMissingConfig)
	}

	// godotenv.Load does not override variables already set in the
	// environment, matching the usual dotenv precedence.
	if err := godotenv.Load(envFile); err != nil {
		return "", fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}

	token := strings.TrimSpace(os.Getenv(c.Miro.TokenEnv))
	if token == "" {
		return "", fmt.Errorf("%s is not set or empty in %s: %w", c.Miro.TokenEnv, envFile, relayerrors.ErrMissingConfig)
	}

	return token, nil
}
