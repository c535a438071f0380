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

// Package config provides configuration management for board-relay with
// support for multiple configuration sources and a well-defined precedence
// order. It lets deployments customize endpoints and output locations
// through configuration files while maintaining flexibility with environment
// variables and command-line overrides.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations. The Miro access token
// is deliberately kept out of the YAML file; it is resolved separately from
// an env file or a flag (see ReadToken).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .board-relay.yaml (current directory)
//   - .board-relay.yml (current directory)
//   - ~/.board-relay/config.yaml
//   - ~/.board-relay/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is performed
// on directory paths.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Try to load config file if path is provided
	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".board-relay.yaml",
			".board-relay.yml",
			filepath.Join(os.Getenv("HOME"), ".board-relay", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".board-relay", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Defaults.BackupDir = expandPath(cfg.Defaults.BackupDir)
	cfg.Defaults.CatalogFile = expandPath(cfg.Defaults.CatalogFile)
	cfg.Miro.EnvFile = expandPath(cfg.Miro.EnvFile)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	// Miro endpoint
	if endpoint := os.Getenv("MIRO_API_ENDPOINT"); endpoint != "" {
		cfg.Miro.APIEndpoint = endpoint
	}

	// Defaults
	if pageSize := os.Getenv("BOARD_RELAY_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}
	if backupDir := os.Getenv("BOARD_RELAY_BACKUP_DIR"); backupDir != "" {
		cfg.Defaults.BackupDir = backupDir
	}
	if envFile := os.Getenv("BOARD_RELAY_ENV_FILE"); envFile != "" {
		cfg.Miro.EnvFile = envFile
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// Validate checks if the configuration contains valid values. It ensures
// page sizes are within the Miro API's limits and endpoints are not empty.
// This should be called after loading configuration to catch invalid
// settings early, before any network activity.
func (c *Config) Validate() error {
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > 50 {
		return fmt.Errorf("page size %d exceeds Miro API limit of 50", c.Defaults.PageSize)
	}
	if c.Miro.APIEndpoint == "" {
		return fmt.Errorf("miro API endpoint cannot be empty")
	}
	if c.Miro.TokenEnv == "" {
		return fmt.Errorf("token environment variable name cannot be empty")
	}
	if c.Defaults.BackupDir == "" {
		return fmt.Errorf("backup directory cannot be empty")
	}
	return nil
}
