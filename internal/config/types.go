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

// Package config types define the configuration structures used throughout
// board-relay. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for board-relay.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	Miro     MiroConfig     `yaml:"miro"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// MiroConfig contains Miro-specific settings including the API endpoint
// and how the access token is sourced. The endpoint can be overridden to
// point fetches at a test server.
type MiroConfig struct {
	APIEndpoint string `yaml:"api_endpoint"`
	TokenEnv    string `yaml:"token_env"`
	EnvFile     string `yaml:"env_file"`
}

// DefaultsConfig contains default settings that apply to all backup and
// catalog operations unless overridden by command-line flags. These
// settings control page sizes and where artifacts are written.
type DefaultsConfig struct {
	PageSize    int    `yaml:"page_size"`
	BackupDir   string `yaml:"backup_dir"`
	CatalogFile string `yaml:"catalog_file"`
}

// DefaultConfig returns a Config with sensible defaults suitable for most
// use cases. These defaults target the public Miro API and write artifacts
// relative to the working directory.
func DefaultConfig() *Config {
	return &Config{
		Miro: MiroConfig{
			APIEndpoint: "https://api.miro.com/v2",
			TokenEnv:    "MIRO_ACCESS_TOKEN",
			EnvFile:     ".env",
		},
		Defaults: DefaultsConfig{
			PageSize:    50,
			BackupDir:   "backups",
			CatalogFile: "board_list.csv",
		},
	}
}
