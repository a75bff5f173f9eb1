// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable pointing at the YAML config
// file. When unset, the default search paths are tried.
const ConfigPathEnvVar = "GAMENIGHT_CONFIG"

// defaultConfigPaths are tried in order when GAMENIGHT_CONFIG is unset.
var defaultConfigPaths = []string{
	"config.yaml",
	"/etc/gamenight/config.yaml",
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct.
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file.
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment variables (highest priority).
	// STEAM_API_KEY -> steam.api_key, SYNC_DISCOVER_BATCH -> sync.discover_batch
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		return ""
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// configSections are the recognized top-level env prefixes. The first
// underscore after the prefix separates section from key.
var configSections = []string{
	"server", "database", "registers", "steam", "steamspy", "protondb",
	"deals", "sync", "scheduler", "security", "logging",
}

// envTransformFunc maps environment variable names to koanf paths.
// SERVER_PORT -> server.port; STEAM_API_KEY -> steam.api_key. Variables
// outside the recognized sections are ignored.
func envTransformFunc(key string) string {
	lower := strings.ToLower(key)
	for _, section := range configSections {
		prefix := section + "_"
		if strings.HasPrefix(lower, prefix) {
			return section + "." + strings.TrimPrefix(lower, prefix)
		}
	}
	return ""
}

// Validate checks the configuration tree with struct tags plus the few rules
// tags cannot express.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return err
	}

	if c.Sync.StoreDelay < 0 {
		return fmt.Errorf("sync.store_delay must not be negative")
	}
	if c.Sync.RunBudget <= 0 {
		return fmt.Errorf("sync.run_budget must be positive")
	}

	// Library sync needs the web API; fail early rather than mid-job.
	if len(c.Steam.Players) > 0 && c.Steam.APIKey == "" {
		return fmt.Errorf("steam.api_key is required when steam.players are configured")
	}

	seen := make(map[string]struct{}, len(c.Steam.Players))
	for _, p := range c.Steam.Players {
		if _, dup := seen[p.SteamID]; dup {
			return fmt.Errorf("duplicate steam_id %q in steam.players", p.SteamID)
		}
		seen[p.SteamID] = struct{}{}
	}

	return nil
}
