// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

// Package config holds all application configuration, loaded with Koanf v2
// from three layers: built-in defaults, an optional YAML config file, and
// environment variables (highest priority).
//
// Environment variables map onto the nested structure with underscores:
// STEAM_API_KEY -> steam.api_key, SYNC_STORE_DELAY -> sync.store_delay,
// DATABASE_PATH -> database.path.
//
// Config is immutable after Load() and safe for concurrent reads.
package config

import (
	"time"
)

// Config is the root configuration tree.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Registers RegistersConfig `koanf:"registers"`
	Steam     SteamConfig     `koanf:"steam"`
	SteamSpy  GatewayConfig   `koanf:"steamspy"`
	ProtonDB  GatewayConfig   `koanf:"protondb"`
	Deals     DealsConfig     `koanf:"deals"`
	Sync      SyncConfig      `koanf:"sync"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// DatabaseConfig holds DuckDB settings for the canonical store.
type DatabaseConfig struct {
	// Path is the database file; ":memory:" is accepted for tests.
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`

	// PageSize caps rows per select; full-table reads paginate past it.
	PageSize int `koanf:"page_size" validate:"gt=0"`
}

// RegistersConfig holds the client-local register store settings.
type RegistersConfig struct {
	// Path is the BadgerDB directory for shortlist/exclusion/theme/tab
	// configuration blobs. Empty means in-memory (tests).
	Path string `koanf:"path"`
}

// SteamConfig holds Steam storefront and web API settings, plus the fixed
// player roster that library sync operates on.
type SteamConfig struct {
	// APIKey authorizes the Steam web API (owned games, profiles). The
	// storefront endpoints and the player-count endpoint are keyless.
	APIKey string `koanf:"api_key"`

	// StoreURL is the storefront base (appdetails, appreviews, search,
	// featuredcategories). Overridable for tests.
	StoreURL string `koanf:"store_url" validate:"required,url"`

	// WebURL is the web API base (owned games, summaries, current players).
	WebURL string `koanf:"web_url" validate:"required,url"`

	Timeout time.Duration `koanf:"timeout"`

	// Players is the fixed roster, seeded into the store at startup.
	Players []PlayerSeed `koanf:"players" validate:"dive"`
}

// PlayerSeed declares one group member.
type PlayerSeed struct {
	Name    string `koanf:"name" validate:"required"`
	SteamID string `koanf:"steam_id" validate:"required"`
	Primary bool   `koanf:"primary"`
}

// GatewayConfig holds settings for a simple keyless gateway.
type GatewayConfig struct {
	URL     string        `koanf:"url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"`
}

// DealsConfig holds deal-aggregator (IsThereAnyDeal) settings. The price-sync
// job is skipped entirely when APIKey is empty.
type DealsConfig struct {
	URL     string        `koanf:"url" validate:"required,url"`
	APIKey  string        `koanf:"api_key"`
	Country string        `koanf:"country"`
	Timeout time.Duration `koanf:"timeout"`
}

// SyncConfig bounds ingestion job behavior.
type SyncConfig struct {
	// StoreDelay is the fixed pause between sequential storefront calls,
	// the dominant latency driver for enrichment batches.
	StoreDelay time.Duration `koanf:"store_delay"`

	// RunBudget caps one job invocation's wall-clock work; the continuation
	// protocol exists so large catalogs span many short invocations.
	RunBudget time.Duration `koanf:"run_budget"`

	// DiscoverBatch is the number of pending ids enriched per continuation
	// call. Small, because each item makes several rate-limited calls.
	DiscoverBatch int `koanf:"discover_batch" validate:"gt=0"`

	// PriceBatch is the worklist size for one price-sync rotation.
	PriceBatch int `koanf:"price_batch" validate:"gt=0"`

	// PlayerCountBatch is the worklist size for one player-count rotation.
	PlayerCountBatch int `koanf:"player_count_batch" validate:"gt=0"`

	// SpyActiveFloor filters the discovery top list to apps with at least
	// this 2-week average player count.
	SpyActiveFloor int `koanf:"spy_active_floor"`
}

// SchedulerConfig drives the in-process job scheduler. Jobs remain externally
// triggerable over HTTP regardless of these settings.
type SchedulerConfig struct {
	Enabled             bool          `koanf:"enabled"`
	DiscoverInterval    time.Duration `koanf:"discover_interval"`
	LibrariesInterval   time.Duration `koanf:"libraries_interval"`
	PricesInterval      time.Duration `koanf:"prices_interval"`
	TrendingInterval    time.Duration `koanf:"trending_interval"`
	PlayerCountInterval time.Duration `koanf:"player_count_interval"`
}

// SecurityConfig holds the trigger-surface shared secret. An empty secret
// disables the bearer check, for local development.
type SecurityConfig struct {
	TriggerSecret string `koanf:"trigger_secret"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, the lowest configuration layer.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8686,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Path:      "data/gamenight.db",
			MaxMemory: "1GB",
			Threads:   0,
			PageSize:  1000,
		},
		Registers: RegistersConfig{
			Path: "data/registers",
		},
		Steam: SteamConfig{
			StoreURL: "https://store.steampowered.com",
			WebURL:   "https://api.steampowered.com",
			Timeout:  30 * time.Second,
		},
		SteamSpy: GatewayConfig{
			URL:     "https://steamspy.com",
			Timeout: 30 * time.Second,
		},
		ProtonDB: GatewayConfig{
			URL:     "https://www.protondb.com",
			Timeout: 15 * time.Second,
		},
		Deals: DealsConfig{
			URL:     "https://api.isthereanydeal.com",
			Country: "GB",
			Timeout: 30 * time.Second,
		},
		Sync: SyncConfig{
			StoreDelay:       200 * time.Millisecond,
			RunBudget:        10 * time.Second,
			DiscoverBatch:    5,
			PriceBatch:       20,
			PlayerCountBatch: 50,
			SpyActiveFloor:   500,
		},
		Scheduler: SchedulerConfig{
			Enabled:             false,
			DiscoverInterval:    6 * time.Hour,
			LibrariesInterval:   12 * time.Hour,
			PricesInterval:      30 * time.Minute,
			TrendingInterval:    6 * time.Hour,
			PlayerCountInterval: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
