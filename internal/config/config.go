// Package config loads process-wide runtime configuration from the
// environment, following the same two-step (.env then os.Getenv) load
// the rest of the ecosystem uses.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the interpreter's process-wide configuration, populated
// from NAAB_* environment variables (see SPEC_FULL.md §6.5).
type Config struct {
	TempRoot             string
	BlockRoot            string
	SearchIndexPath      string
	AuditLogPath         string
	PolyglotTimeout      int // seconds
	GCThreshold          int
	EncryptionMode       string // off | auto | on
	EncryptionAlgo       string // xchacha20poly1305 | aes-256-gcm
	MasterKeyHex         string
	SearchResultCapDefault int
	ModulePath           []string
}

// Load reads a ".env" file if present (ignored if missing) and then
// overlays environment variables, applying defaults for anything unset.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		TempRoot:               os.Getenv("NAAB_TEMP_ROOT"),
		BlockRoot:              os.Getenv("NAAB_BLOCK_ROOT"),
		SearchIndexPath:        os.Getenv("NAAB_SEARCH_INDEX_PATH"),
		AuditLogPath:           os.Getenv("NAAB_AUDIT_LOG_PATH"),
		EncryptionMode:         os.Getenv("NAAB_ENCRYPTION_MODE"),
		EncryptionAlgo:         os.Getenv("NAAB_ENCRYPTION_ALGO"),
		MasterKeyHex:           os.Getenv("NAAB_MASTER_KEY"),
		PolyglotTimeout:        30,
		GCThreshold:            1000,
		SearchResultCapDefault: 100,
	}

	if cfg.TempRoot == "" {
		cfg.TempRoot = os.TempDir()
	}
	if cfg.BlockRoot == "" {
		cfg.BlockRoot = ".naab/blocks"
	}
	if cfg.SearchIndexPath == "" {
		cfg.SearchIndexPath = ".naab/search.db"
	}
	if cfg.AuditLogPath == "" {
		cfg.AuditLogPath = ".naab/audit.log"
	}
	if cfg.EncryptionMode == "" {
		cfg.EncryptionMode = "auto"
	}
	if cfg.EncryptionAlgo == "" {
		cfg.EncryptionAlgo = "xchacha20poly1305"
	}

	if v := os.Getenv("NAAB_POLYGLOT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PolyglotTimeout = n
		}
	}
	if v := os.Getenv("NAAB_GC_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GCThreshold = n
		}
	}
	if v := os.Getenv("NAAB_MODULE_PATH"); v != "" {
		for _, p := range strings.Split(v, ":") {
			if p != "" {
				cfg.ModulePath = append(cfg.ModulePath, p)
			}
		}
	}

	return cfg
}
