package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultValues(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	cfg := Load()

	if cfg.EncryptionMode != "auto" {
		t.Errorf("expected EncryptionMode 'auto', got %q", cfg.EncryptionMode)
	}
	if cfg.EncryptionAlgo != "xchacha20poly1305" {
		t.Errorf("expected EncryptionAlgo 'xchacha20poly1305', got %q", cfg.EncryptionAlgo)
	}
	if cfg.PolyglotTimeout != 30 {
		t.Errorf("expected PolyglotTimeout 30, got %d", cfg.PolyglotTimeout)
	}
	if cfg.GCThreshold != 1000 {
		t.Errorf("expected GCThreshold 1000, got %d", cfg.GCThreshold)
	}
	if cfg.SearchIndexPath != ".naab/search.db" {
		t.Errorf("expected default search index path, got %q", cfg.SearchIndexPath)
	}
	if cfg.AuditLogPath != ".naab/audit.log" {
		t.Errorf("expected default audit log path, got %q", cfg.AuditLogPath)
	}
	if cfg.MasterKeyHex != "" {
		t.Errorf("expected empty MasterKeyHex, got %q", cfg.MasterKeyHex)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("NAAB_ENCRYPTION_MODE", "on")
	os.Setenv("NAAB_MASTER_KEY", "deadbeef")
	os.Setenv("NAAB_ENCRYPTION_ALGO", "aes-256-gcm")
	os.Setenv("NAAB_POLYGLOT_TIMEOUT_SECONDS", "45")
	os.Setenv("NAAB_GC_THRESHOLD", "2500")

	cfg := Load()

	if cfg.EncryptionMode != "on" {
		t.Errorf("expected EncryptionMode 'on', got %q", cfg.EncryptionMode)
	}
	if cfg.MasterKeyHex != "deadbeef" {
		t.Errorf("expected MasterKeyHex 'deadbeef', got %q", cfg.MasterKeyHex)
	}
	if cfg.EncryptionAlgo != "aes-256-gcm" {
		t.Errorf("expected EncryptionAlgo 'aes-256-gcm', got %q", cfg.EncryptionAlgo)
	}
	if cfg.PolyglotTimeout != 45 {
		t.Errorf("expected PolyglotTimeout 45, got %d", cfg.PolyglotTimeout)
	}
	if cfg.GCThreshold != 2500 {
		t.Errorf("expected GCThreshold 2500, got %d", cfg.GCThreshold)
	}
}

func TestLoad_InvalidIntegerValuesFallBackToDefaults(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("NAAB_POLYGLOT_TIMEOUT_SECONDS", "not-a-number")
	os.Setenv("NAAB_GC_THRESHOLD", "abc")

	cfg := Load()

	if cfg.PolyglotTimeout != 30 {
		t.Errorf("expected default PolyglotTimeout 30, got %d", cfg.PolyglotTimeout)
	}
	if cfg.GCThreshold != 1000 {
		t.Errorf("expected default GCThreshold 1000, got %d", cfg.GCThreshold)
	}
}

func TestLoad_NonPositiveIntegersFallBackToDefaults(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("NAAB_POLYGLOT_TIMEOUT_SECONDS", "0")
	os.Setenv("NAAB_GC_THRESHOLD", "-5")

	cfg := Load()

	if cfg.PolyglotTimeout != 30 {
		t.Errorf("expected default PolyglotTimeout 30, got %d", cfg.PolyglotTimeout)
	}
	if cfg.GCThreshold != 1000 {
		t.Errorf("expected default GCThreshold 1000, got %d", cfg.GCThreshold)
	}
}

func clearConfigEnvVars() {
	envVars := []string{
		"NAAB_TEMP_ROOT",
		"NAAB_SEARCH_INDEX_PATH",
		"NAAB_AUDIT_LOG_PATH",
		"NAAB_POLYGLOT_TIMEOUT_SECONDS",
		"NAAB_GC_THRESHOLD",
		"NAAB_ENCRYPTION_MODE",
		"NAAB_ENCRYPTION_ALGO",
		"NAAB_MASTER_KEY",
	}
	for _, envVar := range envVars {
		os.Unsetenv(envVar)
	}
}
