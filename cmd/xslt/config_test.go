package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfigFileEnvVarWins(t *testing.T) {
	t.Setenv(envConfigFile, "/from/env.yaml")
	path, explicit, err := resolveConfigFile("/from/flag.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/from/env.yaml" || !explicit {
		t.Fatalf("expected env var to win as explicit, got path=%q explicit=%v", path, explicit)
	}
}

func TestResolveConfigFileFlagIsExplicit(t *testing.T) {
	t.Setenv(envConfigFile, "")
	path, explicit, err := resolveConfigFile("/from/flag.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/from/flag.yaml" || !explicit {
		t.Fatalf("expected flag path to be explicit, got path=%q explicit=%v", path, explicit)
	}
}

func TestResolveConfigFileDefaultIsNotExplicit(t *testing.T) {
	t.Setenv(envConfigFile, "")
	_, explicit, err := resolveConfigFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if explicit {
		t.Fatalf("expected the XDG default path to be non-explicit")
	}
}

func TestLoadRunConfigMissingDefaultFallsBackSilently(t *testing.T) {
	cfg, err := loadRunConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	if err != nil {
		t.Fatalf("unexpected error for a missing non-explicit config: %v", err)
	}
	if cfg.RecoveryMode != "recover" {
		t.Fatalf("expected defaults to be used, got %#v", cfg)
	}
}

func TestLoadRunConfigMissingExplicitIsError(t *testing.T) {
	_, err := loadRunConfig(filepath.Join(t.TempDir(), "missing.yaml"), true)
	if err == nil {
		t.Fatalf("expected an error for a missing explicitly-named config")
	}
}

func TestLoadRunConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "recovery_mode: strict\ncollation: http://example.com/collation\nparams:\n  greeting: hi\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := loadRunConfig(path, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RecoveryMode != "strict" || cfg.Collation != "http://example.com/collation" || cfg.Params["greeting"] != "hi" {
		t.Fatalf("unexpected parsed config: %#v", cfg)
	}
}
