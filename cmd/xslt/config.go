package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// appName is the single source of truth for derived env var names and the
// default config file location, the same naming convention devshell's
// config.go builds its XDG lookup from.
const appName = "xslt"

var envConfigFile = strings.ToUpper(appName) + "_CONFIG"

// runConfig is the YAML-backed runtime configuration for a transform run:
// everything spec.md leaves to "external" policy rather than stylesheet
// syntax (recovery mode, default collation, base URI, and a fork worker
// count that is parsed but not read by the transform) plus top-level
// stylesheet parameters.
type runConfig struct {
	RecoveryMode  string            `yaml:"recovery_mode"`
	Collation     string            `yaml:"collation"`
	BaseURI       string            `yaml:"base_uri"`
	ForkWorkers   int               `yaml:"fork_workers"`
	Params        map[string]string `yaml:"params"`
}

func defaultRunConfig() *runConfig {
	return &runConfig{
		RecoveryMode: "recover",
		ForkWorkers:  0, // not read by the transform; fork.go runs one goroutine per branch
	}
}

// resolveConfigFile returns the config file path to load and whether it
// was named explicitly (by env var or flag, as opposed to the default
// location), following the same override idiom devshell's
// resolveConfigDir uses: env var takes priority over an explicit
// --config flag, which takes priority over the default location under
// the user's config directory.
func resolveConfigFile(flagPath string) (path string, explicit bool, err error) {
	if v := os.Getenv(envConfigFile); v != "" {
		return v, true, nil
	}
	if flagPath != "" {
		return flagPath, true, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false, fmt.Errorf("could not determine config directory: %w", err)
	}
	return filepath.Join(dir, appName, "config.yaml"), false, nil
}

// loadRunConfig reads and parses path, returning defaults unchanged if
// the file does not exist (an explicit --config path that is missing is
// still an error, since the user asked for it by name).
func loadRunConfig(path string, explicit bool) (*runConfig, error) {
	cfg := defaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
