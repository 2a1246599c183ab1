package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// cliConfig is the optional user configuration at $PAKHTO_HOME/config.toml.
type cliConfig struct {
	// CacheDir overrides where dependency sources are cached. Relative
	// paths resolve against PAKHTO_HOME.
	CacheDir string `toml:"cache_dir"`
}

// resolvePakhtoHome returns the tool's home directory: $PAKHTO_HOME when
// set, otherwise ~/.pakhto.
func resolvePakhtoHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("PAKHTO_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve PAKHTO_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".pakhto"), nil
}

// loadConfig reads config.toml from the home directory. A missing file
// yields the zero config.
func loadConfig(home string) (cliConfig, error) {
	var cfg cliConfig
	path := filepath.Join(home, "config.toml")
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return cfg, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// resolveCacheDir applies the config.toml cache override on top of the
// home-directory default.
func resolveCacheDir() (string, error) {
	home, err := resolvePakhtoHome()
	if err != nil {
		return "", err
	}
	cfg, err := loadConfig(home)
	if err != nil {
		return "", err
	}
	if cfg.CacheDir == "" {
		return home, nil
	}
	if filepath.IsAbs(cfg.CacheDir) {
		return filepath.Clean(cfg.CacheDir), nil
	}
	return filepath.Join(home, cfg.CacheDir), nil
}
