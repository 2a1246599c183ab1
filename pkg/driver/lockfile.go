package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// LockfileName sits next to pakhto.yml and records resolved dependencies.
const LockfileName = "pakhto.lock"

// Lockfile pins every dependency of a workspace to an exact source and
// content checksum so installs are reproducible.
type Lockfile struct {
	Root     string        `yaml:"root"`
	Tool     string        `yaml:"tool"`
	Packages []LockPackage `yaml:"packages"`
}

// LockPackage is one resolved dependency.
type LockPackage struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Checksum string `yaml:"checksum"`
}

// LoadLockfile reads pakhto.lock. A missing file is not an error; it
// returns nil so callers can treat the workspace as unlocked.
func LoadLockfile(path string) (*Lockfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lockfile: read %s: %w", path, err)
	}
	var lock Lockfile
	if err := yaml.Unmarshal(raw, &lock); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", path, err)
	}
	return &lock, nil
}

// Write persists the lockfile with packages in name order, so rewrites of
// an unchanged resolution produce byte-identical files.
func (l *Lockfile) Write(path string) error {
	sort.Slice(l.Packages, func(i, j int) bool {
		return l.Packages[i].Name < l.Packages[j].Name
	})
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("lockfile: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("lockfile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", path, err)
	}
	return nil
}

// Package returns the pinned entry for name, if any.
func (l *Lockfile) Package(name string) (*LockPackage, bool) {
	if l == nil {
		return nil, false
	}
	for i := range l.Packages {
		if l.Packages[i].Name == name {
			return &l.Packages[i], true
		}
	}
	return nil, false
}
