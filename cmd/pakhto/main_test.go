package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"pakhto/interpreter-go/pkg/driver"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if _, err := worktree.Add(rel); err != nil {
			return err
		}
		return nil
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Pakhto CLI",
			Email: "pakhto@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestRunEntryDirectFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "main.pakhto"), `olika("salam")`)

	if code := runEntry([]string{"main.pakhto"}); code != 0 {
		t.Fatalf("runEntry returned exit code %d, want 0", code)
	}
}

func TestRunEntryDefaultTargetWithSetup(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "pakhto.yml"), `
name: demo
targets:
  app:
    main: src/main.pakhto
    setup:
      - src/lib.pakhto
`)
	writeFile(t, filepath.Join(dir, "src", "lib.pakhto"), `
opejana greet(n) { raka "Salam " _ n }
`)
	writeFile(t, filepath.Join(dir, "src", "main.pakhto"), `
olika(greet("Ji"))
`)

	if code := runEntry(nil); code != 0 {
		t.Fatalf("runEntry returned exit code %d, want 0", code)
	}
}

func TestRunEntryUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "pakhto.yml"), `
name: demo
targets:
  app:
    main: main.pakhto
`)
	writeFile(t, filepath.Join(dir, "main.pakhto"), `olika(1)`)

	if code := runEntry([]string{"nonexistent"}); code == 0 {
		t.Fatal("expected failure for unknown target")
	}
}

func TestRunEntryScriptErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "bad.pakhto"), `olika(undefinedName)`)

	if code := runEntry([]string{"bad.pakhto"}); code == 0 {
		t.Fatal("expected non-zero exit for runtime error")
	}
}

func TestResolvePakhtoHomeEnv(t *testing.T) {
	target := filepath.Join(t.TempDir(), "custom-home")
	t.Setenv("PAKHTO_HOME", target)
	home, err := resolvePakhtoHome()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if home != target {
		t.Errorf("home: got %q want %q", home, target)
	}
}

func TestResolvePakhtoHomeDefault(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("PAKHTO_HOME", "")
	t.Setenv("HOME", tmp)
	home, err := resolvePakhtoHome()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if home != filepath.Join(tmp, ".pakhto") {
		t.Errorf("home: got %q", home)
	}
}

func TestResolveCacheDirConfigOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PAKHTO_HOME", home)
	writeFile(t, filepath.Join(home, "config.toml"), `cache_dir = "deps-cache"`)

	cacheDir, err := resolveCacheDir()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cacheDir != filepath.Join(home, "deps-cache") {
		t.Errorf("cache dir: got %q", cacheDir)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "config.toml"), `bogus = 1`)
	if _, err := loadConfig(home); err == nil {
		t.Fatal("expected error for unknown config key")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CacheDir != "" {
		t.Errorf("expected zero config, got %#v", cfg)
	}
}

func TestInstallPathDependency(t *testing.T) {
	root := t.TempDir()
	t.Setenv("PAKHTO_HOME", filepath.Join(root, "cache"))

	depDir := filepath.Join(root, "mathlib")
	writeFile(t, filepath.Join(depDir, "math.pakhto"), `
opejana dob(n) { raka n * 2 }
`)
	workDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(workDir, "pakhto.yml"), `
name: app
targets:
  app:
    main: main.pakhto
dependencies:
  mathlib:
    path: ../mathlib
`)
	writeFile(t, filepath.Join(workDir, "main.pakhto"), `olika(dob(21))`)
	chdir(t, workDir)

	if code := runDepsInstall(nil); code != 0 {
		t.Fatalf("deps install exit code %d", code)
	}

	lock, err := driver.LoadLockfile(filepath.Join(workDir, driver.LockfileName))
	if err != nil {
		t.Fatalf("load lockfile: %v", err)
	}
	if lock == nil {
		t.Fatal("lockfile not written")
	}
	pkg, ok := lock.Package("mathlib")
	if !ok {
		t.Fatalf("mathlib not locked: %#v", lock.Packages)
	}
	if pkg.Version != "local" || !strings.HasPrefix(pkg.Source, "path:") {
		t.Errorf("lock entry: %#v", pkg)
	}
	if pkg.Checksum == "" {
		t.Error("checksum empty")
	}

	// The locked path dependency's functions are visible to the target.
	if code := runEntry(nil); code != 0 {
		t.Fatal("run with path dependency failed")
	}
}

func TestInstallGitDependency(t *testing.T) {
	root := t.TempDir()
	cache := filepath.Join(root, "cache")
	t.Setenv("PAKHTO_HOME", cache)

	repoDir := filepath.Join(root, "strlib")
	writeFile(t, filepath.Join(repoDir, "strings.pakhto"), `
opejana shout(s) { raka s _ "!" }
`)
	commit := initGitRepo(t, repoDir)

	workDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(workDir, "pakhto.yml"), `
name: app
targets:
  app:
    main: main.pakhto
dependencies:
  strlib:
    git: `+repoDir+`
    rev: `+commit+`
`)
	writeFile(t, filepath.Join(workDir, "main.pakhto"), `olika(shout("salam"))`)
	chdir(t, workDir)

	if code := runDepsInstall(nil); code != 0 {
		t.Fatalf("deps install exit code %d", code)
	}

	lock, err := driver.LoadLockfile(filepath.Join(workDir, driver.LockfileName))
	if err != nil || lock == nil {
		t.Fatalf("load lockfile: %v", err)
	}
	pkg, ok := lock.Package("strlib")
	if !ok {
		t.Fatalf("strlib not locked: %#v", lock.Packages)
	}
	if pkg.Version != commit {
		t.Errorf("version: got %q want %q", pkg.Version, commit)
	}
	if !strings.Contains(pkg.Source, "git+") || !strings.Contains(pkg.Source, commit) {
		t.Errorf("source: %q", pkg.Source)
	}
	checkout := filepath.Join(cache, "pkg", "src", "strlib", sanitizePathSegment(commit))
	if _, err := os.Stat(filepath.Join(checkout, "strings.pakhto")); err != nil {
		t.Errorf("checkout missing: %v", err)
	}

	// A second install reuses the cached checkout and leaves the lock
	// unchanged.
	if code := runDepsInstall(nil); code != 0 {
		t.Fatal("second install failed")
	}

	if code := runEntry(nil); code != 0 {
		t.Fatal("run with git dependency failed")
	}
}

func TestRunWithoutLockFails(t *testing.T) {
	root := t.TempDir()
	t.Setenv("PAKHTO_HOME", filepath.Join(root, "cache"))
	workDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(workDir, "pakhto.yml"), `
name: app
targets:
  app:
    main: main.pakhto
dependencies:
  lib:
    git: https://example.com/lib.git
`)
	writeFile(t, filepath.Join(workDir, "main.pakhto"), `olika(1)`)
	chdir(t, workDir)

	if code := runEntry(nil); code == 0 {
		t.Fatal("expected failure when lockfile is missing")
	}
}

func TestLooksLikePathCandidate(t *testing.T) {
	cases := map[string]bool{
		"main.pakhto":     true,
		"./main":          true,
		"src/main.pakhto": true,
		"app":             false,
		"":                false,
	}
	for arg, want := range cases {
		if got := looksLikePathCandidate(arg); got != want {
			t.Errorf("looksLikePathCandidate(%q) = %v, want %v", arg, got, want)
		}
	}
}

func TestResolveScriptPath(t *testing.T) {
	manifest := &driver.Manifest{Path: filepath.Join("/work", "app", driver.ManifestName)}
	deps := []depRoot{{name: "strlib", root: filepath.Join("/cache", "pkg", "src", "strlib", "abc")}}

	got := resolveScriptPath(manifest, deps, "setup.pakhto")
	if want := filepath.Join("/work", "app", "setup.pakhto"); got != want {
		t.Errorf("plain reference: got %q, want %q", got, want)
	}

	got = resolveScriptPath(manifest, deps, "strlib/init.pakhto")
	if want := filepath.Join("/cache", "pkg", "src", "strlib", "abc", "init.pakhto"); got != want {
		t.Errorf("dependency reference: got %q, want %q", got, want)
	}

	got = resolveScriptPath(manifest, deps, "scripts/other.pakhto")
	if want := filepath.Join("/work", "app", "scripts", "other.pakhto"); got != want {
		t.Errorf("nested reference: got %q, want %q", got, want)
	}
}

func TestVersionCommand(t *testing.T) {
	if code := run([]string{"version"}); code != 0 {
		t.Fatalf("version exit code %d", code)
	}
}

func TestUsageWithoutArguments(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}
