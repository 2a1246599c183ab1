package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"pakhto/interpreter-go/pkg/driver"
)

// dependencyInstaller resolves each manifest dependency to an exact source,
// materializes git sources into the cache, and reconciles the lockfile.
// Dependencies are flat bundles of scripts; they do not declare
// dependencies of their own.
type dependencyInstaller struct {
	manifest     *driver.Manifest
	manifestRoot string
	cacheDir     string
	logs         []string
	git          *gitFetcher
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string) *dependencyInstaller {
	return &dependencyInstaller{
		manifest:     manifest,
		manifestRoot: manifest.Dir(),
		cacheDir:     cacheDir,
		logs:         []string{},
		git:          newGitFetcher(cacheDir),
	}
}

// Install resolves every declared dependency and updates lock in place. It
// reports whether the lockfile content changed.
func (d *dependencyInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	names := make([]string, 0, len(d.manifest.Dependencies))
	for name := range d.manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	desired := make([]driver.LockPackage, 0, len(names))
	for _, name := range names {
		spec := d.manifest.Dependencies[name]
		if spec == nil {
			return false, d.logs, fmt.Errorf("dependency %q has no descriptor", name)
		}
		pkg, err := d.resolveDependency(name, spec, lock)
		if err != nil {
			return false, d.logs, err
		}
		desired = append(desired, pkg)
	}

	existing := make(map[string]driver.LockPackage, len(lock.Packages))
	for _, pkg := range lock.Packages {
		existing[pkg.Name] = pkg
	}
	changed := len(desired) != len(existing)
	for _, pkg := range desired {
		if current, ok := existing[pkg.Name]; !ok || current != pkg {
			changed = true
		}
	}
	lock.Packages = desired
	return changed, d.logs, nil
}

func (d *dependencyInstaller) resolveDependency(name string, spec *driver.DependencySpec, lock *driver.Lockfile) (driver.LockPackage, error) {
	if spec.Path != "" {
		return d.resolvePathDependency(name, spec)
	}
	// A still-valid lock entry short-circuits the network.
	if pkg, ok := lock.Package(sanitizeName(name)); ok {
		checkout := filepath.Join(d.cacheDir, "pkg", "src", pkg.Name, sanitizePathSegment(pkg.Version))
		if sum, err := dirChecksum(checkout); err == nil && sum == pkg.Checksum {
			d.logf("dependency %s already installed (%s)", name, pkg.Version)
			return *pkg, nil
		}
	}
	return d.resolveGitDependency(name, spec)
}

func (d *dependencyInstaller) resolvePathDependency(name string, spec *driver.DependencySpec) (driver.LockPackage, error) {
	path := spec.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.manifestRoot, filepath.FromSlash(path))
	}
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return driver.LockPackage{}, fmt.Errorf("dependency %q: path %s is not a directory", name, path)
	}
	checksum, err := dirChecksum(path)
	if err != nil {
		return driver.LockPackage{}, fmt.Errorf("dependency %q: checksum %s: %w", name, path, err)
	}
	d.logf("dependency %s resolved from path %s", name, d.displayPath(path))
	return driver.LockPackage{
		Name:     sanitizeName(name),
		Version:  "local",
		Source:   "path:" + filepath.ToSlash(spec.Path),
		Checksum: checksum,
	}, nil
}

func (d *dependencyInstaller) resolveGitDependency(name string, spec *driver.DependencySpec) (driver.LockPackage, error) {
	if d.git == nil {
		return driver.LockPackage{}, errors.New("git fetcher unavailable")
	}
	pkg, commit, err := d.git.Fetch(name, spec)
	if err != nil {
		return driver.LockPackage{}, fmt.Errorf("dependency %q: %w", name, err)
	}
	d.logf("dependency %s pinned to %s (%s)", name, pkg.Version, shortCommit(commit))
	return pkg, nil
}

func (d *dependencyInstaller) logf(format string, args ...any) {
	d.logs = append(d.logs, fmt.Sprintf(format, args...))
}

func (d *dependencyInstaller) displayPath(path string) string {
	if rel, err := filepath.Rel(d.manifestRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

type gitFetcher struct {
	cacheDir string
}

func newGitFetcher(cacheDir string) *gitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &gitFetcher{cacheDir: cacheDir}
}

// Fetch clones the dependency's repository, checks out the pinned revision,
// and caches the tree under pkg/src/<name>/<version>.
func (g *gitFetcher) Fetch(name string, spec *driver.DependencySpec) (driver.LockPackage, string, error) {
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return driver.LockPackage{}, "", fmt.Errorf("git URL required")
	}

	baseDir := filepath.Join(g.cacheDir, "pkg", "src", sanitizeName(name))
	version, commit, err := ensureGitCheckout(baseDir, url, spec)
	if err != nil {
		return driver.LockPackage{}, "", err
	}

	checkoutDir := filepath.Join(baseDir, sanitizePathSegment(version))
	checksum, err := dirChecksum(checkoutDir)
	if err != nil {
		return driver.LockPackage{}, "", err
	}

	return driver.LockPackage{
		Name:     sanitizeName(name),
		Version:  version,
		Source:   fmt.Sprintf("git+%s@%s", url, commit),
		Checksum: checksum,
	}, commit, nil
}

func ensureGitCheckout(baseDir, url string, spec *driver.DependencySpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor := gitRevisionFromSpec(spec)

	// An explicit rev pin that is already materialized never needs the
	// network again.
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			return rev, rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

// gitRevisionFromSpec maps the manifest pin to a git revision; an unpinned
// dependency follows the remote HEAD.
func gitRevisionFromSpec(spec *driver.DependencySpec) (plumbing.Revision, string) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch
	}
	return plumbing.Revision("HEAD"), ""
}

// dirChecksum hashes every file below path, so any content drift in a
// cached checkout invalidates the lock entry.
func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.Base(p)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}

func sanitizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result == "" {
		return "head"
	}
	return result
}
