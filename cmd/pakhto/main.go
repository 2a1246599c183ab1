package main

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"pakhto/interpreter-go/pkg/driver"
	"pakhto/interpreter-go/pkg/interpreter"
)

const cliToolVersion = "pakhto-cli 0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		// `pakhto script.pakhto` works without the run subcommand.
		return runEntry(args)
	}
}

func runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A direct .pakhto file path runs standalone, no manifest required.
	if len(args) == 1 && looksLikePathCandidate(args[0]) {
		return executeSources(ctx, []string{args[0]})
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pakhto run requires a %s or a source file: %v\n", driver.ManifestName, err)
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return 1
	}

	var target *driver.TargetSpec
	if len(args) == 0 {
		target, err = manifest.DefaultTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
	} else {
		found, ok := manifest.FindTarget(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "target %q not declared in manifest\n", args[0])
			return 1
		}
		target = found
	}

	sources, err := collectTargetSources(manifest, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return executeSources(ctx, sources)
}

// collectTargetSources assembles the ordered script list for a target:
// dependency scripts first (dependencies sorted by name), then the target's
// own setup scripts, then its main script.
func collectTargetSources(manifest *driver.Manifest, target *driver.TargetSpec) ([]string, error) {
	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		return nil, err
	}
	roots, err := dependencyScriptRoots(manifest, lock)
	if err != nil {
		return nil, err
	}

	var sources []string
	for _, dep := range roots {
		scripts, err := scriptsUnder(dep.root)
		if err != nil {
			return nil, err
		}
		sources = append(sources, scripts...)
	}
	for _, setup := range target.Setup {
		sources = append(sources, resolveScriptPath(manifest, roots, setup))
	}
	sources = append(sources, resolveScriptPath(manifest, roots, target.Main))
	return sources, nil
}

// executeSources runs every script in one session so earlier scripts'
// declarations remain visible. Output streams to stdout; input lines come
// from stdin.
func executeSources(ctx context.Context, paths []string) int {
	reader := bufio.NewReader(os.Stdin)
	input := func(ctx context.Context) (string, error) {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	session := interpreter.NewSession(os.Stdout, input)
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
			return 1
		}
		if err := session.Execute(ctx, string(source)); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			return 1
		}
	}
	return 0
}

// resolveScriptPath maps a manifest script reference to a file. References
// of the form <dep>/<file>.pakhto resolve inside that dependency's root;
// everything else resolves against the manifest directory.
func resolveScriptPath(manifest *driver.Manifest, deps []depRoot, script string) string {
	if filepath.IsAbs(script) {
		return filepath.Clean(script)
	}
	if name, rest, ok := strings.Cut(script, "/"); ok {
		for _, dep := range deps {
			if dep.name == name {
				return filepath.Join(dep.root, filepath.FromSlash(rest))
			}
		}
	}
	return filepath.Join(manifest.Dir(), filepath.FromSlash(script))
}

// scriptsUnder returns every .pakhto file below root in path order, so a
// dependency's scripts always execute in a stable sequence.
func scriptsUnder(root string) ([]string, error) {
	var scripts []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".pakhto" {
			scripts = append(scripts, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan dependency scripts in %s: %w", root, err)
	}
	sort.Strings(scripts)
	return scripts, nil
}

// depRoot pairs a manifest dependency name with the directory holding its
// scripts (a local path or a cache checkout).
type depRoot struct {
	name string
	root string
}

func dependencyScriptRoots(manifest *driver.Manifest, lock *driver.Lockfile) ([]depRoot, error) {
	if manifest == nil || len(manifest.Dependencies) == 0 {
		return nil, nil
	}
	cacheDir, err := resolveCacheDir()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var roots []depRoot
	for _, name := range names {
		spec := manifest.Dependencies[name]
		if spec == nil {
			continue
		}
		if spec.Path != "" {
			path := spec.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(manifest.Dir(), filepath.FromSlash(path))
			}
			roots = append(roots, depRoot{name: name, root: filepath.Clean(path)})
			continue
		}
		pkg, ok := lock.Package(sanitizeName(name))
		if !ok {
			return nil, fmt.Errorf("dependency %q not locked; run `pakhto deps install`", name)
		}
		roots = append(roots, depRoot{
			name: name,
			root: filepath.Join(cacheDir, "pkg", "src", pkg.Name, sanitizePathSegment(pkg.Version)),
		})
	}
	return roots, nil
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	lockPath := filepath.Join(manifest.Dir(), driver.LockfileName)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		return nil, err
	}
	if lock == nil {
		if hasNonPathDependencies(manifest) {
			return nil, fmt.Errorf("%s missing for %q; run `pakhto deps install`", driver.LockfileName, manifest.Name)
		}
		return nil, nil
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

func hasNonPathDependencies(manifest *driver.Manifest) bool {
	for _, spec := range manifest.Dependencies {
		if spec != nil && spec.Path == "" {
			return true
		}
	}
	return false
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.Contains(arg, "/") || strings.Contains(arg, "\\") {
		return true
	}
	if filepath.Ext(arg) == ".pakhto" {
		return true
	}
	return strings.HasPrefix(arg, ".")
}

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "pakhto deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "pakhto deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runDepsInstall(nil)
	case "update":
		return runDepsInstall(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

// runDepsInstall resolves manifest dependencies into the cache and rewrites
// the lockfile. update forces re-resolution of the named dependencies, or
// all of them when none are named.
func runDepsInstall(refresh []string) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestName, err)
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return 1
	}
	cacheDir, err := resolveCacheDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve cache directory: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheDir)

	lockPath := filepath.Join(manifest.Dir(), driver.LockfileName)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return 1
	}
	lockCreated := lock == nil
	if lockCreated {
		lock = &driver.Lockfile{Root: manifest.Name}
	} else if lock.Root != manifest.Name {
		fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
		return 1
	}
	lock.Tool = cliToolVersion

	if refresh != nil {
		if err := dropLockedPackages(lock, manifest, refresh); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
	}

	installer := newDependencyInstaller(manifest, cacheDir)
	changed, logs, err := installer.Install(lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return 1
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || lockCreated {
		if err := lock.Write(lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lockPath)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lockPath)
	}

	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}

// dropLockedPackages removes lock entries so the installer re-resolves
// them. An empty target list drops everything.
func dropLockedPackages(lock *driver.Lockfile, manifest *driver.Manifest, targets []string) error {
	if len(targets) == 0 {
		lock.Packages = nil
		return nil
	}
	declared := make(map[string]struct{}, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		declared[sanitizeName(name)] = struct{}{}
	}
	drop := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		sanitized := sanitizeName(target)
		if _, ok := declared[sanitized]; !ok {
			return fmt.Errorf("dependency %q not declared in manifest", target)
		}
		drop[sanitized] = struct{}{}
	}
	kept := lock.Packages[:0]
	for _, pkg := range lock.Packages {
		if _, ok := drop[sanitizeName(pkg.Name)]; !ok {
			kept = append(kept, pkg)
		}
	}
	lock.Packages = kept
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  pakhto run [target]")
	fmt.Fprintln(os.Stderr, "  pakhto run <file.pakhto>")
	fmt.Fprintln(os.Stderr, "  pakhto <file.pakhto>")
	fmt.Fprintln(os.Stderr, "  pakhto deps install")
	fmt.Fprintln(os.Stderr, "  pakhto deps update [dependency ...]")
	fmt.Fprintln(os.Stderr, "  pakhto version")
}
