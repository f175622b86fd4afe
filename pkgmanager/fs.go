package pkgmanager

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// FsPackages serves packages from a directory structured
// <root>/<namespace>/<name>/<version>, exactly as packages.rs's
// FsPackages documents: "top-level directories denote namespaces,
// second-level directories denote packages, third-level directories
// denote package versions".
type FsPackages struct {
	Root string
}

// NewFsPackages returns a handle rooted at dir.
func NewFsPackages(dir string) *FsPackages { return &FsPackages{Root: dir} }

// Obtain returns the directory a package's contents live in if present,
// without touching the network (packages.rs's FsPackages::obtain).
func (p *FsPackages) Obtain(spec Spec) (string, bool) {
	dir := filepath.Join(p.Root, spec.Namespace, spec.Name, spec.Version.String())
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, true
	}
	return "", false
}

// LatestVersion scans <root>/<namespace>/<name> for version-numbered
// subdirectories and returns the greatest one, mirroring
// FsPackages::latest_version's directory listing + max.
func (p *FsPackages) LatestVersion(spec VersionlessSpec) (Version, bool) {
	dir := filepath.Join(p.Root, spec.Namespace, spec.Name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Version{}, false
	}

	var versions []Version
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if v, ok := parseVersion(e.Name()); ok {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return Version{}, false
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Less(versions[j]) })
	return versions[len(versions)-1], true
}

// Store writes a package's contents via write(tempdir), then atomically
// renames the temp directory into place. A rename failure because the
// target already exists or is not empty (another process already won
// the race) is treated as
// success, exactly as packages.rs's FsPackages::store documents: "we
// can safely ignore the DirectoryNotEmpty error".
func (p *FsPackages) Store(spec Spec, randSuffix string, write func(tempdir string) error) error {
	baseDir := filepath.Join(p.Root, spec.Namespace, spec.Name)
	packageDir := filepath.Join(baseDir, spec.Version.String())
	tempdir := filepath.Join(baseDir, ".tmp-"+spec.Version.String()+"-"+randSuffix)

	if err := os.MkdirAll(tempdir, 0o755); err != nil {
		return err
	}
	defer os.RemoveAll(tempdir)

	if err := write(tempdir); err != nil {
		return err
	}

	err := os.Rename(tempdir, packageDir)
	if err == nil {
		return nil
	}
	if isDirNotEmpty(err) {
		return nil
	}
	return err
}

func isDirNotEmpty(err error) bool {
	return errors.Is(err, os.ErrExist) ||
		strings.Contains(err.Error(), "directory not empty") ||
		strings.Contains(err.Error(), "not empty")
}

func parseVersion(s string) (Version, bool) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return Version{}, false
	}
	major, err1 := strconv.Atoi(parts[0])
	minor, err2 := strconv.Atoi(parts[1])
	patch, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Version{}, false
	}
	return Version{Major: major, Minor: minor, Patch: patch}, true
}
