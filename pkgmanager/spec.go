// Package pkgmanager resolves spec.md §4.12's (namespace, name, version)
// package references to a directory on disk, grounded directly on
// original_source crates/typst-kit/src/packages.rs (SystemPackages,
// FsPackages, UniversePackages, Tempdir) down to the
// ".tmp-<version>-<random>" naming and the "DirectoryNotEmpty is
// success" race rule spec.md §8 scenario 6 names.
package pkgmanager

import "fmt"

// Spec identifies a package the way packages.rs's PackageSpec does:
// namespace ("preview" for the official Typst Universe registry, or a
// user-defined local namespace), name, and a semver-ish version.
type Spec struct {
	Namespace string
	Name      string
	Version   Version
}

func (s Spec) String() string {
	return fmt.Sprintf("@%s/%s:%s", s.Namespace, s.Name, s.Version)
}

// VersionlessSpec identifies a package without pinning a version, the
// input to LatestVersion (packages.rs's VersionlessPackageSpec).
type VersionlessSpec struct {
	Namespace string
	Name      string
}

// Version mirrors PackageVersion: three dotted integers, ordered
// lexicographically component by component.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Less orders versions the way PackageVersion's derived Ord does:
// major, then minor, then patch.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// UniverseNamespace is the namespace Typst Universe serves packages
// under (packages.rs's UniversePackages::NAMESPACE).
const UniverseNamespace = "preview"

// NotFoundError reports that a package could not be located in any
// configured source (packages.rs's PackageError::NotFound).
type NotFoundError struct{ Spec Spec }

func (e *NotFoundError) Error() string { return "package not found: " + e.Spec.String() }

// VersionNotFoundError reports a resolvable package whose requested
// version does not exist, carrying the latest known version the way
// packages.rs's PackageError::VersionNotFound does.
type VersionNotFoundError struct {
	Spec   Spec
	Latest Version
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("package %s not found; latest is %s", e.Spec, e.Latest)
}
