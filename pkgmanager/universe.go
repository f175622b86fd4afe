package pkgmanager

import (
	"fmt"
	"io"
	"sync"

	"github.com/buger/jsonparser"
)

// UniversePackages serves packages from the official Typst Universe
// registry (or a mirror), grounded on packages.rs's UniversePackages:
// a lazily-fetched, schema-tolerant index plus per-package tarball
// downloads named "<ns>/<name>-<ver>.tar.gz".
type UniversePackages struct {
	URL        string
	Downloader Downloader

	mu    sync.Mutex
	index []byte
}

// NewUniversePackages returns a handle to the primary official
// registry, matching packages.rs's UniversePackages::new default URL.
func NewUniversePackages(d Downloader) *UniversePackages {
	return &UniversePackages{URL: "https://packages.typst.org", Downloader: d}
}

// Package downloads spec's tarball and returns a reader positioned at
// its raw (still gzip+tar encoded) bytes; the caller decides whether to
// extract it via extractTarGz or store it to cache first.
func (u *UniversePackages) Package(spec Spec) (io.ReadCloser, error) {
	if spec.Namespace != UniverseNamespace {
		return nil, &NotFoundError{Spec: spec}
	}
	url := fmt.Sprintf("%s/%s/%s-%s.tar.gz", u.URL, UniverseNamespace, spec.Name, spec.Version)
	rc, err := u.Downloader.Download(url)
	if err != nil {
		if latest, ok := u.LatestVersion(VersionlessSpec{Namespace: spec.Namespace, Name: spec.Name}); ok {
			return nil, &VersionNotFoundError{Spec: spec, Latest: latest}
		}
		return nil, &NotFoundError{Spec: spec}
	}
	return rc, nil
}

// fetchIndex lazily fetches and caches the registry's raw package index,
// the Go analogue of packages.rs's `OnceCell`-memoized `index()` method.
// It does not parse the entries; LatestVersion skips entries it can't
// parse rather than failing, matching packages.rs's "packages that
// cannot be deserialized ... can be skipped instead of failing
// completely".
func (u *UniversePackages) fetchIndex() ([]byte, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.index != nil {
		return u.index, nil
	}
	url := fmt.Sprintf("%s/%s/index.json", u.URL, UniverseNamespace)
	rc, err := u.Downloader.Download(url)
	if err != nil {
		return nil, fmt.Errorf("pkgmanager: fetch package index: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("pkgmanager: read package index: %w", err)
	}
	u.index = data
	return data, nil
}

// LatestVersion scans the registry index for the greatest version of
// name, the Go analogue of UniversePackages::latest_version.
func (u *UniversePackages) LatestVersion(spec VersionlessSpec) (Version, bool) {
	data, err := u.fetchIndex()
	if err != nil {
		return Version{}, false
	}

	var best Version
	found := false
	_, _ = jsonparser.ArrayEach(data, func(entry []byte, _ jsonparser.ValueType, _ int, _ error) {
		name, err := jsonparser.GetString(entry, "name")
		if err != nil || name != spec.Name {
			return
		}
		verStr, err := jsonparser.GetString(entry, "version")
		if err != nil {
			return
		}
		v, ok := parseVersion(verStr)
		if !ok {
			return
		}
		if !found || best.Less(v) {
			best = v
			found = true
		}
	})
	return best, found
}
