package pkgmanager

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SystemPackages resolves packages in the priority order packages.rs's
// SystemPackages documents: the data directory, then the cache
// directory, then (for the official namespace) download from the
// registry into the cache.
type SystemPackages struct {
	Data     *FsPackages
	Cache    *FsPackages
	Universe *UniversePackages
}

// DefaultDataDir/DefaultCacheDir mirror FsPackages::system_data/
// system_cache's XDG-style defaults on Linux, the platform this module
// targets.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "typst", "packages")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "typst", "packages")
}

func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "typst", "packages")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "typst", "packages")
}

// NewSystemPackages wires up a resolver using the default XDG
// directories and the official registry, matching
// SystemPackages::new's default configuration.
func NewSystemPackages(d Downloader) *SystemPackages {
	return &SystemPackages{
		Data:     NewFsPackages(DefaultDataDir()),
		Cache:    NewFsPackages(DefaultCacheDir()),
		Universe: NewUniversePackages(d),
	}
}

// Obtain resolves spec to a directory, downloading and extracting it
// into the cache directory if it is only available from the official
// registry. This can have a file system side effect, exactly as
// packages.rs's SystemPackages::obtain documents.
func (s *SystemPackages) Obtain(spec Spec) (string, error) {
	if s.Data != nil {
		if dir, ok := s.Data.Obtain(spec); ok {
			return dir, nil
		}
	}

	if s.Cache != nil {
		if dir, ok := s.Cache.Obtain(spec); ok {
			return dir, nil
		}

		if spec.Namespace == UniverseNamespace {
			rc, err := s.Universe.Package(spec)
			if err != nil {
				return "", err
			}
			defer rc.Close()

			storeErr := s.Cache.Store(spec, uuid.NewString(), func(tempdir string) error {
				return extractTarGz(rc, tempdir)
			})
			if storeErr != nil {
				return "", storeErr
			}

			if dir, ok := s.Cache.Obtain(spec); ok {
				return dir, nil
			}
		}
	}

	return "", &NotFoundError{Spec: spec}
}

// LatestVersion tries to determine a package's newest version: the
// registry index for the official namespace, otherwise a local scan of
// the data directory only — packages.rs explicitly excludes the cache
// directory here since "the latter is not intended for storage of
// local packages".
func (s *SystemPackages) LatestVersion(spec VersionlessSpec) (Version, error) {
	if spec.Namespace == UniverseNamespace {
		if v, ok := s.Universe.LatestVersion(spec); ok {
			return v, nil
		}
		return Version{}, &NotFoundError{Spec: Spec{Namespace: spec.Namespace, Name: spec.Name}}
	}

	if s.Data != nil {
		if v, ok := s.Data.LatestVersion(spec); ok {
			return v, nil
		}
	}
	return Version{}, &NotFoundError{Spec: Spec{Namespace: spec.Namespace, Name: spec.Name}}
}
