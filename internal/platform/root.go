package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrRootNotFound is returned when no site root marker exists above the start directory.
var ErrRootNotFound = errors.New("root not found")

// rootMarkers identify a site root: a config file or a git checkout.
var rootMarkers = []string{"folio.yaml", "folio.yml", "folio.json", ".git"}

// FindRoot walks upwards from startDir looking for a site root marker
// and returns the absolute path of the first directory that has one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range rootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
