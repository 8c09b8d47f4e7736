// Package image discovers the container image definitions of a deployment
// and builds them, tagged with the run's build identifier.
package image

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// definitionPrefix marks a file as defining one container image. The logical
// image name is the extension-like suffix: Dockerfile.jupyterlab defines the
// image "jupyterlab".
const definitionPrefix = "Dockerfile"

// Definition is one discovered image definition: the file that defines it
// and the logical image name derived from the filename.
type Definition struct {
	Path string
	Name string
}

// ListDefinitions scans dir (non-recursively) for image-definition files and
// returns one Definition per match, in directory listing order. A directory
// with no matches yields an empty slice. A missing directory is an error
// wrapping fs.ErrNotExist; callers treat it as fatal.
func ListDefinitions(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing image definitions in %s: %w", dir, err)
	}

	var defs []Definition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), definitionPrefix) {
			continue
		}
		defs = append(defs, Definition{
			Path: filepath.Join(dir, entry.Name()),
			Name: strings.TrimPrefix(filepath.Ext(entry.Name()), "."),
		})
	}
	return defs, nil
}
