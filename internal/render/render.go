// Package render turns a persisted configuration document into Kubernetes
// manifests by rendering the embedded deployment chart with the document as
// values. Rendered manifests land under a manifests/ directory inside the
// develop directory, where the deploy step picks them up.
package render

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/engine"

	"github.com/qhub-dev/qhub/internal/config"
	"github.com/qhub-dev/qhub/internal/ui/console"
)

//go:embed chart
var chartFS embed.FS

const (
	// releaseName names the rendered release. It only affects the built-in
	// .Release values inside templates.
	releaseName = "qhub"

	// manifestDirName is the directory created under the output directory
	// to hold one file per rendered template.
	manifestDirName = "manifests"
)

// Renderer renders the embedded deployment chart.
type Renderer struct {
	Console *console.Console
}

// Templates renders the deployment templates for the configuration persisted
// at configPath and writes one manifest file per template under
// <outputDir>/manifests. With force set, a previous render is removed first;
// without it, an existing manifests directory is an error so stale output is
// never silently mixed with fresh output.
func (r *Renderer) Templates(outputDir, configPath string, force bool) error {
	doc, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	manifestDir := filepath.Join(outputDir, manifestDirName)
	if force {
		if err := os.RemoveAll(manifestDir); err != nil {
			return fmt.Errorf("removing previous render at %s: %w", manifestDir, err)
		}
	} else if _, err := os.Stat(manifestDir); err == nil {
		return fmt.Errorf("render output %s already exists; remove it or render with force", manifestDir)
	}
	if err := os.MkdirAll(manifestDir, 0o755); err != nil {
		return fmt.Errorf("creating render output %s: %w", manifestDir, err)
	}

	ch, err := loadChart()
	if err != nil {
		return err
	}

	rendered, err := renderChart(ch, doc)
	if err != nil {
		return err
	}

	var written int
	for name, content := range rendered {
		if filepath.Base(name) == "NOTES.txt" {
			continue
		}
		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			continue
		}

		path := filepath.Join(manifestDir, filepath.Base(name))
		if err := os.WriteFile(path, []byte(trimmed+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing manifest %s: %w", path, err)
		}
		written++
	}

	r.Console.Printf("Rendered %d manifests into %s", written, manifestDir)
	return nil
}

// loadChart assembles the embedded chart files into a loadable chart. The
// embed root prefix is stripped so the loader sees chart-relative paths.
func loadChart() (*chart.Chart, error) {
	var files []*loader.BufferedFile
	err := fs.WalkDir(chartFS, "chart", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := chartFS.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, &loader.BufferedFile{
			Name: strings.TrimPrefix(path, "chart/"),
			Data: data,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading embedded chart: %w", err)
	}

	ch, err := loader.LoadFiles(files)
	if err != nil {
		return nil, fmt.Errorf("loading embedded chart: %w", err)
	}
	return ch, nil
}

// renderChart runs the helm engine over the chart with the configuration
// document as values and returns the template name to content mapping.
func renderChart(ch *chart.Chart, doc config.Document) (map[string]string, error) {
	releaseOptions := chartutil.ReleaseOptions{
		Name:      releaseName,
		Namespace: doc.Namespace(),
		IsInstall: true,
	}

	valuesToRender, err := chartutil.ToRenderValues(ch, chartutil.Values(doc), releaseOptions, chartutil.DefaultCapabilities)
	if err != nil {
		return nil, fmt.Errorf("preparing render values: %w", err)
	}

	rendered, err := engine.Engine{}.Render(ch, valuesToRender)
	if err != nil {
		return nil, fmt.Errorf("rendering templates: %w", err)
	}
	return rendered, nil
}
