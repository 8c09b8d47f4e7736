package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/qhub-dev/qhub/internal/ui/console"
	"github.com/qhub-dev/qhub/internal/util/fsutil"
)

// defaultProfileName is the project name used when generating a default
// configuration for local development.
const defaultProfileName = "qhubdevelop"

// RenderOptions are the fixed settings passed to the default-configuration
// renderer. Prompts are always disabled so synthesis never blocks on
// interactive input.
type RenderOptions struct {
	Domain                  string
	CloudProvider           string
	CIProvider              string
	Repository              string
	AuthProvider            string
	Namespace               string
	RepositoryAutoProvision bool
	AuthAutoProvision       bool
	TerraformState          string
	DisablePrompt           bool
}

// DefaultRenderer produces a default configuration document.
type DefaultRenderer interface {
	DefaultConfig(profileName string, opts RenderOptions) (Document, error)
}

// Synthesizer produces the run's configuration document: a base (loaded from
// an override path or rendered with defaults) mutated with the supplied
// domain and, when images are being built, the run's build identifier.
type Synthesizer struct {
	Renderer DefaultRenderer
	Console  *console.Console
}

// Synthesize builds the configuration document and persists it as
// qhub-config.yaml inside directory (created idempotently). The returned
// document is the same in-memory value that was persisted, so downstream
// stages need not re-read the file. After synthesis the document is treated
// as read-only.
func (s *Synthesizer) Synthesize(ctx context.Context, directory, buildID string, buildImages bool, domain, overridePath string) (Document, error) {
	var doc Document
	var err error

	if overridePath != "" {
		abs, absErr := filepath.Abs(overridePath)
		if absErr != nil {
			abs = overridePath
		}
		s.Console.Printf("Using base configuration at %s", abs)
		doc, err = LoadFile(abs)
		if err != nil {
			return nil, err
		}
	} else {
		s.Console.Print("Generating default configuration")
		doc, err = s.Renderer.DefaultConfig(defaultProfileName, RenderOptions{
			Domain:        domain,
			CloudProvider: "local",
			CIProvider:    "none",
			AuthProvider:  "password",
			Namespace:     "dev",
			DisablePrompt: true,
		})
		if err != nil {
			return nil, fmt.Errorf("rendering default configuration: %w", err)
		}
	}

	doc.SetDomain(domain)

	if buildImages {
		if err := doc.ApplyImageTags(buildID); err != nil {
			return nil, err
		}
	}

	if err := fsutil.EnsureDir(directory); err != nil {
		return nil, err
	}
	path := filepath.Join(directory, FileName)
	if err := doc.WriteFile(path); err != nil {
		return nil, err
	}
	s.Console.Printf("Generated QHub configuration at path=%s", path)

	return doc, nil
}
