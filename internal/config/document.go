// Package config models the qhub configuration document: loading it from an
// override file, synthesizing a default, mutating it with the run's domain
// and image tags, and persisting it for the render and deploy steps.
//
// The document is kept as a generic mapping rather than a typed struct so
// user-supplied override files round-trip verbatim: keys this tool does not
// know about survive load, mutation, and persistence.
package config

import (
	"fmt"
)

// FileName is the fixed name the synthesized configuration is persisted
// under inside the develop directory. It is the boundary artifact consumed
// by template rendering.
const FileName = "qhub-config.yaml"

// Document is a qhub configuration document.
type Document map[string]any

// deploymentImages maps the default_images keys to the image names produced
// by the image build stage. Keys use the configuration's underscore
// convention; image names use the Dockerfile suffix convention.
var deploymentImages = []struct {
	key  string
	name string
}{
	{"jupyterhub", "jupyterhub"},
	{"jupyterlab", "jupyterlab"},
	{"dask_worker", "dask-worker"},
	{"dask_gateway", "dask-gateway"},
	{"conda_store", "conda-store"},
}

// SetDomain unconditionally sets the document's domain, overriding whatever
// the loaded or default document specified.
func (d Document) SetDomain(domain string) {
	d["domain"] = domain
}

// Domain returns the document's domain, or "" when unset.
func (d Document) Domain() string {
	s, _ := d["domain"].(string)
	return s
}

// Namespace returns the document's target namespace, or "" when unset.
func (d Document) Namespace() string {
	s, _ := d["namespace"].(string)
	return s
}

// ApplyImageTags points the document at freshly built images: the
// default_images mapping is replaced with the five deployment components
// tagged with tag, and every JupyterLab and Dask worker profile's image is
// overwritten to match. The tag must be the same build identifier the images
// were built with; threading one value through both stages is what keeps the
// rendered deployment in sync with the images that actually exist.
//
// A document without the expected profiles structure is a hard error: a
// silently skipped override would deploy images that were never built.
func (d Document) ApplyImageTags(tag string) error {
	images := make(map[string]any, len(deploymentImages))
	for _, img := range deploymentImages {
		images[img.key] = img.name + ":" + tag
	}
	d["default_images"] = images

	profiles, ok := d["profiles"].(map[string]any)
	if !ok {
		return structuralError("profiles")
	}

	jupyterlab, ok := profiles["jupyterlab"].([]any)
	if !ok {
		return structuralError("profiles.jupyterlab")
	}
	for i, entry := range jupyterlab {
		profile, ok := entry.(map[string]any)
		if !ok {
			return structuralError(fmt.Sprintf("profiles.jupyterlab[%d]", i))
		}
		override, ok := profile["kubespawner_override"].(map[string]any)
		if !ok {
			return structuralError(fmt.Sprintf("profiles.jupyterlab[%d].kubespawner_override", i))
		}
		override["image"] = "jupyterlab:" + tag
	}

	daskWorkers, ok := profiles["dask_worker"].(map[string]any)
	if !ok {
		return structuralError("profiles.dask_worker")
	}
	for name, entry := range daskWorkers {
		profile, ok := entry.(map[string]any)
		if !ok {
			return structuralError(fmt.Sprintf("profiles.dask_worker.%s", name))
		}
		profile["image"] = "dask-worker:" + tag
	}

	return nil
}

func structuralError(path string) error {
	return fmt.Errorf("configuration is missing the %q mapping required for image overrides", path)
}
