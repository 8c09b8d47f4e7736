package render

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/qhub-dev/qhub/internal/config"
)

// defaultImageRepository is the registry prefix for the stock deployment
// images used when no local build replaces them.
const defaultImageRepository = "quansight"

// DefaultConfig renders a complete configuration document for a fresh local
// deployment. The document carries the same structure user override files
// are expected to have, so the image-tag mutation applies to both uniformly.
func (r *Renderer) DefaultConfig(profileName string, opts config.RenderOptions) (config.Document, error) {
	password, hash, err := generatePassword()
	if err != nil {
		return nil, fmt.Errorf("generating root password: %w", err)
	}

	doc := config.Document{
		"project_name": profileName,
		"provider":     opts.CloudProvider,
		"domain":       opts.Domain,
		"namespace":    opts.Namespace,
		"ci_cd": map[string]any{
			"type": opts.CIProvider,
		},
		"terraform_state": map[string]any{
			"type": "local",
		},
		"security": map[string]any{
			"authentication": map[string]any{
				"type": opts.AuthProvider,
				"config": map[string]any{
					"password": hash,
				},
			},
		},
		"default_images": defaultImages(),
		"profiles": map[string]any{
			"jupyterlab": []any{
				map[string]any{
					"display_name": "Small Instance",
					"description":  "1 cpu / 1 GB ram",
					"default":      true,
					"kubespawner_override": map[string]any{
						"image":             defaultImages()["jupyterlab"],
						"cpu_limit":         1,
						"cpu_guarantee":     1,
						"mem_limit":         "1G",
						"mem_guarantee":     "1G",
						"image_pull_policy": "IfNotPresent",
					},
				},
				map[string]any{
					"display_name": "Medium Instance",
					"description":  "2 cpu / 4 GB ram",
					"kubespawner_override": map[string]any{
						"image":             defaultImages()["jupyterlab"],
						"cpu_limit":         2,
						"cpu_guarantee":     2,
						"mem_limit":         "4G",
						"mem_guarantee":     "4G",
						"image_pull_policy": "IfNotPresent",
					},
				},
			},
			"dask_worker": map[string]any{
				"Small Worker": map[string]any{
					"image":          defaultImages()["dask_worker"],
					"worker_cores":   1,
					"worker_memory":  "1G",
					"worker_threads": 1,
				},
				"Medium Worker": map[string]any{
					"image":          defaultImages()["dask_worker"],
					"worker_cores":   2,
					"worker_memory":  "4G",
					"worker_threads": 2,
				},
			},
		},
		"environments": map[string]any{
			"environment-default.yaml": map[string]any{
				"name":     "default",
				"channels": []any{"conda-forge"},
				"dependencies": []any{
					"python=3.9",
					"ipykernel",
					"dask",
					"distributed",
				},
			},
		},
	}

	if r.Console != nil {
		r.Console.Hint(fmt.Sprintf("Generated root password: %s", password))
	}

	return doc, nil
}

func defaultImages() map[string]any {
	images := make(map[string]any, 5)
	for _, name := range []struct{ key, image string }{
		{"jupyterhub", "qhub-jupyterhub"},
		{"jupyterlab", "qhub-jupyterlab"},
		{"dask_worker", "qhub-dask-worker"},
		{"dask_gateway", "qhub-dask-gateway"},
		{"conda_store", "qhub-conda-store"},
	} {
		images[name.key] = defaultImageRepository + "/" + name.image + ":latest"
	}
	return images
}

// generatePassword creates a random password and its bcrypt hash. The plain
// password is surfaced once so the user can log in; only the hash lands in
// the configuration.
func generatePassword() (password, hash string, err error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	password = hex.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return password, string(hashed), nil
}
