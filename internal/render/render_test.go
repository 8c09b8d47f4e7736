package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qhub-dev/qhub/internal/config"
	"github.com/qhub-dev/qhub/internal/ui/console"
)

func testOptions() config.RenderOptions {
	return config.RenderOptions{
		Domain:        "github-actions.qhub.dev",
		CloudProvider: "local",
		CIProvider:    "none",
		AuthProvider:  "password",
		Namespace:     "dev",
		DisablePrompt: true,
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	r := &Renderer{Console: console.NewWithWriter(&out, true)}

	doc, err := r.DefaultConfig("qhubdevelop", testOptions())
	require.NoError(t, err)

	assert.Equal(t, "qhubdevelop", doc["project_name"])
	assert.Equal(t, "local", doc["provider"])
	assert.Equal(t, "github-actions.qhub.dev", doc.Domain())
	assert.Equal(t, "dev", doc.Namespace())

	images, ok := doc["default_images"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, images, 5)
	for _, key := range []string{"jupyterhub", "jupyterlab", "dask_worker", "dask_gateway", "conda_store"} {
		assert.Contains(t, images, key)
	}
}

func TestDefaultConfigAcceptsImageTags(t *testing.T) {
	t.Parallel()
	r := &Renderer{Console: console.NewWithWriter(&bytes.Buffer{}, false)}

	doc, err := r.DefaultConfig("qhubdevelop", testOptions())
	require.NoError(t, err)

	require.NoError(t, doc.ApplyImageTags("0123abcd"))
	images := doc["default_images"].(map[string]any)
	assert.Equal(t, "jupyterhub:0123abcd", images["jupyterhub"])
	assert.Equal(t, "dask-worker:0123abcd", images["dask_worker"])
}

func TestDefaultConfigPasswordHash(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	r := &Renderer{Console: console.NewWithWriter(&out, true)}

	doc, err := r.DefaultConfig("qhubdevelop", testOptions())
	require.NoError(t, err)

	security := doc["security"].(map[string]any)
	auth := security["authentication"].(map[string]any)
	cfg := auth["config"].(map[string]any)
	hash, ok := cfg["password"].(string)
	require.True(t, ok)

	var password string
	for _, line := range strings.Split(out.String(), "\n") {
		if rest, found := strings.CutPrefix(line, "Generated root password: "); found {
			password = rest
		}
	}
	require.NotEmpty(t, password, "password hint not printed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)))
}

func TestDefaultConfigPasswordsDiffer(t *testing.T) {
	t.Parallel()
	r := &Renderer{}

	first, err := r.DefaultConfig("qhubdevelop", testOptions())
	require.NoError(t, err)
	second, err := r.DefaultConfig("qhubdevelop", testOptions())
	require.NoError(t, err)

	hashOf := func(doc config.Document) string {
		return doc["security"].(map[string]any)["authentication"].(map[string]any)["config"].(map[string]any)["password"].(string)
	}
	assert.NotEqual(t, hashOf(first), hashOf(second))
}

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	r := &Renderer{Console: console.NewWithWriter(&bytes.Buffer{}, false)}
	doc, err := r.DefaultConfig("qhubdevelop", testOptions())
	require.NoError(t, err)
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, doc.WriteFile(path))
	return path
}

func TestTemplates(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)

	r := &Renderer{Console: console.NewWithWriter(&bytes.Buffer{}, true)}
	require.NoError(t, r.Templates(dir, configPath, false))

	manifestDir := filepath.Join(dir, "manifests")
	entries, err := os.ReadDir(manifestDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "namespace.yaml")
	assert.Contains(t, names, "jupyterhub.yaml")
	assert.Contains(t, names, "dask-gateway.yaml")
	assert.Contains(t, names, "conda-store.yaml")

	ns, err := os.ReadFile(filepath.Join(manifestDir, "namespace.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(ns), "kind: Namespace")
	assert.Contains(t, string(ns), "name: dev")

	hub, err := os.ReadFile(filepath.Join(manifestDir, "jupyterhub.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(hub), "namespace: dev")
	assert.Contains(t, string(hub), "quansight/qhub-jupyterhub:latest")
}

func TestTemplatesUsesBuiltImageTags(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	r := &Renderer{Console: console.NewWithWriter(&bytes.Buffer{}, false)}
	doc, err := r.DefaultConfig("qhubdevelop", testOptions())
	require.NoError(t, err)
	require.NoError(t, doc.ApplyImageTags("feedface"))
	configPath := filepath.Join(dir, config.FileName)
	require.NoError(t, doc.WriteFile(configPath))

	require.NoError(t, r.Templates(dir, configPath, false))

	hub, err := os.ReadFile(filepath.Join(dir, "manifests", "jupyterhub.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(hub), "image: jupyterhub:feedface")
}

func TestTemplatesExistingOutput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)
	r := &Renderer{Console: console.NewWithWriter(&bytes.Buffer{}, false)}

	require.NoError(t, r.Templates(dir, configPath, false))

	err := r.Templates(dir, configPath, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, r.Templates(dir, configPath, true))
}

func TestTemplatesMissingConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	r := &Renderer{Console: console.NewWithWriter(&bytes.Buffer{}, false)}

	err := r.Templates(dir, filepath.Join(dir, "missing.yaml"), false)
	require.Error(t, err)
}
