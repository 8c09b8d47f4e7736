package image

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhub-dev/qhub/internal/ui/console"
)

type buildCall struct {
	definitionPath string
	contextDir     string
	name           string
	tag            string
}

type fakeEngine struct {
	calls   []buildCall
	failOn  string
	failErr error
}

func (e *fakeEngine) ImageBuild(_ context.Context, definitionPath, contextDir, name, tag string) error {
	e.calls = append(e.calls, buildCall{definitionPath, contextDir, name, tag})
	if e.failOn != "" && name == e.failOn {
		return e.failErr
	}
	return nil
}

func testConsole() (*console.Console, *strings.Builder) {
	var buf strings.Builder
	return console.NewWithWriter(&buf, true), &buf
}

func TestBuildAllPairsAndTags(t *testing.T) {
	engine := &fakeEngine{}
	con, _ := testConsole()
	b := NewBuilder(engine, con)

	defs := []Definition{
		{Path: "image/Dockerfile.jupyterhub", Name: "jupyterhub"},
		{Path: "image/Dockerfile.jupyterlab", Name: "jupyterlab"},
	}

	require.NoError(t, b.BuildAll(context.Background(), "image", defs, "abc123"))
	require.Len(t, engine.calls, 2)

	assert.Equal(t, buildCall{"image/Dockerfile.jupyterhub", "image", "jupyterhub", "abc123"}, engine.calls[0])
	assert.Equal(t, buildCall{"image/Dockerfile.jupyterlab", "image", "jupyterlab", "abc123"}, engine.calls[1])
}

func TestBuildAllFailFast(t *testing.T) {
	engine := &fakeEngine{failOn: "jupyterhub", failErr: errors.New("build failed")}
	con, buf := testConsole()
	b := NewBuilder(engine, con)

	defs := []Definition{
		{Path: "image/Dockerfile.jupyterhub", Name: "jupyterhub"},
		{Path: "image/Dockerfile.jupyterlab", Name: "jupyterlab"},
	}

	err := b.BuildAll(context.Background(), "image", defs, "abc123")
	require.Error(t, err)
	assert.ErrorContains(t, err, "jupyterhub:abc123")

	// remaining builds are aborted
	assert.Len(t, engine.calls, 1)

	// completion marker withheld on failure
	assert.Contains(t, buf.String(), `Building Dockerfile.jupyterhub image "jupyterhub:abc123"`)
	assert.NotContains(t, buf.String(), "Built Dockerfile.jupyterhub")
}

func TestBuildAllEmptyIsNoOp(t *testing.T) {
	engine := &fakeEngine{}
	con, _ := testConsole()
	b := NewBuilder(engine, con)

	require.NoError(t, b.BuildAll(context.Background(), "image", nil, "abc123"))
	assert.Empty(t, engine.calls)
}

func TestRef(t *testing.T) {
	assert.Equal(t, "dask-worker:abc123", Ref("dask-worker", "abc123"))
}
