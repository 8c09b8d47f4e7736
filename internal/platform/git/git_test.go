package git

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeRunner(outputs map[string]string, failWith error) runner {
	return func(_ context.Context, args ...string) (string, error) {
		if failWith != nil {
			return "", failWith
		}
		return outputs[strings.Join(args, " ")], nil
	}
}

func TestRepositoryRoot(t *testing.T) {
	c := &Client{run: fakeRunner(map[string]string{
		"rev-parse --show-toplevel": "/home/dev/qhub",
	}, nil)}

	root, err := c.RepositoryRoot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/home/dev/qhub", root)
}

func TestRepositoryRootOutsideCheckout(t *testing.T) {
	c := &Client{run: fakeRunner(nil, errors.New("fatal: not a git repository"))}

	_, err := c.RepositoryRoot(context.Background())
	assert.ErrorIs(t, err, ErrNotInRepository)
}

func TestCurrentRevision(t *testing.T) {
	c := &Client{run: fakeRunner(map[string]string{
		"rev-parse HEAD": "0a1b2c3d4e5f",
	}, nil)}

	sha, err := c.CurrentRevision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0a1b2c3d4e5f", sha)
}

func TestCurrentRevisionError(t *testing.T) {
	c := &Client{run: fakeRunner(nil, errors.New("fatal: ambiguous argument 'HEAD'"))}

	_, err := c.CurrentRevision(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotInRepository)
}
