package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevelopFlagDefaults(t *testing.T) {
	cmd := Develop()

	tests := []struct {
		flag string
		want string
	}{
		{"profile", "qhub"},
		{"kubernetes-version", "v1.20.2"},
		{"domain", "github-actions.qhub.dev"},
		{"config", ""},
		{"build-images", "true"},
		{"verbose", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag, "flag %s not registered", tt.flag)
			assert.Equal(t, tt.want, flag.DefValue)
		})
	}
}

func TestRootRegistersCommands(t *testing.T) {
	root := Root()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["develop"])
	assert.True(t, names["version"])
}
