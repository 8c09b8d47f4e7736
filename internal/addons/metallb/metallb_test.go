package metallb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingApplier struct {
	manifests [][]byte
	err       error
}

func (a *recordingApplier) Apply(_ context.Context, m []byte) error {
	a.manifests = append(a.manifests, m)
	return a.err
}

func TestAddressRange(t *testing.T) {
	tests := []struct {
		name      string
		ip        string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{name: "typical minikube ip", ip: "192.168.49.2", wantStart: "192.168.49.100", wantEnd: "192.168.49.150"},
		{name: "other subnet", ip: "10.0.5.7", wantStart: "10.0.5.100", wantEnd: "10.0.5.150"},
		{name: "not an ip", ip: "minikube", wantErr: true},
		{name: "empty", ip: "", wantErr: true},
		{name: "ipv6", ip: "fd00::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := AddressRange(tt.ip)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestConfigManifest(t *testing.T) {
	manifest, err := ConfigManifest("192.168.49.2")
	require.NoError(t, err)

	out := string(manifest)
	assert.Contains(t, out, "kind: Namespace")
	assert.Contains(t, out, "kind: ConfigMap")
	assert.Contains(t, out, "metallb-system")
	assert.Contains(t, out, "192.168.49.100-192.168.49.150")
	assert.Contains(t, out, "protocol: layer2")
}

func TestConfigure(t *testing.T) {
	applier := &recordingApplier{}

	require.NoError(t, Configure(context.Background(), applier, "192.168.49.2"))
	require.Len(t, applier.manifests, 1)
	assert.Contains(t, string(applier.manifests[0]), "address-pools")
}

func TestConfigureApplyError(t *testing.T) {
	applier := &recordingApplier{err: errors.New("connection refused")}

	err := Configure(context.Background(), applier, "192.168.49.2")
	assert.ErrorContains(t, err, "applying metallb configuration")
}

func TestConfigureInvalidIP(t *testing.T) {
	applier := &recordingApplier{}

	err := Configure(context.Background(), applier, "not-an-ip")
	assert.Error(t, err)
	assert.Empty(t, applier.manifests)
}
