// Package metallb configures the MetalLB load-balancer add-on for a local
// minikube cluster. It derives a layer-2 address pool from the cluster's IP
// and applies the configuration the minikube metallb addon consumes.
package metallb

import (
	"context"
	"fmt"
	"net"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

const (
	// Namespace is where the minikube metallb addon expects its config.
	Namespace = "metallb-system"

	configMapName = "config"

	rangeStart = 100
	rangeEnd   = 150
)

// Applier applies Kubernetes manifests to the target cluster.
type Applier interface {
	Apply(ctx context.Context, manifests []byte) error
}

// AddressRange derives the layer-2 pool boundaries from the cluster IP:
// the .100-.150 block of the cluster's /24.
func AddressRange(clusterIP string) (string, string, error) {
	ip := net.ParseIP(clusterIP)
	if ip == nil || ip.To4() == nil {
		return "", "", fmt.Errorf("invalid cluster IPv4 address %q", clusterIP)
	}
	v4 := ip.To4()
	start := fmt.Sprintf("%d.%d.%d.%d", v4[0], v4[1], v4[2], rangeStart)
	end := fmt.Sprintf("%d.%d.%d.%d", v4[0], v4[1], v4[2], rangeEnd)
	return start, end, nil
}

// ConfigManifest builds the metallb-system namespace and its ConfigMap with
// a single layer-2 address pool derived from the cluster IP. The namespace is
// included so configuration can be applied before the addon is enabled.
func ConfigManifest(clusterIP string) ([]byte, error) {
	start, end, err := AddressRange(clusterIP)
	if err != nil {
		return nil, err
	}

	pool := strings.Join([]string{
		"address-pools:",
		"- name: default",
		"  protocol: layer2",
		"  addresses:",
		fmt.Sprintf("  - %s-%s", start, end),
		"",
	}, "\n")

	ns := corev1.Namespace{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Namespace",
		},
		ObjectMeta: metav1.ObjectMeta{Name: Namespace},
	}

	cm := corev1.ConfigMap{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "ConfigMap",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      configMapName,
			Namespace: Namespace,
		},
		Data: map[string]string{"config": pool},
	}

	nsYAML, err := yaml.Marshal(&ns)
	if err != nil {
		return nil, err
	}
	cmYAML, err := yaml.Marshal(&cm)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.Write(nsYAML)
	b.WriteString("---\n")
	b.Write(cmYAML)
	return []byte(b.String()), nil
}

// Configure applies the derived address-pool configuration to the cluster.
func Configure(ctx context.Context, applier Applier, clusterIP string) error {
	manifest, err := ConfigManifest(clusterIP)
	if err != nil {
		return fmt.Errorf("building metallb configuration: %w", err)
	}
	if err := applier.Apply(ctx, manifest); err != nil {
		return fmt.Errorf("applying metallb configuration: %w", err)
	}
	return nil
}
