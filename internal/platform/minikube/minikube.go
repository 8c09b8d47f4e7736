// Package minikube wraps the minikube binary for local cluster control:
// starting a profile, checking its health, enabling add-ons, and building
// images inside the cluster's container runtime.
package minikube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/qhub-dev/qhub/internal/addons/metallb"
	"github.com/qhub-dev/qhub/internal/k8s"
)

const binaryName = "minikube"

// runner executes a minikube subcommand and returns its stdout.
type runner func(ctx context.Context, args ...string) (string, error)

// Cluster controls one minikube profile.
type Cluster struct {
	profile string
	run     runner

	// newApplier is resolved lazily: the kubeconfig for the profile only
	// exists once the cluster has been started.
	newApplier func() (metallb.Applier, error)
}

// NewCluster returns a Cluster for the given profile backed by the minikube
// binary on PATH.
func NewCluster(profile string) *Cluster {
	return &Cluster{
		profile: profile,
		run:     runMinikube,
		newApplier: func() (metallb.Applier, error) {
			return k8s.NewClient(profile)
		},
	}
}

// Profile returns the minikube profile name this Cluster controls.
func (c *Cluster) Profile() string { return c.profile }

// Start starts (or reuses) the profile's cluster at the requested Kubernetes
// version. The call blocks until minikube reports the cluster is up.
func (c *Cluster) Start(ctx context.Context, kubernetesVersion string) error {
	_, err := c.run(ctx, "start",
		"--profile", c.profile,
		"--kubernetes-version", kubernetesVersion,
	)
	if err != nil {
		return fmt.Errorf("starting minikube profile %s: %w", c.profile, err)
	}
	return nil
}

// componentStatus mirrors the JSON emitted by `minikube status --output=json`.
type componentStatus struct {
	Host      string `json:"Host"`
	Kubelet   string `json:"Kubelet"`
	APIServer string `json:"APIServer"`
}

// Status reports whether the profile's host, kubelet, and API server are all
// running. A stopped or missing profile yields false rather than an error
// when minikube still produced parseable status output.
func (c *Cluster) Status(ctx context.Context) (bool, error) {
	out, runErr := c.run(ctx, "status", "--profile", c.profile, "--output", "json")

	var status componentStatus
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &status); err != nil {
		if runErr != nil {
			return false, fmt.Errorf("querying minikube status: %w", runErr)
		}
		return false, fmt.Errorf("parsing minikube status output: %w", err)
	}

	running := status.Host == "Running" && status.Kubelet == "Running" && status.APIServer == "Running"
	return running, nil
}

// ConfigureLoadBalancer derives a MetalLB address pool from the cluster IP
// and applies it. Must be called after Start.
func (c *Cluster) ConfigureLoadBalancer(ctx context.Context) error {
	ip, err := c.IP(ctx)
	if err != nil {
		return err
	}
	applier, err := c.newApplier()
	if err != nil {
		return fmt.Errorf("connecting to cluster %s: %w", c.profile, err)
	}
	return metallb.Configure(ctx, applier, ip)
}

// EnableAddon enables a named minikube addon for the profile.
func (c *Cluster) EnableAddon(ctx context.Context, name string) error {
	_, err := c.run(ctx, "addons", "enable", name, "--profile", c.profile)
	if err != nil {
		return fmt.Errorf("enabling addon %s: %w", name, err)
	}
	return nil
}

// IP returns the cluster node's IP address.
func (c *Cluster) IP(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "ip", "--profile", c.profile)
	if err != nil {
		return "", fmt.Errorf("querying minikube ip: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ImageBuild builds a container image inside the cluster's runtime so the
// resulting image is immediately pullable by pods without a registry.
func (c *Cluster) ImageBuild(ctx context.Context, definitionPath, contextDir, name, tag string) error {
	_, err := c.run(ctx, "image", "build",
		"--profile", c.profile,
		"--tag", name+":"+tag,
		"--file", definitionPath,
		contextDir,
	)
	if err != nil {
		return fmt.Errorf("building image %s:%s: %w", name, tag, err)
	}
	return nil
}

// BinaryPath resolves the minikube binary on PATH. Used to print the exact
// teardown command after a successful run.
func (c *Cluster) BinaryPath() (string, error) {
	path, err := exec.LookPath(binaryName)
	if err != nil {
		return "", fmt.Errorf("locating minikube binary: %w", err)
	}
	return path, nil
}

func runMinikube(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, binaryName, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return string(out), fmt.Errorf("minikube %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return string(out), fmt.Errorf("minikube %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
