// Package deploy applies rendered manifests to the target cluster and waits
// for the deployment to become ready.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/qhub-dev/qhub/internal/config"
	"github.com/qhub-dev/qhub/internal/k8s"
	"github.com/qhub-dev/qhub/internal/ui/console"
)

const (
	// manifestDirName is the directory, relative to the working directory,
	// holding the rendered manifests to apply.
	manifestDirName = "manifests"

	// partOfSelector matches every workload the deployment chart labels.
	partOfSelector = "app.kubernetes.io/part-of=qhub"

	// readyTimeout bounds the wait for deployed pods to become ready.
	readyTimeout = 10 * time.Minute
)

// ErrAborted is returned when the user declines the deployment confirmation.
var ErrAborted = errors.New("deployment aborted")

// Options control a single deployment.
type Options struct {
	// DNSProvider names an external DNS integration. Local deployments carry
	// no DNS integration, so a non-empty value is rejected.
	DNSProvider string

	// DNSAutoProvision requests automatic DNS record creation. Rejected for
	// the same reason as DNSProvider.
	DNSAutoProvision bool

	// DisablePrompt skips the interactive confirmation before applying.
	DisablePrompt bool
}

// Applier is the cluster surface the deployer needs: applying manifests and
// waiting for the resulting pods.
type Applier interface {
	Apply(ctx context.Context, manifest []byte) error
	WaitForPodsReady(ctx context.Context, namespace, selector string, timeout time.Duration) error
}

// Deployer applies a rendered deployment to a cluster.
type Deployer struct {
	Console *console.Console

	// NewApplier connects to the cluster. Connection is deferred to Deploy
	// time because the kubeconfig context only exists once the cluster runs.
	NewApplier func() (Applier, error)

	// confirm asks the user to proceed. Replaceable in tests.
	confirm func() (bool, error)
}

// New returns a Deployer that connects to the kubeConfigContext cluster.
func New(cons *console.Console, kubeContext string) *Deployer {
	return &Deployer{
		Console: cons,
		NewApplier: func() (Applier, error) {
			return k8s.NewClient(kubeContext)
		},
		confirm: confirmDeploy,
	}
}

// Deploy applies every rendered manifest under ./manifests in listing order,
// then blocks until the deployment's pods report ready. The document's
// namespace scopes the readiness wait.
func (d *Deployer) Deploy(ctx context.Context, doc config.Document, opts Options) error {
	if opts.DNSProvider != "" || opts.DNSAutoProvision {
		return errors.New("DNS provisioning is not supported for local deployments")
	}

	if !opts.DisablePrompt && isatty.IsTerminal(os.Stdin.Fd()) {
		confirm := d.confirm
		if confirm == nil {
			confirm = confirmDeploy
		}
		ok, err := confirm()
		if err != nil {
			return fmt.Errorf("confirming deployment: %w", err)
		}
		if !ok {
			return ErrAborted
		}
	}

	manifests, err := listManifests(manifestDirName)
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		return fmt.Errorf("no manifests found under %s; render templates first", manifestDirName)
	}

	applier, err := d.NewApplier()
	if err != nil {
		return fmt.Errorf("connecting to cluster: %w", err)
	}

	for _, path := range manifests {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading manifest %s: %w", path, err)
		}
		d.Console.Printf("Applying %s", path)
		if err := applier.Apply(ctx, data); err != nil {
			return fmt.Errorf("applying %s: %w", path, err)
		}
	}

	stop := d.Console.Timer(
		fmt.Sprintf("Waiting for pods in namespace %q to become ready", doc.Namespace()),
		fmt.Sprintf("Pods in namespace %q are ready", doc.Namespace()),
	)
	if err := applier.WaitForPodsReady(ctx, doc.Namespace(), partOfSelector, readyTimeout); err != nil {
		return fmt.Errorf("waiting for deployment: %w", err)
	}
	stop()

	return nil
}

// listManifests returns the YAML files directly under dir in listing order.
func listManifests(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading manifest directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

func confirmDeploy() (bool, error) {
	var proceed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Deploy to the cluster?").
				Description("The rendered manifests will be applied with server-side apply").
				Value(&proceed),
		),
	).Run()
	if err != nil {
		return false, err
	}
	return proceed, nil
}
