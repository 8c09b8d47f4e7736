// Package develop orchestrates the local development pipeline: provisioning
// a minikube cluster, building the repository's container images, and
// deploying a rendered configuration against the cluster. Stages run
// sequentially and the first failure aborts the run.
package develop

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrClusterStartFailed reports a cluster that started without error but
// never reported all components running.
var ErrClusterStartFailed = errors.New("minikube cluster failed to start")

// Options configure one pipeline run.
type Options struct {
	// Verbose enables per-operation progress output.
	Verbose bool

	// BuildImages controls whether the image build stage runs and whether
	// the configuration is pointed at the freshly built images.
	BuildImages bool

	// Profile is the minikube profile the run provisions.
	Profile string

	// KubernetesVersion is passed to minikube start.
	KubernetesVersion string

	// Domain is written into the configuration unconditionally.
	Domain string

	// ConfigPath optionally names a base configuration file to use instead
	// of the generated default.
	ConfigPath string
}

// Run executes the develop pipeline. It must be invoked from inside a qhub
// git checkout: the repository root anchors the develop directory and the
// image definition directory, and the HEAD revision becomes the build
// identifier threaded through image builds and the configuration.
func Run(ctx context.Context, deps Dependencies, opts Options) error {
	root, err := deps.Source.RepositoryRoot(ctx)
	if err != nil {
		return fmt.Errorf("qhub develop must run within a qhub git checkout: %w", err)
	}

	buildID, err := deps.Source.CurrentRevision(ctx)
	if err != nil {
		return fmt.Errorf("deriving build identifier: %w", err)
	}

	runCtx := &Context{
		Context: ctx,
		Options: opts,
		Console: deps.Console,
		State: &State{
			RepoRoot:   root,
			BuildID:    buildID,
			DevelopDir: filepath.Join(root, ".qhub", "develop"),
			ImageDir:   filepath.Join(root, "qhub", "template", "image"),
		},
		Source:      deps.Source,
		Cluster:     deps.Cluster,
		Synthesizer: deps.Synthesizer,
		Renderer:    deps.Renderer,
		Deployer:    deps.Deployer,
	}

	stages := []Stage{clusterStage{}}
	if opts.BuildImages {
		stages = append(stages, imagesStage{})
	}
	stages = append(stages, installStage{})

	if err := RunStages(runCtx, stages); err != nil {
		return err
	}

	printSummary(runCtx)
	return nil
}

// printSummary points the user at the development docs and the exact
// teardown command. The cluster is deliberately left running.
func printSummary(ctx *Context) {
	ctx.Console.Hint("Development documentation https://docs.qhub.dev/en/stable/source/dev_guide/")

	minikubePath, err := ctx.Cluster.BinaryPath()
	if err != nil {
		minikubePath = "minikube"
	}
	ctx.Console.Hint(fmt.Sprintf(
		"When done with development delete the minikube cluster via %q",
		fmt.Sprintf("%s delete --profile=%s", minikubePath, ctx.Cluster.Profile()),
	))
}
