// Package handlers implements the business logic for CLI commands.
//
// Handlers are framework-agnostic and can be tested independently of the
// CLI framework.
package handlers

import (
	"context"

	"github.com/qhub-dev/qhub/internal/config"
	"github.com/qhub-dev/qhub/internal/deploy"
	"github.com/qhub-dev/qhub/internal/develop"
	"github.com/qhub-dev/qhub/internal/platform/git"
	"github.com/qhub-dev/qhub/internal/platform/minikube"
	"github.com/qhub-dev/qhub/internal/render"
	"github.com/qhub-dev/qhub/internal/ui/console"
	"github.com/qhub-dev/qhub/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// checkDefaultPrereqs runs prerequisite checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// newSourceControl creates the git client.
	newSourceControl = func() develop.SourceControl {
		return git.New()
	}

	// newCluster creates the minikube cluster controller for a profile.
	newCluster = func(profile string) develop.ClusterProvider {
		return minikube.NewCluster(profile)
	}

	// runPipeline executes the develop pipeline.
	runPipeline = develop.Run
)

// Develop bootstraps a local QHub deployment.
//
// It verifies the required client tools are installed, wires the pipeline's
// collaborators, and runs the pipeline: cluster provisioning, image builds,
// and deployment, in that order, aborting on the first failure.
func Develop(ctx context.Context, opts develop.Options) error {
	if results := checkDefaultPrereqs(); results.HasErrors() {
		return results.Error()
	}

	cons := console.New(opts.Verbose)
	renderer := &render.Renderer{Console: cons}

	deps := develop.Dependencies{
		Console:     cons,
		Source:      newSourceControl(),
		Cluster:     newCluster(opts.Profile),
		Synthesizer: &config.Synthesizer{Renderer: renderer, Console: cons},
		Renderer:    renderer,
		Deployer:    deploy.New(cons, opts.Profile),
	}

	return runPipeline(ctx, deps, opts)
}
