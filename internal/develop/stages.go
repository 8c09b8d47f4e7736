package develop

import (
	"fmt"
	"path/filepath"

	"github.com/qhub-dev/qhub/internal/config"
	"github.com/qhub-dev/qhub/internal/deploy"
	"github.com/qhub-dev/qhub/internal/image"
	"github.com/qhub-dev/qhub/internal/util/fsutil"
)

// metallbAddon is the minikube addon providing LoadBalancer services.
const metallbAddon = "metallb"

// Stage is one step of the develop pipeline.
type Stage interface {
	// Name returns the banner title shown when the stage starts.
	Name() string

	// Run executes the stage against the shared context.
	Run(ctx *Context) error
}

// RunStages executes stages sequentially and stops at the first failure.
// Each stage is announced with a rule banner before it runs; a failed stage
// leaves its start marker as the last output before the error.
func RunStages(ctx *Context, stages []Stage) error {
	for _, stage := range stages {
		ctx.Console.Rule(stage.Name())
		if err := stage.Run(ctx); err != nil {
			return fmt.Errorf("%s stage failed: %w", stage.Name(), err)
		}
	}
	return nil
}

// clusterStage starts the minikube cluster, verifies it is healthy, and
// wires up MetalLB so LoadBalancer services resolve locally.
type clusterStage struct{}

func (clusterStage) Name() string { return "Starting Minikube cluster" }

func (clusterStage) Run(ctx *Context) error {
	done := ctx.Console.Timer("Creating Minikube cluster", "Created Minikube cluster")

	if err := ctx.Cluster.Start(ctx, ctx.Options.KubernetesVersion); err != nil {
		return err
	}

	running, err := ctx.Cluster.Status(ctx)
	if err != nil {
		return err
	}
	if !running {
		return ErrClusterStartFailed
	}

	if err := ctx.Cluster.ConfigureLoadBalancer(ctx); err != nil {
		return err
	}
	if err := ctx.Cluster.EnableAddon(ctx, metallbAddon); err != nil {
		return err
	}

	done()
	return nil
}

// imagesStage discovers the repository's image definitions and builds each
// one inside the cluster, tagged with the run's build identifier.
type imagesStage struct{}

func (imagesStage) Name() string { return "Building Docker images" }

func (imagesStage) Run(ctx *Context) error {
	defs, err := image.ListDefinitions(ctx.State.ImageDir)
	if err != nil {
		return err
	}
	builder := image.NewBuilder(ctx.Cluster, ctx.Console)
	return builder.BuildAll(ctx, ctx.State.ImageDir, defs, ctx.State.BuildID)
}

// installStage synthesizes the configuration, renders the deployment
// manifests, and applies them from inside the develop directory.
type installStage struct{}

func (installStage) Name() string { return "Installing QHub" }

func (installStage) Run(ctx *Context) error {
	doc, err := ctx.Synthesizer.Synthesize(ctx,
		ctx.State.DevelopDir,
		ctx.State.BuildID,
		ctx.Options.BuildImages,
		ctx.Options.Domain,
		ctx.Options.ConfigPath,
	)
	if err != nil {
		return err
	}
	ctx.State.Config = doc

	configPath := filepath.Join(ctx.State.DevelopDir, config.FileName)
	done := ctx.Console.Timer(
		fmt.Sprintf("Rendering %s deployment manifests to directory=%s", config.FileName, ctx.State.DevelopDir),
		fmt.Sprintf("Rendered %s deployment manifests to directory=%s", config.FileName, ctx.State.DevelopDir),
	)
	if err := ctx.Renderer.Templates(ctx.State.DevelopDir, configPath, true); err != nil {
		return err
	}
	done()

	return fsutil.WithWorkingDir(ctx.State.DevelopDir, func() error {
		return ctx.Deployer.Deploy(ctx, doc, deploy.Options{DisablePrompt: true})
	})
}
