package develop

import (
	"context"

	"github.com/qhub-dev/qhub/internal/config"
	"github.com/qhub-dev/qhub/internal/deploy"
	"github.com/qhub-dev/qhub/internal/ui/console"
)

// SourceControl locates the repository the pipeline runs inside and derives
// its build identifier. Implemented by internal/platform/git.Client.
type SourceControl interface {
	RepositoryRoot(ctx context.Context) (string, error)
	CurrentRevision(ctx context.Context) (string, error)
}

// ClusterProvider controls the local development cluster. Implemented by
// internal/platform/minikube.Cluster.
type ClusterProvider interface {
	Profile() string
	Start(ctx context.Context, kubernetesVersion string) error
	Status(ctx context.Context) (bool, error)
	ConfigureLoadBalancer(ctx context.Context) error
	EnableAddon(ctx context.Context, name string) error
	ImageBuild(ctx context.Context, definitionPath, contextDir, name, tag string) error
	BinaryPath() (string, error)
}

// ConfigSynthesizer produces and persists the run's configuration document.
// Implemented by internal/config.Synthesizer.
type ConfigSynthesizer interface {
	Synthesize(ctx context.Context, directory, buildID string, buildImages bool, domain, overridePath string) (config.Document, error)
}

// TemplateRenderer renders deployment manifests for a persisted
// configuration. Implemented by internal/render.Renderer.
type TemplateRenderer interface {
	Templates(outputDir, configPath string, force bool) error
}

// ClusterDeployer applies a rendered deployment. Implemented by
// internal/deploy.Deployer.
type ClusterDeployer interface {
	Deploy(ctx context.Context, doc config.Document, opts deploy.Options) error
}

// Dependencies are the collaborators the pipeline is wired with. The CLI
// handler supplies real implementations; tests supply fakes.
type Dependencies struct {
	Console     *console.Console
	Source      SourceControl
	Cluster     ClusterProvider
	Synthesizer ConfigSynthesizer
	Renderer    TemplateRenderer
	Deployer    ClusterDeployer
}

// State holds the results shared between stages. It is progressively
// populated as stages complete.
type State struct {
	// RepoRoot is the absolute path of the enclosing git repository.
	RepoRoot string

	// BuildID is the run's single build identifier (the git HEAD revision).
	// Every image build and configuration image reference uses this value.
	BuildID string

	// DevelopDir is <RepoRoot>/.qhub/develop, where configuration and
	// rendered manifests are persisted.
	DevelopDir string

	// ImageDir is the directory scanned for image definitions. It also
	// serves as the build context for every image.
	ImageDir string

	// Config is set by the install stage after synthesis.
	Config config.Document
}

// Context wraps the dependencies and shared state a stage runs against.
type Context struct {
	context.Context
	Options Options
	Console *console.Console
	State   *State

	Source      SourceControl
	Cluster     ClusterProvider
	Synthesizer ConfigSynthesizer
	Renderer    TemplateRenderer
	Deployer    ClusterDeployer
}
