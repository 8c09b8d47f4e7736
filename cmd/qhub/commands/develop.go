package commands

import (
	"github.com/spf13/cobra"

	"github.com/qhub-dev/qhub/cmd/qhub/handlers"
	"github.com/qhub-dev/qhub/internal/develop"
)

// Develop returns the command for bootstrapping a local QHub deployment.
//
// The command provisions a minikube cluster, builds the repository's
// container images inside it, and deploys a rendered configuration. It must
// be run from inside a qhub git checkout.
//
// Optional flags:
//
//	--profile: minikube profile to provision (default: qhub)
//	--kubernetes-version: Kubernetes version for the cluster
//	--domain: domain written into the configuration
//	--config, -c: base configuration file instead of the generated default
//	--build-images: build and use the repository's images (default: true)
//	--verbose: per-operation progress output (default: true)
func Develop() *cobra.Command {
	var opts develop.Options

	cmd := &cobra.Command{
		Use:   "develop",
		Short: "Bootstrap a local QHub deployment on minikube",
		Long: `Bootstrap a complete local QHub deployment for development.

This command starts a minikube cluster with MetalLB configured, builds the
repository's Docker images inside the cluster's runtime, and deploys a
rendered configuration against it. Everything is tagged with the current
git revision so the deployment matches the checked-out code exactly.

The cluster is left running; the exact teardown command is printed on
success.

Examples:
  # Full run: cluster, images, deployment
  qhub develop

  # Reuse prebuilt images
  qhub develop --build-images=false

  # Deploy with a custom base configuration
  qhub develop -c my-config.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Develop(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Profile, "profile", "qhub", "minikube profile to provision")
	flags.StringVar(&opts.KubernetesVersion, "kubernetes-version", "v1.20.2", "Kubernetes version for the minikube cluster")
	flags.StringVar(&opts.Domain, "domain", "github-actions.qhub.dev", "domain the deployment is configured with")
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to a base configuration file (default: generated)")
	flags.BoolVar(&opts.BuildImages, "build-images", true, "build the repository's Docker images inside the cluster")
	flags.BoolVar(&opts.Verbose, "verbose", true, "print per-operation progress")

	return cmd
}
