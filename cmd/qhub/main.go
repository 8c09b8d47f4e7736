// Package main is the entry point for the qhub CLI.
//
// qhub develop bootstraps a complete local QHub deployment: it provisions a
// minikube cluster, builds the repository's container images inside it, and
// deploys a rendered configuration against the cluster.
//
// For detailed usage information, run:
//
//	qhub --help
package main

import (
	"fmt"
	"os"

	"github.com/qhub-dev/qhub/cmd/qhub/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
