// Package cmd provides the staticd CLI.
//
// Commands:
//   - serve: run the static asset HTTP server until SIGINT/SIGTERM
//   - check: validate configuration and asset root, exit non-zero on failure
//   - version: show version information
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "staticd",
	Short: "staticd — static asset server for generated sites",
	Long: `staticd serves a directory of pre-built site files over HTTP.

It is the runtime half of a containerized static site: the generator
writes the asset root at image build time, staticd serves it with
liveness/readiness probes for the container health check.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}
