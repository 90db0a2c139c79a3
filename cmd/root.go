// Package cmd contains the CLI commands of the feed refresher.
package cmd

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "feed-refresher",
	Short: "Feed ingestion engine",
	Long: `feed-refresher discovers due feed subscriptions, fetches and parses
their feeds and delivers new items to every subscriber.

Example usage:
  feed-refresher serve                      # HTTP server, workers and scheduler
  feed-refresher discover                   # one discovery pass over all feeds
  feed-refresher discover --user-id <id>    # one pass over a user's feeds`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command. Without a subcommand it serves.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
