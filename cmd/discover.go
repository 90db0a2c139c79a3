package cmd

import (
	"fmt"

	"feed-refresher/bootstrap"

	"github.com/spf13/cobra"
)

var discoverUserID string

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run one discovery pass and enqueue refresh jobs for due feeds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := bootstrap.RunDiscovery(cmd.Context(), discoverUserID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "groups=%d enqueued=%d duplicates=%d failed=%d\n",
			result.Groups, result.Enqueued, result.Duplicates, result.Failed)
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverUserID, "user-id", "", "limit discovery to one user's subscriptions")
	rootCmd.AddCommand(discoverCmd)
}
