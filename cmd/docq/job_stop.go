package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/session"
)

var jobStopCmd = &cobra.Command{
	Use:   "stop <job-id>",
	Short: "Stop a running job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobStopCmd,
}

func runJobStopCmd(cmd *cobra.Command, args []string) error {
	return withSession(func(client *api.Client, store session.Store) error {
		if err := client.StopJob(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to stop job %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stop requested for job %s\n", args[0])
		return nil
	})
}

func init() {
	jobCmd.AddCommand(jobStopCmd)
}
