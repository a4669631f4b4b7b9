package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/session"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List your jobs",
	RunE:  runJobsCmd,
}

func runJobsCmd(cmd *cobra.Command, args []string) error {
	return withSession(func(client *api.Client, store session.Store) error {
		jobs, err := client.Jobs(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list jobs: %w", err)
		}
		if len(jobs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No jobs yet. Create one with 'docq job create'.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, j := range jobs {
			fmt.Fprintf(w, "%d\t%s\n", j.ID, j.Name)
		}
		return w.Flush()
	})
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
