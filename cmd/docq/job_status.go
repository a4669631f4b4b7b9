package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/config"
	"docq/internal/session"
	"docq/internal/ui"
	"docq/internal/watch"
)

var jobStatusWait bool

var jobStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show a job's processing status",
	Long: `Prints the current status of a job. With --wait the command keeps
polling until the job converges and reports every transition on the way.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobStatusCmd,
}

func runJobStatusCmd(cmd *cobra.Command, args []string) error {
	return withSession(func(client *api.Client, store session.Store) error {
		jobID := args[0]

		if !jobStatusWait {
			status, err := client.JobStatus(cmd.Context(), jobID)
			if err != nil {
				return fmt.Errorf("failed to fetch job status: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s: %s\n", jobID, ui.StatusBadge(status.Status))
			return nil
		}

		done := make(chan struct{})
		var once sync.Once

		watcher, err := watch.WatchJob(cmd.Context(), client, jobID, watch.Options{
			Interval: config.JobInterval(),
			Logger:   newLogger(),
			OnChange: func(s api.Status) {
				fmt.Fprintf(cmd.OutOrStdout(), "Job %s: %s\n", jobID, ui.StatusBadge(s))
				if s.Terminal() {
					once.Do(func() { close(done) })
				}
			},
			OnError: func(err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "poll failed: %v\n", err)
			},
		})
		if err != nil {
			return err
		}
		defer watcher.Cancel()

		select {
		case <-done:
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}

		if watcher.ReportsReady() {
			fmt.Fprintf(cmd.OutOrStdout(), "Reports are ready. Fetch them with 'docq report main %s'\n", jobID)
		}
		return nil
	})
}

func init() {
	jobStatusCmd.Flags().BoolVarP(&jobStatusWait, "wait", "w", false, "Poll until the job reaches a final state")
	jobCmd.AddCommand(jobStatusCmd)
}
