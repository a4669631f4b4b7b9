package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/session"
)

var jobShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show a job's files, questions and answer cells",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobShowCmd,
}

func runJobShowCmd(cmd *cobra.Command, args []string) error {
	return withSession(func(client *api.Client, store session.Store) error {
		detail, err := client.Job(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load job %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Job %d: %s\n\n", detail.ID, detail.Name)

		fmt.Fprintln(out, "Files:")
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tFILENAME")
		for _, f := range detail.Files {
			fmt.Fprintf(w, "  %d\t%s\n", f.ID, f.Filename)
		}
		w.Flush()

		fmt.Fprintln(out, "\nQuestions:")
		w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tTEXT")
		for _, q := range detail.Questions {
			fmt.Fprintf(w, "  %d\t%s\n", q.ID, q.Text)
		}
		w.Flush()

		fmt.Fprintln(out, "\nAnswers:")
		w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tFILE\tQUESTION")
		for _, a := range detail.Answers {
			fmt.Fprintf(w, "  %d\t%s\t%s\n", a.ID, lookupFilename(detail, a.FileID), lookupQuestion(detail, a.QuestionID))
		}
		return w.Flush()
	})
}

func lookupFilename(d api.JobDetail, fileID int64) string {
	for _, f := range d.Files {
		if f.ID == fileID {
			return f.Filename
		}
	}
	return fmt.Sprintf("file %d", fileID)
}

func lookupQuestion(d api.JobDetail, questionID int64) string {
	for _, q := range d.Questions {
		if q.ID == questionID {
			return q.Text
		}
	}
	return fmt.Sprintf("question %d", questionID)
}

func init() {
	jobCmd.AddCommand(jobShowCmd)
}
