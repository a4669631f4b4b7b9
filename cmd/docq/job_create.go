package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/session"
)

var (
	jobCreateName      string
	jobCreateQuestions []string
	jobCreateOptions   []string
)

var jobCreateCmd = &cobra.Command{
	Use:   "create [files...]",
	Short: "Submit a new job with documents and questions",
	Long: `Uploads one or more documents together with a set of questions. Each
--options value constrains the answer of the question at the same position;
questions without options are answered free-form.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJobCreateCmd,
}

func runJobCreateCmd(cmd *cobra.Command, args []string) error {
	if len(jobCreateQuestions) == 0 {
		return fmt.Errorf("at least one --question is required")
	}
	if len(jobCreateOptions) > len(jobCreateQuestions) {
		return fmt.Errorf("more --options values (%d) than questions (%d)", len(jobCreateOptions), len(jobCreateQuestions))
	}

	questions := make([]api.NewQuestion, len(jobCreateQuestions))
	for i, text := range jobCreateQuestions {
		opts := "None"
		if i < len(jobCreateOptions) && jobCreateOptions[i] != "" {
			opts = jobCreateOptions[i]
		}
		questions[i] = api.NewQuestion{Text: text, PossibleOptions: opts}
	}

	uploads := make([]api.Upload, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		uploads = append(uploads, api.Upload{Filename: filepath.Base(path), Data: data})
	}

	name := jobCreateName
	if name == "" {
		name = filepath.Base(args[0])
	}

	return withSession(func(client *api.Client, store session.Store) error {
		job, err := client.CreateJob(cmd.Context(), name, questions, uploads)
		if err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created job %d (%s) with %d file(s) and %d question(s)\n",
			job.ID, job.Name, len(uploads), len(questions))
		fmt.Fprintf(cmd.OutOrStdout(), "Track it with 'docq watch %d'\n", job.ID)
		return nil
	})
}

func init() {
	jobCreateCmd.Flags().StringVarP(&jobCreateName, "name", "n", "", "Job name (defaults to the first filename)")
	jobCreateCmd.Flags().StringArrayVarP(&jobCreateQuestions, "question", "q", nil, "Question to ask (repeatable)")
	jobCreateCmd.Flags().StringArrayVarP(&jobCreateOptions, "options", "o", nil, "Comma-separated answer options for the question at the same position (repeatable)")
	jobCmd.AddCommand(jobCreateCmd)
}
