package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/config"
	"docq/internal/session"
	"docq/internal/ui"
	"docq/internal/watch"
)

var answerWait bool

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Inspect computed answers",
}

var answerShowCmd = &cobra.Command{
	Use:   "show <answer-id>",
	Short: "Show an answer's status and payload",
	Long: `Prints an answer's processing status and, once available, the answer
itself. With --wait the command polls until the payload arrives.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnswerShowCmd,
}

var answerDetailCmd = &cobra.Command{
	Use:   "detail <answer-id>",
	Short: "Show an answer with its contexts, conversation and evaluation",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnswerDetailCmd,
}

func parseID(arg, kind string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return id, nil
}

func runAnswerShowCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "answer")
	if err != nil {
		return err
	}

	return withSession(func(client *api.Client, store session.Store) error {
		out := cmd.OutOrStdout()

		if !answerWait {
			status, err := client.Answer(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to fetch answer: %w", err)
			}
			printAnswerStatus(cmd, id, status)
			return nil
		}

		watcher, err := watch.WatchAnswer(cmd.Context(), client, id, watch.Options{
			Interval: config.AnswerInterval(),
			Logger:   newLogger(),
			OnChange: func(s api.Status) {
				fmt.Fprintf(out, "Answer %d: %s\n", id, ui.StatusBadge(s))
			},
			OnError: func(err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "poll failed: %v\n", err)
			},
		})
		if err != nil {
			return err
		}
		defer watcher.Cancel()

		if err := waitForAnswer(cmd.Context(), watcher); err != nil {
			return err
		}

		printAnswerStatus(cmd, id, api.AnswerStatus{Status: watcher.Status(), AnswerEncoded: watcher.Encoded()})
		return nil
	})
}

func printAnswerStatus(cmd *cobra.Command, id int64, status api.AnswerStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Answer %d: %s\n", id, ui.StatusBadge(status.Status))
	if status.AnswerEncoded == "" {
		fmt.Fprintln(out, "Payload not available yet.")
		return
	}
	fmt.Fprintln(out, decodeAnswer(status.AnswerEncoded))
}

// decodeAnswer unpacks the transport encoding; payloads that are not
// valid base64 are shown verbatim.
func decodeAnswer(encoded string) string {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return encoded
	}
	return string(decoded)
}

func runAnswerDetailCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "answer")
	if err != nil {
		return err
	}

	return withSession(func(client *api.Client, store session.Store) error {
		detail, err := client.AnswerDetail(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to fetch answer detail: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "File:     %s\n", detail.Filename)
		fmt.Fprintf(out, "Question: %s\n", detail.QuestionText)
		if detail.QuestionPossibleOptions != "" && detail.QuestionPossibleOptions != "None" {
			fmt.Fprintf(out, "Options:  %s\n", detail.QuestionPossibleOptions)
		}

		answer := detail.AnswerText
		if answer == "" {
			answer = decodeAnswer(detail.AnswerEncoded)
		}
		fmt.Fprintf(out, "\nAnswer:\n%s\n", answer)

		if len(detail.AnswerContexts) > 0 {
			fmt.Fprintln(out, "\nContexts:")
			for _, c := range detail.AnswerContexts {
				fmt.Fprintf(out, "  [%.3f] %s\n", c.Score, c.Context)
			}
		}

		if len(detail.AnswerConversation) > 0 {
			fmt.Fprintln(out, "\nConversation:")
			for _, turn := range detail.AnswerConversation {
				fmt.Fprintf(out, "  Q: %s\n  A: %s\n", turn.Question, turn.Answer)
			}
		}

		if len(detail.Evaluation) > 0 {
			fmt.Fprintln(out, "\nEvaluation:")
			for metric, scores := range detail.Evaluation {
				fmt.Fprintf(out, "  %s:\n", metric)
				for name, value := range scores {
					fmt.Fprintf(out, "    %s: %.3f\n", name, value)
				}
			}
		}
		return nil
	})
}

// waitForAnswer blocks until the watcher converged with a payload or the
// context ends. The watcher does the actual network polling; this only
// observes its state.
func waitForAnswer(ctx context.Context, watcher *watch.AnswerWatcher) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if watcher.Ready() {
				return nil
			}
		}
	}
}

func init() {
	answerShowCmd.Flags().BoolVarP(&answerWait, "wait", "w", false, "Poll until the answer payload is available")
	answerCmd.AddCommand(answerShowCmd)
	answerCmd.AddCommand(answerDetailCmd)
	rootCmd.AddCommand(answerCmd)
}
