package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"docq/internal/api"
	"docq/internal/session"
)

var (
	reportOutput  string
	partialFormat string
	partialShow   bool
	mainKind      string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Download source files and generated reports",
}

var reportFileCmd = &cobra.Command{
	Use:   "file <file-id>",
	Short: "Download a job's source document",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportFileCmd,
}

var reportPartialCmd = &cobra.Command{
	Use:   "partial <file-id>",
	Short: "Download the per-file report",
	Long: `Fetches the partial report generated for a single document, as JSON or
Markdown. With --show the Markdown variant is rendered to the terminal
instead of being saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runReportPartialCmd,
}

var reportMainCmd = &cobra.Command{
	Use:   "main <job-id>",
	Short: "Download the job-wide report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportMainCmd,
}

func runReportFileCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "file")
	if err != nil {
		return err
	}

	return withSession(func(client *api.Client, store session.Store) error {
		out, closeFn, err := openOutput(cmd, fmt.Sprintf("file_%d", id))
		if err != nil {
			return err
		}
		defer closeFn()

		if err := client.DownloadFile(cmd.Context(), id, out); err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		return nil
	})
}

func runReportPartialCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "file")
	if err != nil {
		return err
	}

	return withSession(func(client *api.Client, store session.Store) error {
		if partialShow {
			var buf bytes.Buffer
			if err := client.PartialReport(cmd.Context(), id, "md", &buf); err != nil {
				return fmt.Errorf("download failed: %w", err)
			}
			return renderMarkdown(cmd.OutOrStdout(), buf.String())
		}

		out, closeFn, err := openOutput(cmd, fmt.Sprintf("partial_%d.%s", id, partialFormat))
		if err != nil {
			return err
		}
		defer closeFn()

		if err := client.PartialReport(cmd.Context(), id, partialFormat, out); err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		return nil
	})
}

func runReportMainCmd(cmd *cobra.Command, args []string) error {
	return withSession(func(client *api.Client, store session.Store) error {
		out, closeFn, err := openOutput(cmd, fmt.Sprintf("main_%s_%s", mainKind, args[0]))
		if err != nil {
			return err
		}
		defer closeFn()

		if err := client.MainReport(cmd.Context(), args[0], mainKind, out); err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		return nil
	})
}

// openOutput resolves the --output flag. "-" streams to stdout, an empty
// value falls back to the suggested name in the working directory.
func openOutput(cmd *cobra.Command, fallback string) (io.Writer, func(), error) {
	name := reportOutput
	if name == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	if name == "" {
		name = fallback
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	return f, func() {
		f.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", name)
	}, nil
}

func renderMarkdown(w io.Writer, markdown string) error {
	// No point styling output for a terminal that cannot show it.
	if termenv.ColorProfile() == termenv.Ascii {
		fmt.Fprintln(w, markdown)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fall back to the raw document when no renderer is available.
		fmt.Fprintln(w, markdown)
		return nil
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		fmt.Fprintln(w, markdown)
		return nil
	}
	fmt.Fprint(w, rendered)
	return nil
}

func init() {
	reportCmd.PersistentFlags().StringVarP(&reportOutput, "output", "O", "", "Output file ('-' for stdout)")
	reportPartialCmd.Flags().StringVarP(&partialFormat, "format", "f", "json", "Report format: json or md")
	reportPartialCmd.Flags().BoolVar(&partialShow, "show", false, "Render the Markdown report to the terminal")
	reportMainCmd.Flags().StringVarP(&mainKind, "kind", "k", "encoded", "Report kind: encoded or detailed")

	reportCmd.AddCommand(reportFileCmd)
	reportCmd.AddCommand(reportPartialCmd)
	reportCmd.AddCommand(reportMainCmd)
	rootCmd.AddCommand(reportCmd)
}
