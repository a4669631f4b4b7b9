package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"docq/internal/api"
	"docq/internal/config"
	"docq/internal/metrics"
	"docq/internal/notify"
	"docq/internal/refresh"
	"docq/internal/session"
	"docq/internal/ui"
	"docq/internal/watch"
)

// Wrapper to allow running the dashboard headless in tests
var runDashboard = func(fetch func() ui.JobSnapshot) error {
	p := tea.NewProgram(ui.NewWatchModel(fetch), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

var watchNotify bool

var watchCmd = &cobra.Command{
	Use:   "watch <job-id>",
	Short: "Live dashboard for a running job",
	Long: `Opens a terminal dashboard that tracks a job, its files and every
answer cell until they converge. Background token renewal keeps the
session alive during long runs, and configured notifiers are pinged
when the job finishes.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchCmd,
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	return withSession(func(client *api.Client, store session.Store) error {
		jobID := args[0]
		logger := newLogger()

		detail, err := client.Job(cmd.Context(), jobID)
		if err != nil {
			return fmt.Errorf("failed to load job %s: %w", jobID, err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		m := metrics.NewMetrics()
		if viper.GetBool("metrics.enabled") {
			go serveMetrics(viper.GetString("metrics.addr"), m, logger.Error)
		}

		// An unrecoverable 401 mid-watch ends the whole session; tear the
		// dashboard down instead of polling with a dead token.
		client.OnSessionExpired = func() {
			m.ForcedLogoutsTotal.Inc()
			logger.Warn("session expired, stopping watch")
			cancel()
		}

		// Keep the token fresh while the dashboard runs.
		cycle := refresh.NewCycle(client, store, logger)
		cycle.Metrics = m
		cycle.Interval = config.RefreshInterval()
		go cycle.Start(ctx)

		notifier := notify.NewManager(logger)

		jobWatcher, err := watch.WatchJob(ctx, client, jobID, watch.Options{
			Interval: config.JobInterval(),
			Metrics:  m,
			Logger:   logger,
			OnChange: func(s api.Status) {
				if s.Terminal() && watchNotify && notifier.Enabled() {
					go notifier.Notify(ctx, notify.JobFinished(jobID, detail.Name, s))
				}
			},
		})
		if err != nil {
			return err
		}
		defer jobWatcher.Cancel()

		fileWatchers := make(map[int64]*watch.FileJobWatcher, len(detail.Files))
		for _, f := range detail.Files {
			fw, err := watch.WatchFileJob(ctx, client, jobID, f.ID, watch.Options{
				Interval: config.JobInterval(),
				Metrics:  m,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			defer fw.Cancel()
			fileWatchers[f.ID] = fw
		}

		answerWatchers := make(map[int64]*watch.AnswerWatcher, len(detail.Answers))
		for _, a := range detail.Answers {
			aw, err := watch.WatchAnswer(ctx, client, a.ID, watch.Options{
				Interval: config.AnswerInterval(),
				Metrics:  m,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			defer aw.Cancel()
			answerWatchers[a.ID] = aw
		}

		fetch := func() ui.JobSnapshot {
			return buildSnapshot(detail, jobWatcher, fileWatchers, answerWatchers)
		}

		return runDashboard(fetch)
	})
}

// buildSnapshot reads every watcher's current state into one immutable
// view for the dashboard.
func buildSnapshot(detail api.JobDetail, job *watch.JobWatcher, files map[int64]*watch.FileJobWatcher, answers map[int64]*watch.AnswerWatcher) ui.JobSnapshot {
	snap := ui.JobSnapshot{
		JobID:  strconv.FormatInt(detail.ID, 10),
		Name:   detail.Name,
		Status: job.Status(),
	}

	for _, f := range detail.Files {
		fs := ui.FileSnapshot{Filename: f.Filename, Status: api.StatusPending}
		if fw, ok := files[f.ID]; ok {
			fs.Status = fw.Status()
			fs.DownloadsEnabled = fw.DownloadsEnabled()
		}
		snap.Files = append(snap.Files, fs)
	}

	for _, ref := range detail.Answers {
		as := ui.AnswerSnapshot{
			Question: lookupQuestion(detail, ref.QuestionID),
			File:     lookupFilename(detail, ref.FileID),
			Status:   api.StatusPending,
		}
		if aw, ok := answers[ref.ID]; ok {
			as.Status = aw.Status()
			as.Ready = aw.Ready()
		}
		snap.Answers = append(snap.Answers, as)
	}
	return snap
}

func serveMetrics(addr string, m *metrics.Metrics, logError func(msg string, args ...any)) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logError("metrics server stopped", "err", err)
	}
}

func init() {
	watchCmd.Flags().BoolVar(&watchNotify, "notify", true, "Ping configured notifiers when the job finishes")
	rootCmd.AddCommand(watchCmd)
}
