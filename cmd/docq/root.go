package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"docq/internal/api"
	"docq/internal/config"
	"docq/internal/session"
)

var exit = os.Exit
var cfgFile string

// Wrappers to allow mocking in tests
var (
	askOneFunc = survey.AskOne

	openStore = func() (session.Store, error) {
		path := config.SessionPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
		return session.NewSQLiteStore(path)
	}

	newClient = func(store session.Store) (*api.Client, error) {
		return api.NewClient(config.BaseURL(), store, newLogger())
	}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docq",
	Short: "DocQ: document question answering from the terminal",
	Long: `DocQ submits document analysis jobs to a DocQ backend, tracks their
progress, and retrieves answers and reports. Sessions persist between
invocations, so you log in once and keep working.`,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'docq --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("server", "", "backend base URL (overrides config and DOCQ_BASE_URL)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")

	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.Load(cfgFile)
}

func newLogger() *slog.Logger {
	var w io.Writer = os.Stderr
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// withSession opens the session store and an API client bound to it, runs
// fn, and closes the store afterwards. Most commands run through here.
func withSession(fn func(client *api.Client, store session.Store) error) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer store.Close()

	client, err := newClient(store)
	if err != nil {
		return fmt.Errorf("failed to build API client: %w", err)
	}

	return fn(client, store)
}
