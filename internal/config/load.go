package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from file and environment variables.
// Every key can be overridden via DOCQ_* environment variables, e.g.
// DOCQ_BASE_URL or DOCQ_POLL_JOB_INTERVAL.
func Load(cfgFile string) {
	// explicit .env loading; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("DOCQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("base_url", "http://localhost:8000")
	viper.SetDefault("session_path", defaultSessionPath())
	viper.SetDefault("poll.job_interval", 5*time.Second)
	viper.SetDefault("poll.answer_interval", 10*time.Second)
	viper.SetDefault("refresh_interval", 5*time.Minute)
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.addr", ":2112")

	// Notification defaults mirror the environment: Slack switches on
	// when a bot token is present.
	viper.SetDefault("notifications.slack.enabled", os.Getenv("SLACK_BOT_USER_TOKEN") != "")
	viper.SetDefault("notifications.slack.channel", "#general")
	viper.SetDefault("notifications.discord.webhook_url", "")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.db"
	}
	return filepath.Join(home, ".docq", "session.db")
}

// BaseURL returns the backend base URL.
func BaseURL() string {
	return strings.TrimRight(viper.GetString("base_url"), "/")
}

// SessionPath returns the SQLite session file location.
func SessionPath() string {
	return viper.GetString("session_path")
}

// JobInterval returns the job status polling cadence.
func JobInterval() time.Duration {
	return viper.GetDuration("poll.job_interval")
}

// AnswerInterval returns the answer status polling cadence.
func AnswerInterval() time.Duration {
	return viper.GetDuration("poll.answer_interval")
}

// RefreshInterval returns the background token renewal cadence.
func RefreshInterval() time.Duration {
	return viper.GetDuration("refresh_interval")
}
