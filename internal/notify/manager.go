package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"docq/internal/api"
)

// Manager fans a message out to every configured provider. Providers are
// assembled from configuration; with none configured Notify is a no-op.
type Manager struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewManager builds a manager from the notifications.* configuration.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{logger: logger}

	if viper.GetBool("notifications.slack.enabled") {
		if botToken := os.Getenv("SLACK_BOT_USER_TOKEN"); botToken != "" {
			channel := viper.GetString("notifications.slack.channel")
			m.notifiers = append(m.notifiers, NewSlackNotifier(botToken, channel))
		} else {
			logger.Warn("slack notifications enabled but SLACK_BOT_USER_TOKEN is not set")
		}
	}

	if url := viper.GetString("notifications.discord.webhook_url"); url != "" {
		m.notifiers = append(m.notifiers, NewDiscordNotifier(url))
	}

	return m
}

// Add registers an extra notifier. Used by tests and callers with custom
// providers.
func (m *Manager) Add(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// Enabled reports whether at least one provider is configured.
func (m *Manager) Enabled() bool {
	return len(m.notifiers) > 0
}

// Notify delivers the message to every provider. A failing provider is
// logged and skipped; it never blocks the others.
func (m *Manager) Notify(ctx context.Context, message string) error {
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, message); err != nil {
			m.logger.Warn("notification delivery failed", "error", err)
		}
	}
	return nil
}

// JobFinished formats the completion message for a watched job.
func JobFinished(jobID, jobName string, status api.Status) string {
	icon := "✅"
	if status == api.StatusError {
		icon = "❌"
	}
	if jobName != "" {
		return fmt.Sprintf("%s Job #%s (%s) finished with status %s", icon, jobID, jobName, status)
	}
	return fmt.Sprintf("%s Job #%s finished with status %s", icon, jobID, status)
}
