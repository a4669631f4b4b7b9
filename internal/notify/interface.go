package notify

import "context"

// Notifier delivers a human-readable message about a watched job to an
// external channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
