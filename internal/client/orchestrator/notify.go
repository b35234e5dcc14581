package orchestrator

import (
	"context"
	"log/slog"
)

//go:generate go tool moq -out notifier_mock.go . Notifier

// Notifier delivers user-facing notifications. Delivery is best-effort and
// never required for correctness; implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, title, body string)
}

// LogNotifier writes notifications to the structured log. It is the default
// sink when the user has opted in to notifications but no platform channel is
// wired up.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, title, body string) {
	n.Logger.Info("notification", "title", title, "body", body)
}

// NopNotifier drops all notifications, used when the user has not granted
// the notification permission.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, title, body string) {}
