// Package notify delivers due-item reminders to the console or a webhook.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/recallr/internal/curve"
	"github.com/at-ishikawa/recallr/internal/memory"
	"github.com/at-ishikawa/recallr/internal/reminder"
)

//go:generate mockgen -source=notify.go -destination=../mocks/notify/mock_notifier.go -package=mock_notify Notifier

// Notifier delivers one reminder for a batch of due items.
type Notifier interface {
	Notify(ctx context.Context, due []memory.Item) error
}

// AsCallback adapts a Notifier to a reminder callback. Delivery errors are
// logged so one failing channel does not stop the check loop.
func AsCallback(n Notifier) reminder.Callback {
	return func(ctx context.Context, due []memory.Item) {
		if err := n.Notify(ctx, due); err != nil {
			slog.Warn("failed to deliver reminder", "items", len(due), "error", err)
		}
	}
}

// ConsoleNotifier prints due items to a writer.
type ConsoleNotifier struct {
	w     io.Writer
	clock memory.Clock
}

// NewConsoleNotifier creates a ConsoleNotifier. A nil clock uses the system clock.
func NewConsoleNotifier(w io.Writer, clock memory.Clock) *ConsoleNotifier {
	if clock == nil {
		clock = memory.SystemClock
	}
	return &ConsoleNotifier{w: w, clock: clock}
}

// Notify writes one line per item with the time left until it is due.
func (n *ConsoleNotifier) Notify(ctx context.Context, due []memory.Item) error {
	now := n.clock.Now()
	header := color.New(color.FgCyan, color.Bold)
	if _, err := header.Fprintf(n.w, "%d item(s) due for review soon\n", len(due)); err != nil {
		return fmt.Errorf("header.Fprintf() > %w", err)
	}
	for _, item := range due {
		retention := curve.CurrentRetention(item, now)
		c := color.New(color.FgGreen)
		if curve.IsForgotten(retention) {
			c = color.New(color.FgRed)
		}
		left := item.NextReviewAt.Sub(now).Round(time.Minute)
		if _, err := c.Fprintf(n.w, "  #%d %s (in %s, retention %.1f%%)\n", item.ID, item.Content, left, retention); err != nil {
			return fmt.Errorf("c.Fprintf() > %w", err)
		}
	}
	return nil
}
