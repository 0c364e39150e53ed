// Package notify abstracts the user-facing notification channel. The engine
// only decides WHEN a notification is due (payment reminders, payoff
// milestones); delivery belongs to whatever sits behind the interface.
package notify

import (
	"context"
	"log"
	"time"
)

// Notification is one message to deliver to an owner.
type Notification struct {
	OwnerID    string
	Title      string
	Body       string
	TriggerAt  time.Time
	Identifier string
}

// Notifier delivers notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the process log. Used as the default
// sink until a push provider is wired in.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	log.Printf("notify owner=%s id=%s title=%q body=%q trigger=%s",
		n.OwnerID, n.Identifier, n.Title, n.Body, n.TriggerAt.Format(time.RFC3339))
	return nil
}
