package notify

import "log/slog"

// Notification describes a transient, user-facing message. Destructive marks
// messages that report removal or failure and are styled accordingly by the
// consuming surface.
type Notification struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier delivers notifications fire-and-forget. Implementations must never
// fail the calling operation.
type Notifier interface {
	Notify(Notification)
}

// Func adapts a plain function to the Notifier interface.
type Func func(Notification)

// Notify implements Notifier.
func (f Func) Notify(n Notification) {
	if f != nil {
		f(n)
	}
}

// Nop returns a notifier that discards every notification.
func Nop() Notifier {
	return Func(func(Notification) {})
}

// Slog returns a notifier that records notifications on the provided logger.
// It stands in for a real notification surface in headless deployments.
func Slog(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return Func(func(n Notification) {
		logger.Info("notification",
			"title", n.Title,
			"description", n.Description,
			"destructive", n.Destructive,
		)
	})
}
