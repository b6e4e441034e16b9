package importer

import "log/slog"

// Severity classifies a user-visible notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier receives user-visible pipeline events. Implementations render
// them however their surface requires: terminal lines, a TUI, or logs.
type Notifier interface {
	// Notify reports a user-visible state transition.
	Notify(severity Severity, text string)

	// RefreshCollections signals that the collection listing may have
	// changed and should be re-read.
	RefreshCollections()
}

// LogNotifier routes notifications to a slog.Logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(severity Severity, text string) {
	log := n.Logger
	if log == nil {
		log = slog.Default()
	}
	switch severity {
	case SeverityError:
		log.Error(text)
	case SeverityWarning:
		log.Warn(text)
	default:
		log.Info(text)
	}
}

func (n LogNotifier) RefreshCollections() {}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(Severity, string) {}
func (NopNotifier) RefreshCollections()     {}
